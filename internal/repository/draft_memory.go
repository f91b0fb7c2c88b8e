package repository

import (
	"context"
	"sync"
	"time"

	"proximart/webclient/internal/model"
)

type memoryDraft struct {
	selection model.DraftSelection
	expiry    time.Time
}

// MemoryDraftStore keeps drafts in process memory. Suitable for a single
// instance; drafts are lost on restart. Expired drafts are swept on write at
// most once per sweep interval.
type MemoryDraftStore struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	drafts    map[model.DraftKey]memoryDraft
	nextSweep time.Time
}

// maxSweepInterval bounds how long expired drafts linger with a long TTL.
const maxSweepInterval = time.Minute

func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[model.DraftKey]memoryDraft),
	}
}

func (s *MemoryDraftStore) SetQuantities(_ context.Context, key model.DraftKey, edits []model.DraftEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	draft, ok := s.drafts[key]
	if !ok || !now.Before(draft.expiry) {
		draft = memoryDraft{selection: model.DraftSelection{}}
	}
	for _, edit := range edits {
		draft.selection.Set(edit.Item, edit.Quantity)
	}
	draft.expiry = now.Add(s.ttl)
	s.drafts[key] = draft
	return nil
}

// Load returns a copy so callers cannot mutate the stored draft.
func (s *MemoryDraftStore) Load(_ context.Context, key model.DraftKey) (model.DraftSelection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := model.DraftSelection{}
	draft, ok := s.drafts[key]
	if !ok || !s.now().Before(draft.expiry) {
		return out, nil
	}
	for name, qty := range draft.selection {
		out[name] = qty
	}
	return out, nil
}

// sweep drops expired drafts. Callers hold the write lock.
func (s *MemoryDraftStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for key, draft := range s.drafts {
		if !now.Before(draft.expiry) {
			delete(s.drafts, key)
		}
	}
	s.nextSweep = now.Add(min(s.ttl, maxSweepInterval))
}

func (s *MemoryDraftStore) Clear(_ context.Context, key model.DraftKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}
