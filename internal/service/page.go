package service

import (
	"context"
	"errors"
	"log/slog"

	"proximart/webclient/internal/service/proximart"
)

// State is the lifecycle of one fetched resource on a page.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateNotFound State = "not_found"
	StateFailed   State = "failed"
)

type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
)

// Notice is the one channel every page uses to report outcomes to the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Section holds a resource and where it is in its lifecycle.
type Section[T any] struct {
	State State `json:"state"`
	Data  T     `json:"data"`
}

func (s Section[T]) Loaded() bool {
	return s.State == StateLoaded
}

// Vendor identifies the ordering party all pages act for.
type Vendor struct {
	ID string
}

// load runs fetch and turns its outcome into a Section plus, on failure, a
// notice naming the resource.
func load[T any](ctx context.Context, logger *slog.Logger, resource string, fetch func(context.Context) (T, error)) (Section[T], *Notice) {
	section := Section[T]{State: StateLoading}

	data, err := fetch(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load resource", slog.String("resource", resource), slog.Any("error", err))
		section.State = StateFailed
		return section, failureNotice("Failed to load "+resource+".", err)
	}

	section.State = StateLoaded
	section.Data = data
	return section, nil
}

// failureNotice shows API error messages verbatim and falls back to fallback
// for anything else.
func failureNotice(fallback string, err error) *Notice {
	var reqErr *proximart.RequestFailedError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return &Notice{Kind: NoticeError, Message: reqErr.Message}
	}
	return &Notice{Kind: NoticeError, Message: fallback}
}

func appendNotice(notices []Notice, n *Notice) []Notice {
	if n == nil {
		return notices
	}
	return append(notices, *n)
}
