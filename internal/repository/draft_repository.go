package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"proximart/webclient/internal/model"
)

const draftSchema = `
CREATE TABLE IF NOT EXISTS order_drafts (
	session_id  TEXT        NOT NULL,
	supplier_id TEXT        NOT NULL,
	item_name   TEXT        NOT NULL,
	quantity    INTEGER     NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (session_id, supplier_id, item_name)
)`

// DraftRepository stores draft selections in PostgreSQL, one row per item.
// Drafts untouched for longer than ttl are treated as gone.
type DraftRepository struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

func NewDraftRepository(db *pgxpool.Pool, ttl time.Duration) *DraftRepository {
	return &DraftRepository{db: db, ttl: ttl}
}

// EnsureSchema creates the drafts table when it does not exist yet.
func (r *DraftRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, draftSchema); err != nil {
		return fmt.Errorf("failed to create order_drafts: %w", err)
	}
	return nil
}

// RunAtomic executes a function within a transaction
func (r *DraftRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op once Commit succeeded.
	defer tx.Rollback(ctx)

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txKey struct{}

func (r *DraftRepository) getExecutor(ctx context.Context) PgxExecutor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

// PgxExecutor is an interface that matches both *pgx.Conn/Pool and pgx.Tx
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SetQuantities upserts every edit in order and refreshes the draft's age.
func (r *DraftRepository) SetQuantities(ctx context.Context, key model.DraftKey, edits []model.DraftEdit) error {
	return r.RunAtomic(ctx, func(ctx context.Context) error {
		if err := r.purgeExpired(ctx, key); err != nil {
			return err
		}
		for _, edit := range edits {
			if err := r.upsertLine(ctx, key, edit); err != nil {
				return err
			}
		}
		return r.touch(ctx, key)
	})
}

// Load returns the live lines of a draft; an unknown draft is empty.
func (r *DraftRepository) Load(ctx context.Context, key model.DraftKey) (model.DraftSelection, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT item_name, quantity FROM order_drafts WHERE session_id = $1 AND supplier_id = $2 AND updated_at > $3",
		key.SessionID, key.SupplierID, r.cutoff())
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	defer rows.Close()

	draft := model.DraftSelection{}
	for rows.Next() {
		var name string
		var qty int
		if err := rows.Scan(&name, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan draft line: %w", err)
		}
		draft[name] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return draft, nil
}

// Clear removes every line of a draft
func (r *DraftRepository) Clear(ctx context.Context, key model.DraftKey) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"DELETE FROM order_drafts WHERE session_id = $1 AND supplier_id = $2",
		key.SessionID, key.SupplierID)
	if err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) upsertLine(ctx context.Context, key model.DraftKey, edit model.DraftEdit) error {
	_, err := r.getExecutor(ctx).Exec(ctx, `
		INSERT INTO order_drafts (session_id, supplier_id, item_name, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (session_id, supplier_id, item_name)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		key.SessionID, key.SupplierID, edit.Item, edit.Quantity)
	if err != nil {
		return fmt.Errorf("failed to save draft line %q: %w", edit.Item, err)
	}
	return nil
}

func (r *DraftRepository) touch(ctx context.Context, key model.DraftKey) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"UPDATE order_drafts SET updated_at = now() WHERE session_id = $1 AND supplier_id = $2",
		key.SessionID, key.SupplierID)
	if err != nil {
		return fmt.Errorf("failed to refresh draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) purgeExpired(ctx context.Context, key model.DraftKey) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"DELETE FROM order_drafts WHERE session_id = $1 AND supplier_id = $2 AND updated_at <= $3",
		key.SessionID, key.SupplierID, r.cutoff())
	if err != nil {
		return fmt.Errorf("failed to purge expired draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) cutoff() time.Time {
	return time.Now().Add(-r.ttl)
}
