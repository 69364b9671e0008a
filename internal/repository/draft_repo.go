package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campaign-os/planner-api/internal/database"
	"github.com/campaign-os/planner-api/internal/models"
)

// draftRepo is the concrete implementation of DraftRepository
type draftRepo struct {
	db *database.DB
}

// NewDraftRepo creates a new content draft repository
func NewDraftRepo(db *database.DB) DraftRepository {
	return &draftRepo{db: db}
}

// Create inserts a new content draft
func (r *draftRepo) Create(ctx context.Context, draft *models.ContentDraft) error {
	query := `
		INSERT INTO content_drafts (id, slot_id, hook, body, cta_copy, visual_idea, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		draft.ID, draft.SlotID, draft.Hook, draft.Body,
		nullable(draft.CTACopy), nullable(draft.VisualIdea),
		draft.Status, now, now,
	)
	return err
}

// GetByID retrieves a draft by ID
func (r *draftRepo) GetByID(ctx context.Context, id string) (*models.ContentDraft, error) {
	query := `
		SELECT id, slot_id, hook, body, COALESCE(cta_copy, ''), COALESCE(visual_idea, ''),
		       status, created_at, updated_at
		FROM content_drafts WHERE id = $1
	`
	var draft models.ContentDraft
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&draft.ID, &draft.SlotID, &draft.Hook, &draft.Body,
		&draft.CTACopy, &draft.VisualIdea, &draft.Status,
		&draft.CreatedAt, &draft.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// ListBySlot retrieves all drafts for a content slot, newest first
func (r *draftRepo) ListBySlot(ctx context.Context, slotID string) ([]*models.ContentDraft, error) {
	query := `
		SELECT id, slot_id, hook, body, COALESCE(cta_copy, ''), COALESCE(visual_idea, ''),
		       status, created_at, updated_at
		FROM content_drafts WHERE slot_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*models.ContentDraft
	for rows.Next() {
		var draft models.ContentDraft
		if err := rows.Scan(
			&draft.ID, &draft.SlotID, &draft.Hook, &draft.Body,
			&draft.CTACopy, &draft.VisualIdea, &draft.Status,
			&draft.CreatedAt, &draft.UpdatedAt,
		); err != nil {
			return nil, err
		}
		drafts = append(drafts, &draft)
	}
	return drafts, rows.Err()
}

// UpdateStatus moves a draft through its lifecycle
func (r *draftRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE content_drafts SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now())
	return err
}

// Delete removes a draft
func (r *draftRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM content_drafts WHERE id = $1", id)
	return err
}
