package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campaign-os/planner-api/internal/database"
	"github.com/campaign-os/planner-api/internal/models"
	"github.com/lib/pq"
)

// slotRepo is the concrete implementation of SlotRepository
type slotRepo struct {
	db *database.DB
}

// NewSlotRepo creates a new content slot repository
func NewSlotRepo(db *database.DB) SlotRepository {
	return &slotRepo{db: db}
}

const slotColumns = `
	id, sprint_id, campaign_id, to_char(slot_date, 'YYYY-MM-DD'), channel, slot_index,
	COALESCE(primary_segment_id::text, ''), COALESCE(secondary_segment_id::text, ''),
	COALESCE(primary_topic_id::text, ''), COALESCE(secondary_topic_id::text, ''),
	objective, content_type, funnel_stage, angle_type, cta_type,
	related_goal_ids, COALESCE(time_of_day, ''), COALESCE(tone_override, ''),
	COALESCE(angle_hint, ''), COALESCE(notes, ''), status, created_at
`

// BatchInsert inserts content slots using PostgreSQL COPY. Unlike per-slot
// validation, a failure here is fatal for the whole batch: the caller relies
// on all-or-nothing behavior to keep its compensating rollback simple.
func (r *slotRepo) BatchInsert(ctx context.Context, slots []*models.ContentSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("content_slots",
		"id", "sprint_id", "campaign_id", "slot_date", "channel", "slot_index",
		"primary_segment_id", "secondary_segment_id", "primary_topic_id", "secondary_topic_id",
		"objective", "content_type", "funnel_stage", "angle_type", "cta_type",
		"related_goal_ids", "time_of_day", "tone_override", "angle_hint", "notes",
		"status", "created_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now()
	for _, slot := range slots {
		_, err := stmt.ExecContext(ctx,
			slot.ID, slot.SprintID, slot.CampaignID, slot.Date, slot.Channel, slot.SlotIndex,
			nullable(slot.PrimarySegmentID), nullable(slot.SecondarySegmentID),
			nullable(slot.PrimaryTopicID), nullable(slot.SecondaryTopicID),
			slot.Objective, slot.ContentType, slot.FunnelStage, slot.AngleType, slot.CTAType,
			pq.Array(slot.RelatedGoalIDs), nullable(slot.TimeOfDay), nullable(slot.ToneOverride),
			nullable(slot.AngleHint), nullable(slot.Notes),
			slot.Status, now,
		)
		if err != nil {
			return 0, err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(slots), nil
}

// GetByID retrieves a content slot by ID
func (r *slotRepo) GetByID(ctx context.Context, id string) (*models.ContentSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM content_slots WHERE id = $1`
	slot, err := scanSlot(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// ListByCampaign retrieves a campaign's slots ordered by (date, slot_index)
func (r *slotRepo) ListByCampaign(ctx context.Context, campaignID string) ([]*models.ContentSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM content_slots WHERE campaign_id = $1 ORDER BY slot_date, slot_index`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.ContentSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Update rewrites the editable fields of an existing slot
func (r *slotRepo) Update(ctx context.Context, slot *models.ContentSlot) error {
	query := `
		UPDATE content_slots SET
			slot_date = $2, channel = $3, slot_index = $4,
			primary_segment_id = $5, secondary_segment_id = $6,
			primary_topic_id = $7, secondary_topic_id = $8,
			objective = $9, content_type = $10, funnel_stage = $11,
			angle_type = $12, cta_type = $13, related_goal_ids = $14,
			time_of_day = $15, tone_override = $16, angle_hint = $17,
			notes = $18, status = $19
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.Date, slot.Channel, slot.SlotIndex,
		nullable(slot.PrimarySegmentID), nullable(slot.SecondarySegmentID),
		nullable(slot.PrimaryTopicID), nullable(slot.SecondaryTopicID),
		slot.Objective, slot.ContentType, slot.FunnelStage,
		slot.AngleType, slot.CTAType, pq.Array(slot.RelatedGoalIDs),
		nullable(slot.TimeOfDay), nullable(slot.ToneOverride), nullable(slot.AngleHint),
		nullable(slot.Notes), slot.Status,
	)
	return err
}

// Delete removes a content slot
func (r *slotRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM content_slots WHERE id = $1", id)
	return err
}

// DeleteBySprintIDs deletes all slots owned by the given sprints; used by
// compensating rollback
func (r *slotRepo) DeleteBySprintIDs(ctx context.Context, sprintIDs []string) error {
	if len(sprintIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM content_slots WHERE sprint_id = ANY($1)", pq.Array(sprintIDs))
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*models.ContentSlot, error) {
	var slot models.ContentSlot
	var relatedGoals pq.StringArray
	err := row.Scan(
		&slot.ID, &slot.SprintID, &slot.CampaignID, &slot.Date, &slot.Channel, &slot.SlotIndex,
		&slot.PrimarySegmentID, &slot.SecondarySegmentID,
		&slot.PrimaryTopicID, &slot.SecondaryTopicID,
		&slot.Objective, &slot.ContentType, &slot.FunnelStage, &slot.AngleType, &slot.CTAType,
		&relatedGoals, &slot.TimeOfDay, &slot.ToneOverride,
		&slot.AngleHint, &slot.Notes, &slot.Status, &slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	slot.RelatedGoalIDs = relatedGoals
	return &slot, nil
}

// nullable maps "" to SQL NULL for optional text columns
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
