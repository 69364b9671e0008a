package repository

import (
	"context"
	"time"

	"github.com/campaign-os/planner-api/internal/database"
	"github.com/campaign-os/planner-api/internal/models"
	"github.com/lib/pq"
)

// sprintRepo is the concrete implementation of SprintRepository
type sprintRepo struct {
	db *database.DB
}

// NewSprintRepo creates a new sprint repository
func NewSprintRepo(db *database.DB) SprintRepository {
	return &sprintRepo{db: db}
}

// Insert inserts a single sprint row. Junction rows are inserted separately
// by InsertJunctions.
func (r *sprintRepo) Insert(ctx context.Context, sprint *models.Sprint) error {
	query := `
		INSERT INTO sprints (
			id, campaign_id, name, sprint_order, start_date, end_date,
			focus_stage, focus_description, focus_goal_ids,
			weekly_post_volume, narrative_emphasis, success_criteria, risks,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		sprint.ID, sprint.CampaignID, sprint.Name, sprint.Order,
		sprint.StartDate, sprint.EndDate,
		sprint.FocusStage, sprint.FocusDescription, pq.Array(sprint.FocusGoalIDs),
		sprint.WeeklyPostVolume, sprint.NarrativeEmphasis,
		pq.Array(sprint.SuccessCriteria), pq.Array(sprint.Risks),
		time.Now(),
	)
	return err
}

// InsertJunctions bulk-inserts segment, topic and channel junction rows for
// the given sprints using PostgreSQL COPY
func (r *sprintRepo) InsertJunctions(ctx context.Context, sprints []*models.Sprint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	segStmt, err := tx.PrepareContext(ctx, pq.CopyIn("sprint_segments", "sprint_id", "segment_id", "role"))
	if err != nil {
		return err
	}
	for _, sprint := range sprints {
		for _, segmentID := range sprint.PrimarySegmentIDs {
			if _, err := segStmt.ExecContext(ctx, sprint.ID, segmentID, "primary"); err != nil {
				segStmt.Close()
				return err
			}
		}
		for _, segmentID := range sprint.SecondarySegmentIDs {
			if _, err := segStmt.ExecContext(ctx, sprint.ID, segmentID, "secondary"); err != nil {
				segStmt.Close()
				return err
			}
		}
	}
	if _, err := segStmt.ExecContext(ctx); err != nil {
		segStmt.Close()
		return err
	}
	segStmt.Close()

	topicStmt, err := tx.PrepareContext(ctx, pq.CopyIn("sprint_topics", "sprint_id", "topic_id"))
	if err != nil {
		return err
	}
	for _, sprint := range sprints {
		for _, topicID := range sprint.TopicIDs {
			if _, err := topicStmt.ExecContext(ctx, sprint.ID, topicID); err != nil {
				topicStmt.Close()
				return err
			}
		}
	}
	if _, err := topicStmt.ExecContext(ctx); err != nil {
		topicStmt.Close()
		return err
	}
	topicStmt.Close()

	chanStmt, err := tx.PrepareContext(ctx, pq.CopyIn("sprint_channels", "sprint_id", "channel"))
	if err != nil {
		return err
	}
	for _, sprint := range sprints {
		for _, channel := range sprint.Channels {
			if _, err := chanStmt.ExecContext(ctx, sprint.ID, channel); err != nil {
				chanStmt.Close()
				return err
			}
		}
	}
	if _, err := chanStmt.ExecContext(ctx); err != nil {
		chanStmt.Close()
		return err
	}
	chanStmt.Close()

	return tx.Commit()
}

// ListByCampaign retrieves a campaign's sprints ordered by sprint order.
// Junction-backed lists are not populated here; use ListJunctions.
func (r *sprintRepo) ListByCampaign(ctx context.Context, campaignID string) ([]*models.Sprint, error) {
	query := `
		SELECT id, campaign_id, name, sprint_order,
		       to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
		       focus_stage, COALESCE(focus_description, ''), focus_goal_ids,
		       weekly_post_volume, COALESCE(narrative_emphasis, ''),
		       success_criteria, risks, created_at
		FROM sprints
		WHERE campaign_id = $1
		ORDER BY sprint_order
	`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sprints []*models.Sprint
	for rows.Next() {
		var sprint models.Sprint
		var goalIDs, criteria, risks pq.StringArray
		if err := rows.Scan(
			&sprint.ID, &sprint.CampaignID, &sprint.Name, &sprint.Order,
			&sprint.StartDate, &sprint.EndDate,
			&sprint.FocusStage, &sprint.FocusDescription, &goalIDs,
			&sprint.WeeklyPostVolume, &sprint.NarrativeEmphasis,
			&criteria, &risks, &sprint.CreatedAt,
		); err != nil {
			return nil, err
		}
		sprint.FocusGoalIDs = goalIDs
		sprint.SuccessCriteria = criteria
		sprint.Risks = risks
		sprints = append(sprints, &sprint)
	}
	return sprints, rows.Err()
}

// ListJunctions fetches the three junction tables filtered to the given
// sprint ids, grouped by sprint id
func (r *sprintRepo) ListJunctions(ctx context.Context, sprintIDs []string) (*JunctionRows, error) {
	junctions := &JunctionRows{
		PrimarySegments:   make(map[string][]string),
		SecondarySegments: make(map[string][]string),
		Topics:            make(map[string][]string),
		Channels:          make(map[string][]string),
	}
	if len(sprintIDs) == 0 {
		return junctions, nil
	}

	segRows, err := r.db.QueryContext(ctx,
		`SELECT sprint_id, segment_id, role FROM sprint_segments WHERE sprint_id = ANY($1)`,
		pq.Array(sprintIDs))
	if err != nil {
		return nil, err
	}
	defer segRows.Close()
	for segRows.Next() {
		var sprintID, segmentID, role string
		if err := segRows.Scan(&sprintID, &segmentID, &role); err != nil {
			return nil, err
		}
		if role == "secondary" {
			junctions.SecondarySegments[sprintID] = append(junctions.SecondarySegments[sprintID], segmentID)
		} else {
			junctions.PrimarySegments[sprintID] = append(junctions.PrimarySegments[sprintID], segmentID)
		}
	}
	if err := segRows.Err(); err != nil {
		return nil, err
	}

	topicRows, err := r.db.QueryContext(ctx,
		`SELECT sprint_id, topic_id FROM sprint_topics WHERE sprint_id = ANY($1)`,
		pq.Array(sprintIDs))
	if err != nil {
		return nil, err
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var sprintID, topicID string
		if err := topicRows.Scan(&sprintID, &topicID); err != nil {
			return nil, err
		}
		junctions.Topics[sprintID] = append(junctions.Topics[sprintID], topicID)
	}
	if err := topicRows.Err(); err != nil {
		return nil, err
	}

	chanRows, err := r.db.QueryContext(ctx,
		`SELECT sprint_id, channel FROM sprint_channels WHERE sprint_id = ANY($1)`,
		pq.Array(sprintIDs))
	if err != nil {
		return nil, err
	}
	defer chanRows.Close()
	for chanRows.Next() {
		var sprintID, channel string
		if err := chanRows.Scan(&sprintID, &channel); err != nil {
			return nil, err
		}
		junctions.Channels[sprintID] = append(junctions.Channels[sprintID], channel)
	}
	return junctions, chanRows.Err()
}

// ExistsForCampaign checks whether any sprint exists for the campaign
func (r *sprintRepo) ExistsForCampaign(ctx context.Context, campaignID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM sprints WHERE campaign_id = $1)", campaignID).Scan(&exists)
	return exists, err
}

// DeleteByCampaign deletes all sprints for a campaign; content slots and
// junction rows cascade
func (r *sprintRepo) DeleteByCampaign(ctx context.Context, campaignID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sprints WHERE campaign_id = $1", campaignID)
	return err
}

// DeleteByIDs deletes the given sprints; used by compensating rollback
func (r *sprintRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM sprints WHERE id = ANY($1)", pq.Array(ids))
	return err
}

// DeleteJunctionsBySprintIDs deletes junction rows for the given sprints;
// used by compensating rollback
func (r *sprintRepo) DeleteJunctionsBySprintIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, table := range []string{"sprint_segments", "sprint_topics", "sprint_channels"} {
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE sprint_id = ANY($1)", pq.Array(ids)); err != nil {
			return err
		}
	}
	return nil
}
