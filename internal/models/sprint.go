package models

import (
	"time"
)

// Sprint represents a time-boxed phase of a campaign. A sprint owns its
// content slots: deleting a sprint cascades to slots and junction rows.
type Sprint struct {
	ID                  string    `json:"id" db:"id"`
	CampaignID          string    `json:"campaign_id" db:"campaign_id"`
	Name                string    `json:"name" db:"name"`
	Order               int       `json:"order" db:"sprint_order"`
	StartDate           string    `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate             string    `json:"end_date" db:"end_date"`     // YYYY-MM-DD
	FocusStage          string    `json:"focus_stage" db:"focus_stage"`
	FocusDescription    string    `json:"focus_description,omitempty" db:"focus_description"`
	FocusGoalIDs        []string  `json:"focus_goal_ids,omitempty" db:"focus_goal_ids"`
	PrimarySegmentIDs   []string  `json:"primary_segment_ids" db:"-"`   // sprint_segments rows, role=primary
	SecondarySegmentIDs []string  `json:"secondary_segment_ids" db:"-"` // sprint_segments rows, role=secondary
	TopicIDs            []string  `json:"topic_ids" db:"-"`             // sprint_topics rows
	Channels            []string  `json:"channels" db:"-"`              // sprint_channels rows
	WeeklyPostVolume    *int      `json:"weekly_post_volume,omitempty" db:"weekly_post_volume"`
	NarrativeEmphasis   string    `json:"narrative_emphasis,omitempty" db:"narrative_emphasis"`
	SuccessCriteria     []string  `json:"success_criteria,omitempty" db:"success_criteria"`
	Risks               []string  `json:"risks,omitempty" db:"risks"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// SprintCandidate is the loosely-typed wire shape for a sprint arriving from
// the AI provider or a client-submitted execution plan. JSON-typed columns
// (success criteria, risks) may arrive as array, object, string or null and
// are coerced during validation.
type SprintCandidate struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Order               *int        `json:"order"`
	StartDate           string      `json:"start_date"`
	EndDate             string      `json:"end_date"`
	FocusStage          string      `json:"focus_stage"`
	FocusDescription    *string     `json:"focus_description"`
	FocusGoalIDs        []string    `json:"focus_goal_ids"`
	PrimarySegmentIDs   []string    `json:"primary_segment_ids"`
	SecondarySegmentIDs []string    `json:"secondary_segment_ids"`
	TopicIDs            []string    `json:"topic_ids"`
	Channels            []string    `json:"channels"`
	WeeklyPostVolume    *int        `json:"weekly_post_volume"`
	NarrativeEmphasis   *string     `json:"narrative_emphasis"`
	SuccessCriteria     interface{} `json:"success_criteria"`
	Risks               interface{} `json:"risks_and_watchouts"`
}
