package models

import (
	"time"
)

// Objective values. Objective normalization is partial: a slot whose
// objective cannot be mapped onto this set is rejected, not defaulted.
const (
	ObjectiveReach        = "reach"
	ObjectiveEngagement   = "engagement"
	ObjectiveTraffic      = "traffic"
	ObjectiveLead         = "lead"
	ObjectiveConversion   = "conversion"
	ObjectiveMobilization = "mobilization"
)

// ValidObjectives defines allowed slot objectives
var ValidObjectives = map[string]bool{
	ObjectiveReach:        true,
	ObjectiveEngagement:   true,
	ObjectiveTraffic:      true,
	ObjectiveLead:         true,
	ObjectiveConversion:   true,
	ObjectiveMobilization: true,
}

// ValidContentTypes defines allowed slot content types
var ValidContentTypes = map[string]bool{
	"short_video":  true,
	"story":        true,
	"static_image": true,
	"carousel":     true,
	"live":         true,
	"long_post":    true,
	"email":        true,
}

// ValidAngleTypes defines allowed angle types; unrecognized input defaults
// to "other"
var ValidAngleTypes = map[string]bool{
	"story":             true,
	"proof":             true,
	"how_to":            true,
	"comparison":        true,
	"behind_the_scenes": true,
	"testimonial":       true,
	"other":             true,
}

// ValidCTATypes defines allowed CTA types; unrecognized input defaults to
// "learn_more"
var ValidCTATypes = map[string]bool{
	"soft_info":    true,
	"learn_more":   true,
	"signup":       true,
	"donate":       true,
	"attend_event": true,
	"share":        true,
	"comment":      true,
}

// ValidFunnelStages defines allowed funnel stages for goals, sprints and slots
var ValidFunnelStages = map[string]bool{
	"awareness":     true,
	"engagement":    true,
	"consideration": true,
	"conversion":    true,
	"mobilization":  true,
}

// ValidTimesOfDay defines allowed time-of-day hints
var ValidTimesOfDay = map[string]bool{
	"morning":     true,
	"midday":      true,
	"evening":     true,
	"unspecified": true,
}

// Slot status lifecycle
const (
	SlotStatusPlanned   = "planned"
	SlotStatusDraft     = "draft"
	SlotStatusPublished = "published"
)

// ValidSlotStatuses defines allowed content slot statuses
var ValidSlotStatuses = map[string]bool{
	SlotStatusPlanned:   true,
	SlotStatusDraft:     true,
	SlotStatusPublished: true,
}

// MaxRelatedGoals caps the goal references carried by one slot
const MaxRelatedGoals = 2

// ContentSlot represents one scheduled piece of content. The core invariant
// is that (date, channel, slot_index) is unique within a campaign and that
// the date falls inside the owning sprint's range, inclusive on both ends.
type ContentSlot struct {
	ID                 string    `json:"id" db:"id"`
	SprintID           string    `json:"sprint_id" db:"sprint_id"`
	CampaignID         string    `json:"campaign_id" db:"campaign_id"`
	Date               string    `json:"date" db:"slot_date"` // YYYY-MM-DD
	Channel            string    `json:"channel" db:"channel"`
	SlotIndex          int       `json:"slot_index" db:"slot_index"`
	PrimarySegmentID   string    `json:"primary_segment_id,omitempty" db:"primary_segment_id"`
	SecondarySegmentID string    `json:"secondary_segment_id,omitempty" db:"secondary_segment_id"`
	PrimaryTopicID     string    `json:"primary_topic_id,omitempty" db:"primary_topic_id"`
	SecondaryTopicID   string    `json:"secondary_topic_id,omitempty" db:"secondary_topic_id"`
	Objective          string    `json:"objective" db:"objective"`
	ContentType        string    `json:"content_type" db:"content_type"`
	FunnelStage        string    `json:"funnel_stage" db:"funnel_stage"`
	AngleType          string    `json:"angle_type" db:"angle_type"`
	CTAType            string    `json:"cta_type" db:"cta_type"`
	RelatedGoalIDs     []string  `json:"related_goal_ids,omitempty" db:"related_goal_ids"`
	TimeOfDay          string    `json:"time_of_day,omitempty" db:"time_of_day"`
	ToneOverride       string    `json:"tone_override,omitempty" db:"tone_override"`
	AngleHint          string    `json:"angle_hint,omitempty" db:"angle_hint"`
	Notes              string    `json:"notes,omitempty" db:"notes"`
	Status             string    `json:"status" db:"status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// SlotCandidate is the loosely-typed wire shape for one content slot as
// emitted by the AI provider or submitted by a client. Every field is
// optional at this stage; the validator decides what is required.
type SlotCandidate struct {
	ID                 string   `json:"id"`
	SprintID           string   `json:"sprint_id"`
	Date               string   `json:"date"`
	Channel            string   `json:"channel"`
	SlotIndex          *int     `json:"slot_index"`
	PrimarySegmentID   string   `json:"primary_segment_id"`
	SecondarySegmentID string   `json:"secondary_segment_id"`
	PrimaryTopicID     string   `json:"primary_topic_id"`
	SecondaryTopicID   string   `json:"secondary_topic_id"`
	Objective          string   `json:"objective"`
	ContentType        string   `json:"content_type"`
	FunnelStage        string   `json:"funnel_stage"`
	AngleType          string   `json:"angle_type"`
	CTAType            string   `json:"cta_type"`
	RelatedGoalIDs     []string `json:"related_goal_ids"`
	TimeOfDay          string   `json:"time_of_day"`
	ToneOverride       *string  `json:"tone_override"`
	AngleHint          *string  `json:"angle_hint"`
	Notes              *string  `json:"notes"`
	Status             string   `json:"status"`
}
