package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/normalize"
)

// DateLayout is the calendar-date format used throughout the plan
const DateLayout = "2006-01-02"

// SlotValidator validates candidate content slots against their owning plan
// context. Slots are validated independently: one rejection never aborts the
// batch.
type SlotValidator struct {
	campaignID      string
	defaultSprintID string
	sprints         map[string]*models.Sprint
}

// NewSlotValidator creates a validator for the given campaign and sprint
// context. defaultSprintID is substituted for missing or malformed sprint
// references.
func NewSlotValidator(campaignID, defaultSprintID string, sprints []*models.Sprint) *SlotValidator {
	byID := make(map[string]*models.Sprint, len(sprints))
	for _, s := range sprints {
		byID[s.ID] = s
	}
	return &SlotValidator{
		campaignID:      campaignID,
		defaultSprintID: defaultSprintID,
		sprints:         byID,
	}
}

// ValidateSlot validates and normalizes one candidate slot. It returns the
// accepted slot or the field errors that rejected it.
func (v *SlotValidator) ValidateSlot(candidate *models.SlotCandidate) (*models.ContentSlot, []models.ValidationError) {
	// Required-field gate, checked before any normalization
	var missing []models.ValidationError
	if strings.TrimSpace(candidate.Date) == "" {
		missing = append(missing, models.ValidationError{Field: "date", Message: "date is required"})
	}
	if strings.TrimSpace(candidate.Channel) == "" {
		missing = append(missing, models.ValidationError{Field: "channel", Message: "channel is required"})
	}
	if strings.TrimSpace(candidate.Objective) == "" {
		missing = append(missing, models.ValidationError{Field: "objective", Message: "objective is required"})
	}
	if strings.TrimSpace(candidate.ContentType) == "" {
		missing = append(missing, models.ValidationError{Field: "content_type", Message: "content_type is required"})
	}
	if candidate.SlotIndex == nil {
		missing = append(missing, models.ValidationError{Field: "slot_index", Message: "slot_index is required"})
	}
	if len(missing) > 0 {
		return nil, missing
	}

	// Objective and content type are the two rejecting normalizers
	objective, ok := normalize.Objective(candidate.Objective)
	if !ok {
		return nil, []models.ValidationError{{
			Field:   "objective",
			Message: "objective does not map onto a known objective",
			Value:   candidate.Objective,
		}}
	}
	contentType, ok := normalize.ContentType(candidate.ContentType)
	if !ok {
		return nil, []models.ValidationError{{
			Field:   "content_type",
			Message: "content_type must be one of: short_video, story, static_image, carousel, live, long_post, email",
			Value:   candidate.ContentType,
		}}
	}

	// Everything else substitutes a default rather than rejecting
	sprintID := normalize.UUIDOr(candidate.SprintID, v.defaultSprintID)
	sprint := v.sprints[sprintID]

	focusStage := ""
	if sprint != nil {
		focusStage = sprint.FocusStage
	}

	relatedGoals := normalize.UUIDList(candidate.RelatedGoalIDs, models.MaxRelatedGoals)
	if len(relatedGoals) == 0 && sprint != nil {
		relatedGoals = normalize.UUIDList(sprint.FocusGoalIDs, models.MaxRelatedGoals)
	}

	slot := &models.ContentSlot{
		ID:                 normalize.UUIDOrNew(candidate.ID),
		SprintID:           sprintID,
		CampaignID:         v.campaignID,
		Date:               strings.TrimSpace(candidate.Date),
		Channel:            strings.TrimSpace(candidate.Channel),
		SlotIndex:          *candidate.SlotIndex,
		PrimarySegmentID:   normalize.UUIDRef(candidate.PrimarySegmentID),
		SecondarySegmentID: normalize.UUIDRef(candidate.SecondarySegmentID),
		PrimaryTopicID:     normalize.UUIDRef(candidate.PrimaryTopicID),
		SecondaryTopicID:   normalize.UUIDRef(candidate.SecondaryTopicID),
		Objective:          objective,
		ContentType:        contentType,
		FunnelStage:        normalize.FunnelStage(candidate.FunnelStage, focusStage),
		AngleType:          normalize.AngleType(candidate.AngleType),
		CTAType:            normalize.CTAType(candidate.CTAType),
		RelatedGoalIDs:     relatedGoals,
		TimeOfDay:          normalize.TimeOfDay(candidate.TimeOfDay),
		ToneOverride:       normalize.Text(candidate.ToneOverride),
		AngleHint:          normalize.Text(candidate.AngleHint),
		Notes:              normalize.Text(candidate.Notes),
		Status:             normalize.SlotStatus(candidate.Status),
	}

	// Structural conformance on the normalized slot
	if slot.SlotIndex < 0 {
		return nil, []models.ValidationError{{
			Field:   "slot_index",
			Message: "slot_index must be non-negative",
			Value:   slot.SlotIndex,
		}}
	}
	slotDate, err := time.Parse(DateLayout, slot.Date)
	if err != nil {
		return nil, []models.ValidationError{{
			Field:   "date",
			Message: "date must be formatted YYYY-MM-DD",
			Value:   slot.Date,
		}}
	}

	// Date-range membership against the owning sprint, inclusive on both
	// ends. A sprint missing from the context is left to the plan-level
	// referential integrity check.
	if sprint != nil {
		start, startErr := time.Parse(DateLayout, sprint.StartDate)
		end, endErr := time.Parse(DateLayout, sprint.EndDate)
		if startErr == nil && endErr == nil {
			if slotDate.Before(start) || slotDate.After(end) {
				return nil, []models.ValidationError{{
					Field: "date",
					Message: fmt.Sprintf("date %s is outside sprint range %s..%s",
						slot.Date, sprint.StartDate, sprint.EndDate),
					Value: slot.Date,
				}}
			}
		}
	}

	return slot, nil
}

// ValidateBatch validates candidates independently and returns the accepted
// slots plus a rejection record per dropped candidate.
func (v *SlotValidator) ValidateBatch(candidates []*models.SlotCandidate) ([]*models.ContentSlot, []models.SlotRejection) {
	var valid []*models.ContentSlot
	var rejected []models.SlotRejection
	for i, candidate := range candidates {
		slot, errs := v.ValidateSlot(candidate)
		if len(errs) > 0 {
			rejected = append(rejected, models.SlotRejection{Index: i, Errors: errs})
			continue
		}
		valid = append(valid, slot)
	}
	return valid, rejected
}
