// Package constraints reconciles a validated execution plan against
// sprint-level channel focus rules. Enforcement is advisory: it may adjust
// the plan and emits warnings, never errors.
package constraints

import (
	"fmt"

	"github.com/campaign-os/planner-api/internal/models"
)

// Enforcer adjusts a plan after it has passed invariant checking.
// focusChannels maps sprint id to that sprint's declared focus channels.
type Enforcer interface {
	Enforce(plan *models.ExecutionPlan, focusChannels map[string][]string) (*models.ExecutionPlan, []string)
}

// ChannelMixEnforcer is the default enforcer. Slots scheduled on a channel
// outside their sprint's declared focus produce a warning; the slot itself
// is kept.
type ChannelMixEnforcer struct{}

// NewChannelMixEnforcer creates the default enforcer
func NewChannelMixEnforcer() *ChannelMixEnforcer {
	return &ChannelMixEnforcer{}
}

// Enforce checks every slot's channel against its sprint's focus channels
func (e *ChannelMixEnforcer) Enforce(plan *models.ExecutionPlan, focusChannels map[string][]string) (*models.ExecutionPlan, []string) {
	var warnings []string
	for _, slot := range plan.ContentSlots {
		focus, ok := focusChannels[slot.SprintID]
		if !ok || len(focus) == 0 {
			continue
		}
		if !contains(focus, slot.Channel) {
			warnings = append(warnings, fmt.Sprintf(
				"slot %s on %s is scheduled on channel %q outside the sprint focus %v",
				slot.ID, slot.Date, slot.Channel, focus))
		}
	}
	return plan, warnings
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
