package models

import (
	"time"
)

// Draft status lifecycle
const (
	DraftStatusDraft     = "draft"
	DraftStatusApproved  = "approved"
	DraftStatusRejected  = "rejected"
	DraftStatusPublished = "published"
)

// ValidDraftStatuses defines allowed content draft statuses
var ValidDraftStatuses = map[string]bool{
	DraftStatusDraft:     true,
	DraftStatusApproved:  true,
	DraftStatusRejected:  true,
	DraftStatusPublished: true,
}

// ContentDraft is a generated copy variant for a content slot. Drafts are
// owned by their slot and cascade-deleted with it.
type ContentDraft struct {
	ID         string    `json:"id" db:"id"`
	SlotID     string    `json:"slot_id" db:"slot_id"`
	Hook       string    `json:"hook" db:"hook"`
	Body       string    `json:"body" db:"body"`
	CTACopy    string    `json:"cta_copy,omitempty" db:"cta_copy"`
	VisualIdea string    `json:"visual_idea,omitempty" db:"visual_idea"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
