package repository

import (
	"context"

	"github.com/campaign-os/planner-api/internal/database"
	"github.com/campaign-os/planner-api/internal/models"
)

// JunctionRows holds sprint junction rows grouped by sprint id
type JunctionRows struct {
	PrimarySegments   map[string][]string
	SecondarySegments map[string][]string
	Topics            map[string][]string
	Channels          map[string][]string
}

// SprintRepository defines the interface for sprint data operations. Each
// call is individually atomic; cross-call atomicity is the plan service's
// compensating-delete responsibility.
type SprintRepository interface {
	Insert(ctx context.Context, sprint *models.Sprint) error
	InsertJunctions(ctx context.Context, sprints []*models.Sprint) error
	ListByCampaign(ctx context.Context, campaignID string) ([]*models.Sprint, error)
	ListJunctions(ctx context.Context, sprintIDs []string) (*JunctionRows, error)
	ExistsForCampaign(ctx context.Context, campaignID string) (bool, error)
	DeleteByCampaign(ctx context.Context, campaignID string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteJunctionsBySprintIDs(ctx context.Context, ids []string) error
}

// SlotRepository defines the interface for content slot data operations
type SlotRepository interface {
	BatchInsert(ctx context.Context, slots []*models.ContentSlot) (int, error)
	GetByID(ctx context.Context, id string) (*models.ContentSlot, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*models.ContentSlot, error)
	Update(ctx context.Context, slot *models.ContentSlot) error
	Delete(ctx context.Context, id string) error
	DeleteBySprintIDs(ctx context.Context, sprintIDs []string) error
}

// DraftRepository defines the interface for content draft data operations
type DraftRepository interface {
	Create(ctx context.Context, draft *models.ContentDraft) error
	GetByID(ctx context.Context, id string) (*models.ContentDraft, error)
	ListBySlot(ctx context.Context, slotID string) ([]*models.ContentDraft, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Sprint SprintRepository
	Slot   SlotRepository
	Draft  DraftRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Sprint: NewSprintRepo(db),
		Slot:   NewSlotRepo(db),
		Draft:  NewDraftRepo(db),
	}
}
