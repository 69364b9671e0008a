package mocks

import (
	"context"
	"sort"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/campaign-os/planner-api/internal/repository"
)

// MockSprintRepository is a mock implementation of SprintRepository
type MockSprintRepository struct {
	Sprints             map[string]*models.Sprint
	Junctions           map[string]*models.Sprint // sprint id -> junction source
	InsertError         error
	InsertErrorAfter    int // fail Insert once this many sprints exist (0 = use InsertError directly)
	InsertJunctionsErr  error
	InsertCalls         int
	DeletedSprintIDs    []string
	DeletedJunctionsFor []string
	DeletedCampaigns    []string
}

func NewMockSprintRepository() *MockSprintRepository {
	return &MockSprintRepository{
		Sprints:   make(map[string]*models.Sprint),
		Junctions: make(map[string]*models.Sprint),
	}
}

func (m *MockSprintRepository) Insert(ctx context.Context, sprint *models.Sprint) error {
	m.InsertCalls++
	if m.InsertErrorAfter > 0 && len(m.Sprints) >= m.InsertErrorAfter {
		return m.InsertError
	}
	if m.InsertErrorAfter == 0 && m.InsertError != nil {
		return m.InsertError
	}
	copied := *sprint
	m.Sprints[sprint.ID] = &copied
	return nil
}

func (m *MockSprintRepository) InsertJunctions(ctx context.Context, sprints []*models.Sprint) error {
	if m.InsertJunctionsErr != nil {
		return m.InsertJunctionsErr
	}
	for _, sprint := range sprints {
		copied := *sprint
		m.Junctions[sprint.ID] = &copied
	}
	return nil
}

func (m *MockSprintRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*models.Sprint, error) {
	var sprints []*models.Sprint
	for _, sprint := range m.Sprints {
		if sprint.CampaignID == campaignID {
			sprints = append(sprints, sprint)
		}
	}
	sort.Slice(sprints, func(i, j int) bool { return sprints[i].Order < sprints[j].Order })
	return sprints, nil
}

func (m *MockSprintRepository) ListJunctions(ctx context.Context, sprintIDs []string) (*repository.JunctionRows, error) {
	junctions := &repository.JunctionRows{
		PrimarySegments:   make(map[string][]string),
		SecondarySegments: make(map[string][]string),
		Topics:            make(map[string][]string),
		Channels:          make(map[string][]string),
	}
	for _, id := range sprintIDs {
		source, ok := m.Junctions[id]
		if !ok {
			continue
		}
		junctions.PrimarySegments[id] = source.PrimarySegmentIDs
		junctions.SecondarySegments[id] = source.SecondarySegmentIDs
		junctions.Topics[id] = source.TopicIDs
		junctions.Channels[id] = source.Channels
	}
	return junctions, nil
}

func (m *MockSprintRepository) ExistsForCampaign(ctx context.Context, campaignID string) (bool, error) {
	for _, sprint := range m.Sprints {
		if sprint.CampaignID == campaignID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockSprintRepository) DeleteByCampaign(ctx context.Context, campaignID string) error {
	m.DeletedCampaigns = append(m.DeletedCampaigns, campaignID)
	for id, sprint := range m.Sprints {
		if sprint.CampaignID == campaignID {
			delete(m.Sprints, id)
			delete(m.Junctions, id)
		}
	}
	return nil
}

func (m *MockSprintRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	m.DeletedSprintIDs = append(m.DeletedSprintIDs, ids...)
	for _, id := range ids {
		delete(m.Sprints, id)
	}
	return nil
}

func (m *MockSprintRepository) DeleteJunctionsBySprintIDs(ctx context.Context, ids []string) error {
	m.DeletedJunctionsFor = append(m.DeletedJunctionsFor, ids...)
	for _, id := range ids {
		delete(m.Junctions, id)
	}
	return nil
}

// MockSlotRepository is a mock implementation of SlotRepository
type MockSlotRepository struct {
	Slots            map[string]*models.ContentSlot
	BatchInsertFunc  func(ctx context.Context, slots []*models.ContentSlot) (int, error)
	BatchInsertError error
	BatchInsertCalls int
	DeletedSprintIDs []string
}

func NewMockSlotRepository() *MockSlotRepository {
	return &MockSlotRepository{Slots: make(map[string]*models.ContentSlot)}
}

func (m *MockSlotRepository) BatchInsert(ctx context.Context, slots []*models.ContentSlot) (int, error) {
	m.BatchInsertCalls++
	if m.BatchInsertFunc != nil {
		return m.BatchInsertFunc(ctx, slots)
	}
	if m.BatchInsertError != nil {
		return 0, m.BatchInsertError
	}
	for _, slot := range slots {
		copied := *slot
		m.Slots[slot.ID] = &copied
	}
	return len(slots), nil
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id string) (*models.ContentSlot, error) {
	return m.Slots[id], nil
}

func (m *MockSlotRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*models.ContentSlot, error) {
	var slots []*models.ContentSlot
	for _, slot := range m.Slots {
		if slot.CampaignID == campaignID {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].SlotIndex < slots[j].SlotIndex
	})
	return slots, nil
}

func (m *MockSlotRepository) Update(ctx context.Context, slot *models.ContentSlot) error {
	copied := *slot
	m.Slots[slot.ID] = &copied
	return nil
}

func (m *MockSlotRepository) Delete(ctx context.Context, id string) error {
	delete(m.Slots, id)
	return nil
}

func (m *MockSlotRepository) DeleteBySprintIDs(ctx context.Context, sprintIDs []string) error {
	m.DeletedSprintIDs = append(m.DeletedSprintIDs, sprintIDs...)
	for id, slot := range m.Slots {
		for _, sprintID := range sprintIDs {
			if slot.SprintID == sprintID {
				delete(m.Slots, id)
				break
			}
		}
	}
	return nil
}

// MockDraftRepository is a mock implementation of DraftRepository
type MockDraftRepository struct {
	Drafts      map[string]*models.ContentDraft
	CreateError error
}

func NewMockDraftRepository() *MockDraftRepository {
	return &MockDraftRepository{Drafts: make(map[string]*models.ContentDraft)}
}

func (m *MockDraftRepository) Create(ctx context.Context, draft *models.ContentDraft) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	copied := *draft
	m.Drafts[draft.ID] = &copied
	return nil
}

func (m *MockDraftRepository) GetByID(ctx context.Context, id string) (*models.ContentDraft, error) {
	return m.Drafts[id], nil
}

func (m *MockDraftRepository) ListBySlot(ctx context.Context, slotID string) ([]*models.ContentDraft, error) {
	var drafts []*models.ContentDraft
	for _, draft := range m.Drafts {
		if draft.SlotID == slotID {
			drafts = append(drafts, draft)
		}
	}
	return drafts, nil
}

func (m *MockDraftRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if draft, ok := m.Drafts[id]; ok {
		draft.Status = status
	}
	return nil
}

func (m *MockDraftRepository) Delete(ctx context.Context, id string) error {
	delete(m.Drafts, id)
	return nil
}

// NewMockRepositories bundles fresh mocks into a Repositories aggregate
func NewMockRepositories() (*repository.Repositories, *MockSprintRepository, *MockSlotRepository, *MockDraftRepository) {
	sprints := NewMockSprintRepository()
	slots := NewMockSlotRepository()
	drafts := NewMockDraftRepository()
	return &repository.Repositories{Sprint: sprints, Slot: slots, Draft: drafts}, sprints, slots, drafts
}
