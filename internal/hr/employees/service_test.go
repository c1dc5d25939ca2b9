package employees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-hr/chronos/internal/shared"
)

type mockRepo struct {
	byID    map[uuid.UUID]*Employee
	byEmail map[string]*Employee

	gotUpdates map[string]any
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:    make(map[uuid.UUID]*Employee),
		byEmail: make(map[string]*Employee),
	}
}

func (m *mockRepo) put(e Employee) {
	m.byID[e.ID] = &e
	m.byEmail[e.Email] = &e
}

func (m *mockRepo) Create(_ context.Context, e Employee) error {
	if _, exists := m.byID[e.ID]; exists {
		return shared.ErrAlreadyExists
	}
	m.put(e)
	return nil
}

func (m *mockRepo) Get(_ context.Context, id uuid.UUID) (*Employee, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Employee, error) {
	e, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (m *mockRepo) List(_ context.Context, _ ListEmployeesRequest) ([]Employee, int, error) {
	var out []Employee
	for _, e := range m.byID {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	e, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	m.gotUpdates = updates
	if v, ok := updates["department"].(string); ok {
		e.Department = v
	}
	if v, ok := updates["position"].(string); ok {
		e.Position = v
	}
	return nil
}

func (m *mockRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	e, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	e.IsActive = false
	return nil
}

func validCreateRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		ID:         uuid.New().String(),
		FirstName:  "Lena",
		LastName:   "Petrova",
		Email:      "lena@chronos.test",
		Department: "Engineering",
		Position:   "Backend Engineer",
		HireDate:   "2026-01-15",
	}
}

func TestCreateEmployee(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	req := validCreateRequest()
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.ID, created.ID.String())
	assert.Equal(t, "lena@chronos.test", created.Email)
	assert.True(t, created.IsActive)
	assert.Equal(t, 2026, created.HireDate.Year())
}

func TestCreateEmployeeRejectsDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	first := validCreateRequest()
	_, err := svc.Create(context.Background(), first)
	require.NoError(t, err)

	second := validCreateRequest()
	second.Email = first.Email
	_, err = svc.Create(context.Background(), second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestCreateEmployeeRejectsBadInput(t *testing.T) {
	svc := NewService(newMockRepo())

	req := validCreateRequest()
	req.ID = "not-a-uuid"
	_, err := svc.Create(context.Background(), req)
	assert.Error(t, err)

	req = validCreateRequest()
	req.HireDate = "15/01/2026"
	_, err = svc.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestUpdateEmployeeAppliesOnlyProvidedFields(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	dept := "People Ops"
	updated, err := svc.Update(context.Background(), created.ID, UpdateEmployeeRequest{Department: &dept})
	require.NoError(t, err)

	assert.Equal(t, "People Ops", updated.Department)
	assert.Equal(t, map[string]any{"department": "People Ops"}, repo.gotUpdates)
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	dept := "People Ops"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateEmployeeRequest{Department: &dept})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeactivateEmployee(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
