package app

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronos-hr/chronos/internal/access"
	"github.com/chronos-hr/chronos/internal/hr/timesheets"
	"github.com/chronos-hr/chronos/internal/rbac"
)

func principal(id, role string) *access.Principal {
	return &access.Principal{ID: id, Role: &access.Role{Name: role}}
}

func TestPolicyEmployeeSelfAccess(t *testing.T) {
	reg := BuildRegistry()
	engine := access.NewEngine(nil)

	d, ok := reg.Lookup("employees", "get")
	require.True(t, ok)

	// Employees read their own record, nobody else's.
	p := principal("e1", rbac.RoleEmployee)
	assert.True(t, engine.Decide(p, d, access.MapParams{"id": "e1"}).Allowed)
	assert.False(t, engine.Decide(p, d, access.MapParams{"id": "e2"}).Allowed)

	// HR reads anyone.
	hr := principal("h1", rbac.RoleHR)
	assert.True(t, engine.Decide(hr, d, access.MapParams{"id": "e2"}).Allowed)
}

func TestPolicyDeactivateIsAdminOnly(t *testing.T) {
	reg := BuildRegistry()
	engine := access.NewEngine(nil)

	d, ok := reg.Lookup("employees", "deactivate")
	require.True(t, ok)

	dec := engine.Decide(principal("h1", rbac.RoleHR), d, access.MapParams{"id": "e2"})
	assert.False(t, dec.Allowed)
	assert.Equal(t, "only administrators may deactivate employees", dec.Message)

	assert.True(t, engine.Decide(principal("a1", rbac.RoleAdmin), d, access.MapParams{"id": "e2"}).Allowed)
}

func TestPolicyTimesheetCreateForSelf(t *testing.T) {
	reg := BuildRegistry()
	engine := access.NewEngine(nil)

	d, ok := reg.Lookup("timesheets", "create")
	require.True(t, ok)

	p := principal("e1", rbac.RoleEmployee)
	assert.True(t, engine.Decide(p, d, access.MapParams{"employee_id": "e1"}).Allowed)
	assert.False(t, engine.Decide(p, d, access.MapParams{"employee_id": "e2"}).Allowed)
}

func TestPolicyApprovalStaysWithManagers(t *testing.T) {
	reg := BuildRegistry()
	engine := access.NewEngine(nil)

	for _, op := range []string{"approve", "reject"} {
		d, ok := reg.Lookup("timesheets", op)
		require.True(t, ok, op)

		assert.True(t, engine.Decide(principal("m1", rbac.RolePM), d, access.MapParams{}).Allowed, op)
		assert.False(t, engine.Decide(principal("e1", rbac.RoleEmployee), d, access.MapParams{}).Allowed, op)
		assert.False(t, engine.Decide(principal("h1", rbac.RoleHR), d, access.MapParams{}).Allowed, op)
	}
}

func TestPolicyAuditTimelineRestricted(t *testing.T) {
	reg := BuildRegistry()
	engine := access.NewEngine(nil)

	d, ok := reg.Lookup("audit", "list")
	require.True(t, ok)

	dec := engine.Decide(principal("h1", rbac.RoleHR), d, access.MapParams{})
	assert.False(t, dec.Allowed)
	assert.Equal(t, "audit timeline is restricted to administrators", dec.Message)

	assert.True(t, engine.Decide(principal("a1", rbac.RoleAdmin), d, access.MapParams{}).Allowed)
}

func TestPolicyRecordIDExtractors(t *testing.T) {
	reg := BuildRegistry()

	id := uuid.New()
	d, ok := reg.Lookup("timesheets", "approve")
	require.True(t, ok)
	require.NotNil(t, d.Audit)
	assert.Equal(t, id.String(), d.Audit.RecordID(&timesheets.Timesheet{ID: id}))
	assert.Empty(t, d.Audit.RecordID(map[string]any{"id": id.String()}))

	d, ok = reg.Lookup("employees", "create")
	require.True(t, ok)
	require.NotNil(t, d.Audit)
	assert.Equal(t, id.String(), d.Audit.RecordID(map[string]any{
		"employee": map[string]any{"id": id.String()},
	}))
}
