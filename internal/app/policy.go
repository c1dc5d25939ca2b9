package app

import (
	"github.com/chronos-hr/chronos/internal/access"
	"github.com/chronos-hr/chronos/internal/audit"
	"github.com/chronos-hr/chronos/internal/hr/employees"
	"github.com/chronos-hr/chronos/internal/hr/timesheets"
	"github.com/chronos-hr/chronos/internal/rbac"
)

// BuildRegistry declares every operation descriptor and seals the registry.
// This is the single place policy metadata lives; handlers stay unaware of
// who may call them.
func BuildRegistry() *access.Registry {
	reg := access.NewRegistry()

	// Employees. HR and ADMIN manage records; employees may read and edit
	// their own (employee id equals account id).
	reg.MustSetDefault("employees",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR),
	)
	reg.MustRegister("employees", "list",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR, rbac.RolePM),
	)
	reg.MustRegister("employees", "get",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR),
		access.AccessOptions(access.Options{AllowSelfAccess: true, ParamName: "id"}),
	)
	reg.MustRegister("employees", "create",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR),
		access.AuditAs(access.AuditDescriptor{
			Action:   "CREATE",
			RecordID: audit.RecordIDPath("employee", "id"),
			Details: func(outcome any, _ access.ParamSource) map[string]any {
				m, _ := outcome.(map[string]any)
				employee, _ := m["employee"].(map[string]any)
				return map[string]any{"email": employee["email"]}
			},
		}),
	)
	reg.MustRegister("employees", "update",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR),
		access.AccessOptions(access.Options{AllowSelfAccess: true, ParamName: "id", EnableLogging: true}),
		access.AuditAs(access.AuditDescriptor{
			Action:   "UPDATE",
			RecordID: employeeOutcomeID,
		}),
	)
	reg.MustRegister("employees", "deactivate",
		access.RequireRoles(rbac.RoleAdmin),
		access.AccessOptions(access.Options{Message: "only administrators may deactivate employees"}),
		access.AuditAs(access.AuditDescriptor{
			Action:   "DELETE",
			RecordID: audit.RecordIDPath("id"),
		}),
	)

	// Timesheets. Creation is open to the record's own employee; approval
	// stays with project managers and administrators.
	reg.MustSetDefault("timesheets",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR, rbac.RolePM),
	)
	reg.MustRegister("timesheets", "list",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR, rbac.RolePM),
		access.AccessOptions(access.Options{AllowSelfAccess: true, ParamName: "employee_id"}),
	)
	reg.MustRegister("timesheets", "create",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR),
		access.AccessOptions(access.Options{AllowSelfAccess: true, ParamName: "employee_id"}),
		access.AuditAs(access.AuditDescriptor{
			Action:   "CREATE",
			RecordID: audit.RecordIDPath("timesheet", "id"),
			Details: func(outcome any, _ access.ParamSource) map[string]any {
				m, _ := outcome.(map[string]any)
				sheet, _ := m["timesheet"].(map[string]any)
				return map[string]any{
					"employee_id": sheet["employee_id"],
					"work_date":   sheet["work_date"],
					"hours":       sheet["hours"],
				}
			},
		}),
	)
	reg.MustRegister("timesheets", "update",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR, rbac.RoleEmployee),
		access.AuditAs(access.AuditDescriptor{
			Action:   "UPDATE",
			RecordID: timesheetOutcomeID,
		}),
	)
	reg.MustRegister("timesheets", "submit",
		access.RequireRoles(rbac.RoleAdmin, rbac.RoleHR, rbac.RoleEmployee),
		access.AuditAs(access.AuditDescriptor{
			Action:   "SUBMIT",
			RecordID: timesheetOutcomeID,
		}),
	)
	reg.MustRegister("timesheets", "approve",
		access.RequireRoles(rbac.RoleAdmin, rbac.RolePM),
		access.AccessOptions(access.Options{EnableLogging: true}),
		access.AuditAs(access.AuditDescriptor{
			Action:   "APPROVE",
			RecordID: timesheetOutcomeID,
			Details:  timesheetDecisionDetails,
		}),
	)
	reg.MustRegister("timesheets", "reject",
		access.RequireRoles(rbac.RoleAdmin, rbac.RolePM),
		access.AccessOptions(access.Options{EnableLogging: true}),
		access.AuditAs(access.AuditDescriptor{
			Action:   "REJECT",
			RecordID: timesheetOutcomeID,
			Details:  timesheetDecisionDetails,
		}),
	)

	// Audit timeline is read-only and restricted to administrators.
	reg.MustSetDefault("audit",
		access.RequireRoles(rbac.RoleAdmin),
		access.AccessOptions(access.Options{Message: "audit timeline is restricted to administrators"}),
	)

	reg.Seal()
	return reg
}

func employeeOutcomeID(outcome any) string {
	e, ok := outcome.(*employees.Employee)
	if !ok {
		return audit.DefaultRecordID(outcome)
	}
	return e.ID.String()
}

func timesheetOutcomeID(outcome any) string {
	t, ok := outcome.(*timesheets.Timesheet)
	if !ok {
		return ""
	}
	return t.ID.String()
}

func timesheetDecisionDetails(outcome any, _ access.ParamSource) map[string]any {
	t, ok := outcome.(*timesheets.Timesheet)
	if !ok {
		return nil
	}
	details := map[string]any{
		"employee_id": t.EmployeeID.String(),
		"status":      string(t.Status),
	}
	if t.ApprovedBy != nil {
		details["decided_by"] = t.ApprovedBy.String()
	}
	return details
}
