package auth

const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

const (
	PermKPIRead           = "kpi.read"
	PermKPICalculate      = "kpi.calculate"
	PermClientsRead       = "clients.read"
	PermClientsWrite      = "clients.write"
	PermAssessmentsRead   = "assessments.read"
	PermAssessmentsWrite  = "assessments.write"
	PermAssessmentsManage = "assessments.manage"
	PermReportsRead       = "reports.read"
	PermReportsGenerate   = "reports.generate"
	PermJobsRead          = "jobs.read"
	PermNotificationsRead = "notifications.read"
	PermAuditRead         = "audit.read"
)

var DefaultPermissions = []string{
	PermKPIRead,
	PermKPICalculate,
	PermClientsRead,
	PermClientsWrite,
	PermAssessmentsRead,
	PermAssessmentsWrite,
	PermAssessmentsManage,
	PermReportsRead,
	PermReportsGenerate,
	PermJobsRead,
	PermNotificationsRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleViewer: {
		PermKPIRead,
		PermClientsRead,
		PermAssessmentsRead,
		PermReportsRead,
		PermNotificationsRead,
	},
	RoleAnalyst: {
		PermKPIRead,
		PermKPICalculate,
		PermClientsRead,
		PermClientsWrite,
		PermAssessmentsRead,
		PermAssessmentsWrite,
		PermReportsRead,
		PermReportsGenerate,
		PermJobsRead,
		PermNotificationsRead,
	},
	RoleAdmin: DefaultPermissions,
}
