package reports

type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

type Band string

const (
	BandExcellent  Band = "excellent"
	BandStrong     Band = "strong"
	BandModerate   Band = "moderate"
	BandDeveloping Band = "developing"
)

const (
	// Metrics scoring below this get their recommendation.
	RecommendationThreshold = 70
	// An overall score below this prepends the strategic recommendation.
	CriticalThreshold = 60
)

const (
	AuditActionGenerate   = "report.generate"
	AuditEntityReport     = "report"
	NotificationTypeReady = "report_ready"
)
