package notifications

const (
	TypeReportReady       = "report_ready"
	TypeAssessmentUpdated = "assessment_updated"
)
