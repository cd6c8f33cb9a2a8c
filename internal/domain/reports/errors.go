package reports

import "errors"

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrAssessmentArchived = errors.New("assessment is archived")
	ErrNoArtifact         = errors.New("report has no archived artifact")
)
