package assessments

import "errors"

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrAssessmentLocked   = errors.New("assessment is not in progress")
	ErrInvalidTransition  = errors.New("invalid assessment status transition")
	ErrInvalidAssessment  = errors.New("invalid assessment")
	ErrConcurrentUpdate   = errors.New("assessment was modified concurrently")
)
