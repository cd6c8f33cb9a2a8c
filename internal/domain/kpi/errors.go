package kpi

import "errors"

var (
	ErrInvalidPolicy = errors.New("invalid kpi policy")
	ErrUnknownMetric = errors.New("unknown kpi code")
)
