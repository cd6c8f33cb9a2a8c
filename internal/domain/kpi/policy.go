package kpi

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy holds the normalization curve constants.
type Policy struct {
	TTC struct {
		IdealDays float64 `yaml:"ideal_days" json:"idealDays"`
		SpanDays  float64 `yaml:"span_days" json:"spanDays"`
	} `yaml:"ttc" json:"ttc"`
	PDPT struct {
		TargetPercent float64 `yaml:"target_percent" json:"targetPercent"`
	} `yaml:"pdpt" json:"pdpt"`
	RPL struct {
		TargetRevenue float64 `yaml:"target_revenue" json:"targetRevenue"`
	} `yaml:"rpl" json:"rpl"`
	BCI struct {
		ScaleMin float64 `yaml:"scale_min" json:"scaleMin"`
		ScaleMax float64 `yaml:"scale_max" json:"scaleMax"`
	} `yaml:"bci" json:"bci"`
}

func DefaultPolicy() Policy {
	var p Policy
	p.TTC.IdealDays = 30
	p.TTC.SpanDays = 60
	p.PDPT.TargetPercent = 20
	p.RPL.TargetRevenue = 50000
	p.BCI.ScaleMin = 1
	p.BCI.ScaleMax = 5
	return p
}

// LoadPolicy reads a YAML policy file over the defaults. An empty path or a
// missing file yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.TTC.SpanDays <= 0 {
		return fmt.Errorf("%w: ttc.span_days must be positive", ErrInvalidPolicy)
	}
	if p.PDPT.TargetPercent <= 0 {
		return fmt.Errorf("%w: pdpt.target_percent must be positive", ErrInvalidPolicy)
	}
	if p.RPL.TargetRevenue <= 0 {
		return fmt.Errorf("%w: rpl.target_revenue must be positive", ErrInvalidPolicy)
	}
	if p.BCI.ScaleMax <= p.BCI.ScaleMin {
		return fmt.Errorf("%w: bci.scale_max must exceed bci.scale_min", ErrInvalidPolicy)
	}
	return nil
}
