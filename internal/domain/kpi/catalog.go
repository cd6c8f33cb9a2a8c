package kpi

// Catalog is an immutable table of metric definitions. It is built once and
// handed to an Engine; lookups return copies.
type Catalog struct {
	defs  map[Code]Definition
	order []Code
}

func NewCatalog(defs ...Definition) Catalog {
	c := Catalog{defs: make(map[Code]Definition, len(defs))}
	for _, def := range defs {
		if _, dup := c.defs[def.Code]; !dup {
			c.order = append(c.order, def.Code)
		}
		def.RequiredInputs = append([]string(nil), def.RequiredInputs...)
		c.defs[def.Code] = def
	}
	return c
}

func DefaultCatalog() Catalog {
	return NewCatalog(
		Definition{
			Code:           CodeTTC,
			Name:           "Time to Competency",
			Definition:     "Days from a new hire's role start until they reach the agreed performance threshold.",
			RequiredInputs: []string{FieldRoleStartDate, FieldPerformanceThresholdDate},
			Formula:        "ceil(|performance_threshold_date - role_start_date|) in days",
			Format:         FormatDays,
			Calculate:      timeToCompetency,
			Normalize:      normalizeTTC,
			Render:         formatDays,
		},
		Definition{
			Code:           CodePDPT,
			Name:           "Performance Delta Post-Training",
			Definition:     "Relative change in a performance metric measured before and after training.",
			RequiredInputs: []string{FieldPreTrainingMetric, FieldPostTrainingMetric},
			Formula:        "(post_training_metric - pre_training_metric) / pre_training_metric x 100",
			Format:         FormatPercentage,
			Calculate:      performanceDelta,
			Normalize:      normalizePDPT,
			Render:         formatPercentage,
		},
		Definition{
			Code:           CodeRPL,
			Name:           "Revenue per Learner",
			Definition:     "Revenue attributed to training divided by the number of employees trained.",
			RequiredInputs: []string{FieldRevenueAttributed, FieldTrainedEmployeeCount},
			Formula:        "revenue_attributed / trained_employee_count",
			Format:         FormatCurrency,
			Calculate:      revenuePerLearner,
			Normalize:      normalizeRPL,
			Render:         formatCurrency,
		},
		Definition{
			Code:           CodeBCI,
			Name:           "Behavioral Change Index",
			Definition:     "Average observed competency rating on a 1 to 5 scale after training.",
			RequiredInputs: []string{FieldCompetencyRatingScores},
			Formula:        "mean(competency_rating_scores)",
			Format:         FormatScale,
			Calculate:      behavioralChange,
			Normalize:      normalizeBCI,
			Render:         formatScale,
		},
		Definition{
			Code:           CodeIMV,
			Name:           "Internal Mobility Velocity",
			Definition:     "Share of filled roles that went to internal promotions.",
			RequiredInputs: []string{FieldInternalPromotions, FieldTotalRolesFilled},
			Formula:        "internal_promotions / total_roles_filled x 100",
			Format:         FormatPercentage,
			Calculate:      internalMobility,
			Normalize:      normalizeIMV,
			Render:         formatPercentage,
		},
	)
}

func (c Catalog) Lookup(code Code) (Definition, bool) {
	def, ok := c.defs[code]
	if !ok {
		return Definition{}, false
	}
	def.RequiredInputs = append([]string(nil), def.RequiredInputs...)
	return def, true
}

func (c Catalog) Codes() []Code {
	return append([]Code(nil), c.order...)
}

func (c Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, code := range c.order {
		def, _ := c.Lookup(code)
		out = append(out, def)
	}
	return out
}

func (c Catalog) Len() int {
	return len(c.order)
}
