package reports

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"workforce/internal/domain/kpi"
)

const methodology = "Each KPI is calculated from client-supplied measurements and normalized onto a 0-100 scale " +
	"against the benchmarks below. Normalized scores are rounded to the nearest integer and graded on a fixed ladder. " +
	"The overall score is the unweighted mean of the metrics that were calculated successfully; metrics that could not " +
	"be calculated are reported with grade F and excluded from the overall score."

const gradeScale = "A >= 90, B >= 80, C >= 70, D >= 60, F < 60"

type metricAdvice struct {
	priority       Priority
	area           string
	recommendation string
	impact         string
}

var adviceByMetric = map[kpi.Code]metricAdvice{
	kpi.CodeTTC: {
		priority:       PriorityHigh,
		area:           "Time to Competency",
		recommendation: "Introduce a structured onboarding program with assigned mentors and role-specific milestones to shorten ramp-up.",
		impact:         "Reduce time to competency by 20-30%.",
	},
	kpi.CodePDPT: {
		priority:       PriorityHigh,
		area:           "Performance Improvement",
		recommendation: "Tie training content to measurable job performance goals and follow each program with coaching and practice assignments.",
		impact:         "Raise post-training performance gains by 10-15 percentage points.",
	},
	kpi.CodeRPL: {
		priority:       PriorityMedium,
		area:           "Training ROI",
		recommendation: "Direct training budget toward revenue-linked skills and track revenue attribution for trained cohorts.",
		impact:         "Improve revenue per learner by 15-25%.",
	},
	kpi.CodeBCI: {
		priority:       PriorityMedium,
		area:           "Behavioral Change",
		recommendation: "Reinforce new competencies through manager-led follow-up and on-the-job application with peer feedback.",
		impact:         "Lift average competency ratings by 0.5-1.0 points.",
	},
	kpi.CodeIMV: {
		priority:       PriorityLow,
		area:           "Internal Mobility",
		recommendation: "Publish internal career pathways and use training completion as a criterion for internal advancement.",
		impact:         "Fill 10-20% more open roles with internal candidates.",
	},
}

var strategicAdvice = Recommendation{
	Priority:       PriorityCritical,
	Area:           "Overall Workforce Strategy",
	Recommendation: "Commission a full review of the learning and development strategy, aligning programs with business priorities and setting clear success measures for each.",
	ExpectedImpact: "Establish a baseline for measurable improvement across all workforce KPIs.",
}

var implications = map[Band]string{
	BandExcellent:  "Learning investments are translating into measurable business outcomes and should be sustained and scaled.",
	BandStrong:     "Training programs deliver solid returns; targeted work on the lower-scoring areas can lift overall impact further.",
	BandModerate:   "Training outcomes are mixed, and focusing on the weakest metrics will improve the return on learning investment.",
	BandDeveloping: "Significant gaps separate training activity from business results, and a structured improvement plan is needed.",
}

// BandFor maps an overall score to its qualitative band.
func BandFor(score int) Band {
	switch {
	case score >= 85:
		return BandExcellent
	case score >= 70:
		return BandStrong
	case score >= 55:
		return BandModerate
	default:
		return BandDeveloping
	}
}

// ComposeInput is everything the composer needs from the stored records.
type ComposeInput struct {
	Title  string
	Client ClientSnapshot
	Inputs map[kpi.Code]kpi.InputSet
}

// Composer turns engine output into report content. It does no I/O.
type Composer struct {
	engine *kpi.Engine
}

func NewComposer(engine *kpi.Engine) *Composer {
	return &Composer{engine: engine}
}

func (c *Composer) Engine() *kpi.Engine {
	return c.engine
}

// Compose fills every content field of a Report. Identity and timestamps are
// left to the caller.
func (c *Composer) Compose(in ComposeInput) Report {
	results := c.engine.CalculateAll(in.Inputs)
	scores := c.engine.GenerateScores(results)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Workforce Intelligence Report"
		if in.Client.Name != "" {
			title = in.Client.Name + " " + title
		}
	}
	return Report{
		ClientID:         in.Client.ID,
		Title:            title,
		Client:           in.Client,
		ExecutiveSummary: c.Summarize(in.Client.Name, scores),
		Results:          results,
		Scores:           scores,
		Recommendations:  c.Recommend(scores),
		Appendix:         c.Appendix(),
	}
}

func (c *Composer) Summarize(clientName string, scores kpi.ScoreReport) ExecutiveSummary {
	if strings.TrimSpace(clientName) == "" {
		clientName = "The organization"
	}
	band := BandFor(scores.OverallScore)
	summary := ExecutiveSummary{
		Band:         band,
		OverallScore: scores.OverallScore,
		OverallGrade: scores.OverallGrade,
		Status:       scores.Status,
		Implication:  implications[band],
	}
	if scores.Status == kpi.StatusInsufficientData {
		summary.Headline = fmt.Sprintf(
			"%s has insufficient data for scoring: no KPI could be calculated, so the overall score of %d (grade %s) does not reflect measured performance.",
			clientName, scores.OverallScore, scores.OverallGrade)
		return summary
	}
	summary.Headline = fmt.Sprintf(
		"%s demonstrates %s workforce development performance with an overall score of %d (grade %s).",
		clientName, band, scores.OverallScore, scores.OverallGrade)

	for _, code := range c.engine.Catalog().Codes() {
		score, ok := scores.IndividualScores[code]
		if !ok || !score.Calculated() {
			continue
		}
		h := Highlight{Code: score.Code, Name: score.Name, Score: score.Score, Grade: score.Grade}
		if summary.Strongest == nil || h.Score > summary.Strongest.Score {
			strongest := h
			summary.Strongest = &strongest
		}
		if summary.Weakest == nil || h.Score < summary.Weakest.Score {
			weakest := h
			summary.Weakest = &weakest
		}
	}
	return summary
}

// Recommend emits one recommendation per calculated metric scoring below
// RecommendationThreshold, in catalog order, with the strategic recommendation
// first when the overall score is below CriticalThreshold.
func (c *Composer) Recommend(scores kpi.ScoreReport) []Recommendation {
	out := []Recommendation{}
	if scores.OverallScore < CriticalThreshold {
		out = append(out, strategicAdvice)
	}
	for _, code := range c.engine.Catalog().Codes() {
		score, ok := scores.IndividualScores[code]
		if !ok || !score.Calculated() || score.Score >= RecommendationThreshold {
			continue
		}
		advice, ok := adviceByMetric[code]
		if !ok {
			continue
		}
		out = append(out, Recommendation{
			Priority:       advice.priority,
			Metric:         code,
			Area:           advice.area,
			Recommendation: advice.recommendation,
			ExpectedImpact: advice.impact,
		})
	}
	return out
}

func (c *Composer) Appendix() Appendix {
	return Appendix{
		Methodology: methodology,
		Benchmarks:  benchmarks(c.engine.Policy()),
		GradeScale:  gradeScale,
		Definitions: c.engine.Catalog().Definitions(),
	}
}

func benchmarks(p kpi.Policy) []string {
	return []string{
		fmt.Sprintf("Time to Competency: %s days or fewer scores 100, falling to 0 at %s days.",
			humanize.Ftoa(p.TTC.IdealDays), humanize.Ftoa(p.TTC.IdealDays+p.TTC.SpanDays)),
		fmt.Sprintf("Performance Delta: an improvement of %s%% or more scores 100.", humanize.Ftoa(p.PDPT.TargetPercent)),
		fmt.Sprintf("Revenue per Learner: $%s per learner or more scores 100.", humanize.Commaf(p.RPL.TargetRevenue)),
		fmt.Sprintf("Behavioral Change Index: ratings map linearly from %s (0) to %s (100).",
			humanize.Ftoa(p.BCI.ScaleMin), humanize.Ftoa(p.BCI.ScaleMax)),
		"Internal Mobility Velocity: the internal fill rate is used directly as the score.",
	}
}

func describe(h Highlight) string {
	return fmt.Sprintf("%s (score %d, grade %s)", h.Name, h.Score, h.Grade)
}
