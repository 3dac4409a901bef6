package model

import "strings"

type Verdict string

const (
	VerdictPoor  Verdict = "Poor"
	VerdictFair  Verdict = "Fair"
	VerdictGood  Verdict = "Good"
	VerdictGreat Verdict = "Great"
)

// Verdicts lists the tiers from lowest to highest.
var Verdicts = []Verdict{VerdictPoor, VerdictFair, VerdictGood, VerdictGreat}

// VerdictForScore maps an overall score onto its tier: <50 Poor, 50-69 Fair,
// 70-84 Good, 85+ Great.
func VerdictForScore(score int) Verdict {
	switch {
	case score >= 85:
		return VerdictGreat
	case score >= 70:
		return VerdictGood
	case score >= 50:
		return VerdictFair
	default:
		return VerdictPoor
	}
}

// ParseVerdict matches s case-insensitively against the known tiers.
func ParseVerdict(s string) (Verdict, bool) {
	s = strings.TrimSpace(s)
	for _, v := range Verdicts {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	return "", false
}

type Scores struct {
	ProblemSolutionFit    int `json:"problem_solution_fit"`
	MarketPotential       int `json:"market_potential"`
	BusinessModelStrategy int `json:"business_model_strategy"`
	TeamStrength          int `json:"team_strength"`
	FinancialsAndTraction int `json:"financials_and_traction"`
	Communication         int `json:"communication"`
}

type Summaries struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Market   string `json:"market"`
	Team     string `json:"team"`
	Traction string `json:"traction"`
}

type GradingResult struct {
	RunID        string    `json:"run_id"`
	Filename     string    `json:"filename"`
	OverallScore int       `json:"overall_score"`
	Scores       Scores    `json:"scores"`
	Summaries    Summaries `json:"summaries"`
	Suggestions  []string  `json:"suggestions"`
	RedFlags     []string  `json:"red_flags"`
	Verdict      Verdict   `json:"verdict"`
	Timestamp    string    `json:"timestamp"`
}

// Clone returns a deep copy so the slices are not shared with the original.
func (r GradingResult) Clone() GradingResult {
	out := r
	out.Suggestions = append(make([]string, 0, len(r.Suggestions)), r.Suggestions...)
	out.RedFlags = append(make([]string, 0, len(r.RedFlags)), r.RedFlags...)
	return out
}

// NewFallbackResult builds the degraded result: zero scores, empty text, one
// red flag carrying the reason and the lowest verdict tier.
func NewFallbackResult(filename, runID, timestamp, reason string) GradingResult {
	return GradingResult{
		RunID:       runID,
		Filename:    filename,
		Suggestions: []string{},
		RedFlags:    []string{reason},
		Verdict:     VerdictPoor,
		Timestamp:   timestamp,
	}
}
