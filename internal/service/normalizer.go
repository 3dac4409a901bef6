package service

import (
	"errors"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fadilmartias/pitch-grader/internal/model"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"github.com/tidwall/gjson"
)

const JSONParseErrorPrefix = "JSON parse error: "

// parseError carries only the reason text; it still matches
// util.ErrNormalizationFailure under errors.Is.
type parseError string

func (e parseError) Error() string { return string(e) }

func (e parseError) Is(target error) bool { return target == util.ErrNormalizationFailure }

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Normalize turns raw model output into a GradingResult. It never fails:
// output that is not a JSON object yields the fallback result tagged as a
// JSON parse error.
func Normalize(raw, filename, runID, timestamp string) model.GradingResult {
	result, err := parseResult(raw, filename, runID, timestamp)
	if err != nil {
		log.Printf("[normalizer] run %s: %v", runID, err)
		return model.NewFallbackResult(filename, runID, timestamp, JSONParseErrorPrefix+err.Error())
	}
	return result
}

func parseResult(raw, filename, runID, timestamp string) (model.GradingResult, error) {
	raw = stripCodeFence(raw)
	if !gjson.Valid(raw) {
		return model.GradingResult{}, parseError("invalid JSON")
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return model.GradingResult{}, parseError("expected a JSON object")
	}

	if err := ValidateAgainstSchema([]byte(raw)); err != nil {
		log.Printf("[normalizer] run %s: coercing output with schema violations: %v", runID, err)
	}

	scores := doc.Get("scores")
	result := model.GradingResult{
		RunID:     scalarOr(doc.Get("run_id"), runID),
		Filename:  scalarOr(doc.Get("filename"), filename),
		Timestamp: scalarOr(doc.Get("timestamp"), timestamp),
		Scores: model.Scores{
			ProblemSolutionFit:    coerceResult(scores.Get("problem_solution_fit")),
			MarketPotential:       coerceResult(scores.Get("market_potential")),
			BusinessModelStrategy: coerceResult(scores.Get("business_model_strategy")),
			TeamStrength:          coerceResult(scores.Get("team_strength")),
			FinancialsAndTraction: coerceResult(scores.Get("financials_and_traction")),
			Communication:         coerceResult(scores.Get("communication")),
		},
		Summaries: model.Summaries{
			Problem:  stringOf(doc.Get("summaries.problem")),
			Solution: stringOf(doc.Get("summaries.solution")),
			Market:   stringOf(doc.Get("summaries.market")),
			Team:     stringOf(doc.Get("summaries.team")),
			Traction: stringOf(doc.Get("summaries.traction")),
		},
		Suggestions: stringList(doc.Get("suggestions")),
		RedFlags:    stringList(doc.Get("red_flags")),
	}

	if overall := doc.Get("overall_score"); overall.Exists() {
		result.OverallScore = coerceResult(overall)
	} else {
		result.OverallScore = meanScore(result.Scores)
	}

	if v, ok := model.ParseVerdict(stringOf(doc.Get("verdict"))); ok {
		result.Verdict = v
	} else {
		result.Verdict = model.VerdictForScore(result.OverallScore)
	}

	return result, nil
}

// Coerce converts an untrusted score into an integer in [0,100]. Numbers are
// clamped and rounded, numeric strings are parsed first, anything else is 0.
func Coerce(v any) int {
	switch t := v.(type) {
	case float64:
		return clampScore(t)
	case float32:
		return clampScore(float64(t))
	case int:
		return clampScore(float64(t))
	case int64:
		return clampScore(float64(t))
	case string:
		f, err := parseNumeric(t)
		if err != nil {
			return 0
		}
		return clampScore(f)
	default:
		return 0
	}
}

func coerceResult(r gjson.Result) int {
	switch r.Type {
	case gjson.Number:
		return Coerce(r.Num)
	case gjson.String:
		return Coerce(r.Str)
	default:
		return 0
	}
}

// parseNumeric accepts a string that starts with a number, so "85" and
// "85/100" both read as 85.
func parseNumeric(s string) (float64, error) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, errors.New("not a number")
	}
	return strconv.ParseFloat(m, 64)
}

func clampScore(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func meanScore(s model.Scores) int {
	sum := s.ProblemSolutionFit + s.MarketPotential + s.BusinessModelStrategy +
		s.TeamStrength + s.FinancialsAndTraction + s.Communication
	return clampScore(float64(sum) / 6)
}

// scalarOr keeps a present, non-empty scalar and falls back to def otherwise.
func scalarOr(r gjson.Result, def string) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		if s := strings.TrimSpace(r.String()); s != "" {
			return s
		}
	}
	return def
}

func stringOf(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return ""
}

func stringList(r gjson.Result) []string {
	out := []string{}
	if r.Type == gjson.String {
		if s := strings.TrimSpace(r.Str); s != "" {
			out = append(out, s)
		}
		return out
	}
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, item gjson.Result) bool {
		switch item.Type {
		case gjson.String, gjson.Number:
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
		return true
	})
	return out
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
