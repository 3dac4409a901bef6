package service

import (
	"encoding/json"
	"fmt"
)

const (
	// UnreadableSentinel replaces deck text too short to be graded.
	UnreadableSentinel  = "[[UNREADABLE_DECK]]"
	MinViableTextLength = 500

	SchemaName = "PitchGradeLiteV1"

	DecodingTemperature float32 = 0
	DecodingTopP        float32 = 1
	DecodingSeed                = 42
)

const SystemPrompt = `You are PitchGradeLiteV1, a pitch deck evaluator.
Respond with a single JSON object that matches the provided schema and nothing else.
Copy run_id, filename and timestamp exactly as given in the Run ID, Filename and Timestamp lines.

Scores:
- every score is an integer between 0 and 100 inclusive, written as a JSON number (85, not "85" or "eighty-five")
- overall_score is the average of the six category scores
- score conservatively, based only on what the deck says

Verdict must be one of "Poor", "Fair", "Good", "Great":
- Poor: overall_score below 50
- Fair: overall_score 50 to 69
- Good: overall_score 70 to 84
- Great: overall_score 85 or more
Do not use investment language such as "Invest" or "Pass".

If the deck text is exactly [[UNREADABLE_DECK]] the document could not be read: answer with verdict "Fair"
and a red flag explaining that the deck was unreadable.`

// BuildUserPrompt embeds the run identifiers and the deck text in the user turn.
func BuildUserPrompt(runID, filename, timestamp, text string) string {
	return fmt.Sprintf("Run ID: %s\nFilename: %s\nTimestamp: %s\nDeck Text:\n%s", runID, filename, timestamp, text)
}

// GradingSchema is the JSON schema sent to the model as the response format
// and used locally to report violations in what comes back.
var GradingSchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["run_id", "filename", "overall_score", "scores", "summaries", "suggestions", "red_flags", "verdict", "timestamp"],
  "properties": {
    "run_id": {"type": "string"},
    "filename": {"type": "string"},
    "overall_score": {"type": "integer"},
    "scores": {
      "type": "object",
      "additionalProperties": false,
      "required": ["problem_solution_fit", "market_potential", "business_model_strategy", "team_strength", "financials_and_traction", "communication"],
      "properties": {
        "problem_solution_fit": {"type": "integer"},
        "market_potential": {"type": "integer"},
        "business_model_strategy": {"type": "integer"},
        "team_strength": {"type": "integer"},
        "financials_and_traction": {"type": "integer"},
        "communication": {"type": "integer"}
      }
    },
    "summaries": {
      "type": "object",
      "additionalProperties": false,
      "required": ["problem", "solution", "market", "team", "traction"],
      "properties": {
        "problem": {"type": "string"},
        "solution": {"type": "string"},
        "market": {"type": "string"},
        "team": {"type": "string"},
        "traction": {"type": "string"}
      }
    },
    "suggestions": {"type": "array", "items": {"type": "string"}},
    "red_flags": {"type": "array", "items": {"type": "string"}},
    "verdict": {"type": "string", "enum": ["Poor", "Fair", "Good", "Great"]},
    "timestamp": {"type": "string"}
  }
}`)
