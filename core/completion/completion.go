package completion

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/growthsystem/erpchat/core/domain"
	apperrors "github.com/growthsystem/erpchat/core/shared/errors"
)

var (
	// LLMs wrap their JSON in markdown fences more often than not.
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	bareJSONPattern   = regexp.MustCompile(`(?s)\{.*\}`)
)

// Completion is the decoded LLM response: either a direct answer or a data
// request carrying queries and a response template. The upstream producer is
// a probabilistic model, so no field is trusted without a check.
type Completion struct {
	NeedsData bool                  `json:"needs_data"`
	Response  string                `json:"response"`
	Queries   []domain.QueryRequest `json:"queries"`
	Template  string                `json:"template"`
}

// DirectAnswer reports whether the completion answers without database data.
func (c *Completion) DirectAnswer() bool {
	return !c.NeedsData
}

// ValidQueries returns the query requests with both key and sql present.
// Entries missing either are silently dropped, matching producer behavior:
// a half-formed query is noise, not an error.
func (c *Completion) ValidQueries() []domain.QueryRequest {
	valid := make([]domain.QueryRequest, 0, len(c.Queries))
	for _, q := range c.Queries {
		if q.Key == "" || q.SQL == "" {
			continue
		}
		valid = append(valid, q)
	}
	return valid
}

// Parse extracts and decodes the completion JSON from raw LLM output. The
// payload may be fenced in markdown, embedded in prose, or bare JSON.
func Parse(raw string) (*Completion, error) {
	jsonText := extractJSON(raw)
	if jsonText == "" {
		return nil, apperrors.New(apperrors.ErrCodeCompletionInvalid,
			"no JSON object found in completion", nil)
	}

	var c Completion
	if err := json.Unmarshal([]byte(jsonText), &c); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeCompletionInvalid,
			"completion is not valid JSON", err)
	}

	if c.NeedsData && c.Template == "" && len(c.ValidQueries()) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeCompletionInvalid,
			"data completion carries neither queries nor template", nil)
	}

	return &c, nil
}

// extractJSON locates the JSON body inside raw LLM output: a fenced block
// first, then the outermost brace-delimited span.
func extractJSON(raw string) string {
	if match := fencedJSONPattern.FindStringSubmatch(raw); match != nil {
		candidate := strings.TrimSpace(match[1])
		if candidate != "" {
			return candidate
		}
	}
	if match := bareJSONPattern.FindString(raw); match != "" {
		return match
	}
	return ""
}
