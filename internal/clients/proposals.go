package clients

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cdeia/observaciones/internal/models"
)

// The scoring service has returned the proposal list in three different shapes
// across deployments. The rules are tried in order and the first one whose
// shape matches decides the outcome, even if it yields too few proposals.
//
// Any other shape is reported as malformed. New shapes are not guessed.
type proposalRule struct {
	name    string
	extract func(decoded any) ([]any, bool)
}

var proposalRules = []proposalRule{
	{
		// {"propuestas": [...]}
		name: "propuestas",
		extract: func(decoded any) ([]any, bool) {
			obj, ok := decoded.(map[string]any)
			if !ok {
				return nil, false
			}
			items, ok := obj["propuestas"].([]any)
			return items, ok
		},
	},
	{
		// {"propuestas": {"propuestas": [...]}}
		name: "propuestas.propuestas",
		extract: func(decoded any) ([]any, bool) {
			obj, ok := decoded.(map[string]any)
			if !ok {
				return nil, false
			}
			inner, ok := obj["propuestas"].(map[string]any)
			if !ok {
				return nil, false
			}
			items, ok := inner["propuestas"].([]any)
			return items, ok
		},
	},
	{
		// [...]
		name: "bare_sequence",
		extract: func(decoded any) ([]any, bool) {
			items, ok := decoded.([]any)
			return items, ok
		},
	},
}

// NormalizeProposals extracts the proposal list from a decoded response body.
// Every element is returned as text; callers render only the first
// models.MinProposals.
func NormalizeProposals(decoded any) ([]string, error) {
	for _, rule := range proposalRules {
		items, ok := rule.extract(decoded)
		if !ok {
			continue
		}
		if len(items) < models.MinProposals {
			return nil, &MalformedResponseError{
				Reason:  fmt.Sprintf("shape %q holds %d proposals, need at least %d", rule.name, len(items), models.MinProposals),
				RawBody: decoded,
			}
		}

		proposals := make([]string, len(items))
		for i, item := range items {
			proposals[i] = proposalText(item)
		}
		return proposals, nil
	}

	return nil, &MalformedResponseError{
		Reason:  "no accepted proposal shape matched",
		RawBody: decoded,
	}
}

// proposalText coerces a decoded JSON value to display text. The service does
// not guarantee string elements.
func proposalText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
