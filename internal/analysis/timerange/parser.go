// Package timerange converts the free-form time ranges found in feedback
// annotations ("00:15-00:30", "1:05 – 1:40", "45 to 70") into seconds.
package timerange

import (
	"strconv"
	"strings"
)

// Range holds a parsed time span in seconds. A zero Range doubles as the
// parse-failure sentinel; callers must check that the raw string was
// non-blank before treating {0, 0} as a genuine 0:00 annotation.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// IsZero reports whether the range is the sentinel value.
func (r Range) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Parse interprets raw as one or two time tokens separated by a dash or the
// word "to". A single token yields Start == End. Parse never fails; any
// malformed input collapses to the zero Range.
func Parse(raw string) Range {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Range{}
	}

	tokens := splitTokens(trimmed)
	if len(tokens) == 0 || len(tokens) > 2 {
		return Range{}
	}

	start, ok := parseToken(tokens[0])
	if !ok {
		return Range{}
	}

	end := start
	if len(tokens) == 2 {
		end, ok = parseToken(tokens[1])
		if !ok {
			return Range{}
		}
	}

	if end < start {
		return Range{}
	}
	return Range{Start: start, End: end}
}

// splitTokens normalizes the supported separators to a plain dash and splits.
func splitTokens(s string) []string {
	normalized := strings.NewReplacer("–", "-", "—", "-").Replace(s)
	normalized = strings.ReplaceAll(normalized, " to ", "-")

	parts := strings.Split(normalized, "-")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return nil
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// parseToken accepts "M:SS"/"MM:SS" or a bare number of seconds. Seconds in
// the colon form must stay below 60; a bare number has no such cap.
func parseToken(token string) (float64, bool) {
	if strings.Contains(token, ":") {
		parts := strings.Split(token, ":")
		if len(parts) != 2 {
			return 0, false
		}
		minutes, err := strconv.Atoi(parts[0])
		if err != nil || minutes < 0 {
			return 0, false
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil || seconds < 0 || seconds > 59 {
			return 0, false
		}
		return float64(minutes*60 + seconds), true
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}
