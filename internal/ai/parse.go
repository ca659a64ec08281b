package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"finsight/internal/models"
)

// insightCount is the number of insights every generation returns.
const insightCount = 3

var errEmptyResponse = errors.New("ai: empty response")

// extractJSON strips markdown fences and any prose around the first JSON value.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", errEmptyResponse
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return "", fmt.Errorf("ai: unterminated JSON in response")
	}
	return s[start : end+1], nil
}

func parseCategorization(raw string) (Categorization, error) {
	s, err := extractJSON(raw)
	if err != nil {
		return Categorization{}, err
	}
	var c Categorization
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return Categorization{}, fmt.Errorf("decode categorization: %w", err)
	}
	c.Category = strings.TrimSpace(c.Category)
	if c.Category == "" {
		return Categorization{}, errors.New("ai: categorization without category")
	}
	c.Confidence = clamp(c.Confidence, 0, 1)
	return c, nil
}

// parseInsights accepts {"insights": [...]} or a bare array, normalizes enum
// fields and pads or truncates to exactly three entries.
func parseInsights(raw string) ([]InsightDraft, error) {
	s, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var drafts []InsightDraft
	if strings.HasPrefix(s, "[") {
		err = json.Unmarshal([]byte(s), &drafts)
	} else {
		var wrapped struct {
			Insights []InsightDraft `json:"insights"`
		}
		err = json.Unmarshal([]byte(s), &wrapped)
		drafts = wrapped.Insights
	}
	if err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}

	out := make([]InsightDraft, 0, insightCount)
	for _, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		if d.Title == "" {
			continue
		}
		if !d.Type.IsValid() {
			d.Type = models.InsightRecommendation
		}
		if !d.Priority.IsValid() {
			d.Priority = models.PriorityMedium
		}
		out = append(out, d)
		if len(out) == insightCount {
			return out, nil
		}
	}
	if len(out) == 0 {
		return nil, errors.New("ai: no usable insights")
	}
	for _, f := range FallbackInsights() {
		if len(out) == insightCount {
			break
		}
		out = append(out, f)
	}
	return out, nil
}

func parseRecommendations(raw string) ([]BudgetRecommendation, error) {
	s, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	var recs []BudgetRecommendation
	if strings.HasPrefix(s, "[") {
		err = json.Unmarshal([]byte(s), &recs)
	} else {
		var wrapped struct {
			Recommendations []BudgetRecommendation `json:"recommendations"`
		}
		err = json.Unmarshal([]byte(s), &wrapped)
		recs = wrapped.Recommendations
	}
	if err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}

	out := recs[:0]
	for _, r := range recs {
		if strings.TrimSpace(r.Category) == "" || r.SuggestedAmount < 0 {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, errors.New("ai: no usable recommendations")
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
