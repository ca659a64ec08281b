package models

import "time"

// InsightType classifies an AI insight.
type InsightType string

const (
	InsightAlert          InsightType = "alert"
	InsightGoal           InsightType = "goal"
	InsightWarning        InsightType = "warning"
	InsightRecommendation InsightType = "recommendation"
)

// IsValid reports whether t is a known insight type.
func (t InsightType) IsValid() bool {
	switch t {
	case InsightAlert, InsightGoal, InsightWarning, InsightRecommendation:
		return true
	}
	return false
}

// Priority ranks an insight.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Insight is an AI-generated observation about a user's spending.
type Insight struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	IsRead      bool        `json:"isRead"`
	CreatedAt   time.Time   `json:"createdAt"`
}
