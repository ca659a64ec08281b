package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain object", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", raw: "```\n[1,2]\n```", want: `[1,2]`},
		{name: "surrounding prose", raw: `Sure! {"a":1} Hope that helps.`, want: `{"a":1}`},
		{name: "no json", raw: "nothing here", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategorization(t *testing.T) {
	c, err := parseCategorization(`{"category":" Shopping ","confidence":-2}`)
	require.NoError(t, err)
	assert.Equal(t, "Shopping", c.Category)
	assert.Zero(t, c.Confidence)

	_, err = parseCategorization(`{"confidence":0.5}`)
	assert.Error(t, err)

	_, err = parseCategorization(`{"category": 5}`)
	assert.Error(t, err)
}

func TestParseInsights_Empty(t *testing.T) {
	_, err := parseInsights(`{"insights": []}`)
	assert.Error(t, err)
}

func TestFallbackCategorization(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"Uber ride", CategoryTransport},
		{"OLA to airport", CategoryTransport},
		{"Fuel refill", CategoryTransport},
		{"Dinner at restaurant", CategoryFood},
		{"Electricity bill March", CategoryBills},
		{"Pharmacy", CategoryHealthcare},
		{"Netflix subscription", CategoryEntertainment},
		{"Amazon order", CategoryShopping},
		{"Udemy course", CategoryEducation},
		{"business lunch", CategoryFood},
		{"Miscellaneous", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := FallbackCategorization(tt.description)
			assert.Equal(t, tt.want, got.Category)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestFallbackRecommendations_DefaultIncome(t *testing.T) {
	got := FallbackRecommendations(0)
	require.Len(t, got, 3)

	var total float64
	for _, r := range got {
		total += r.SuggestedAmount
	}
	assert.InDelta(t, 50000, total, 1e-6)
}
