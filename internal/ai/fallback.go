package ai

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"finsight/internal/models"
)

// Category names the keyword rules resolve to. They match the default categories.
const (
	CategoryFood          = "Food & Dining"
	CategoryTransport     = "Transportation"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills & Utilities"
	CategoryHealthcare    = "Healthcare"
	CategoryEducation     = "Education"
	CategoryOther         = "Other"
)

const (
	keywordConfidence = 0.6
	otherConfidence   = 0.1
)

type keywordRule struct {
	category string
	keywords []string
}

// keywordRules are checked in order; the first rule with a matching word wins.
var keywordRules = []keywordRule{
	{CategoryTransport, []string{"uber", "ola", "taxi", "cab", "metro", "fuel", "petrol", "diesel", "bus", "train", "flight", "parking", "toll"}},
	{CategoryFood, []string{"restaurant", "food", "lunch", "dinner", "breakfast", "coffee", "cafe", "swiggy", "zomato", "pizza", "grocery", "groceries"}},
	{CategoryBills, []string{"electricity", "water", "internet", "wifi", "phone", "mobile", "recharge", "bill", "rent", "gas"}},
	{CategoryHealthcare, []string{"doctor", "hospital", "pharmacy", "medicine", "medical", "clinic", "dentist"}},
	{CategoryEducation, []string{"course", "tuition", "school", "college", "book", "books", "udemy", "exam"}},
	{CategoryEntertainment, []string{"movie", "movies", "cinema", "netflix", "spotify", "concert", "game", "games"}},
	{CategoryShopping, []string{"amazon", "flipkart", "myntra", "shopping", "clothes", "shoes", "mall"}},
}

// FallbackCategorization categorizes by keyword, or returns Other with low confidence.
func FallbackCategorization(description string) Categorization {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if words[kw] {
				return Categorization{
					Category:   rule.category,
					Confidence: keywordConfidence,
					Reasoning:  fmt.Sprintf("Description mentions %q", kw),
				}
			}
		}
	}
	return Categorization{
		Category:   CategoryOther,
		Confidence: otherConfidence,
		Reasoning:  "No matching keywords; defaulted to Other",
	}
}

// FallbackInsights are shown when insight generation fails.
func FallbackInsights() []InsightDraft {
	return []InsightDraft{
		{
			Type:        models.InsightRecommendation,
			Title:       "Keep tracking your expenses",
			Description: "Recording every expense is the first step to understanding where your money goes.",
			Priority:    models.PriorityMedium,
		},
		{
			Type:        models.InsightGoal,
			Title:       "Set a monthly budget",
			Description: "A budget for your largest category makes overspending visible early.",
			Priority:    models.PriorityLow,
		},
		{
			Type:        models.InsightRecommendation,
			Title:       "Review your spending weekly",
			Description: "A short weekly review helps you catch unusual expenses before the month ends.",
			Priority:    models.PriorityLow,
		},
	}
}

// FallbackRecommendations applies the 50/30/20 rule to monthly income.
func FallbackRecommendations(monthlyIncome float64) []BudgetRecommendation {
	if monthlyIncome <= 0 {
		monthlyIncome = models.DefaultMonthlyIncome
	}
	share := func(p float64) float64 { return math.Round(monthlyIncome*p*100) / 100 }
	return []BudgetRecommendation{
		{Category: "Needs", SuggestedAmount: share(0.5), Reasoning: "50% of income for essentials such as bills, groceries and transport"},
		{Category: "Wants", SuggestedAmount: share(0.3), Reasoning: "30% of income for dining out, shopping and entertainment"},
		{Category: "Savings", SuggestedAmount: share(0.2), Reasoning: "20% of income set aside for savings and debt repayment"},
	}
}
