package ai

import (
	"fmt"
	"sort"
	"strings"

	"finsight/internal/models"
)

func categorizePrompt(description string, amount float64, categories []string) string {
	var b strings.Builder
	b.WriteString("You categorize personal expenses.\n")
	fmt.Fprintf(&b, "Expense: %q, amount %.2f.\n", description, amount)
	fmt.Fprintf(&b, "Choose exactly one category from: %s.\n", strings.Join(categories, ", "))
	b.WriteString(`Respond with JSON only: {"category": string, "confidence": number between 0 and 1, "reasoning": string}`)
	return b.String()
}

func insightsPrompt(in InsightInput) string {
	var b strings.Builder
	b.WriteString("You are a personal finance advisor. Compare this month's spending with last month's and the active budgets.\n\n")

	b.WriteString("This month by category:\n")
	writeCategoryTotals(&b, in.Current)
	b.WriteString("\nLast month by category:\n")
	writeCategoryTotals(&b, in.Previous)

	b.WriteString("\nActive monthly budgets:\n")
	if len(in.Budgets) == 0 {
		b.WriteString("- none\n")
	}
	for _, budget := range in.Budgets {
		fmt.Fprintf(&b, "- %s: %.2f (%s to %s)\n", budget.CategoryName, budget.Amount, budget.StartDate, budget.EndDate)
	}

	b.WriteString("\nReturn exactly 3 insights as JSON: ")
	b.WriteString(`{"insights": [{"type": "alert|goal|warning|recommendation", "title": string, "description": string, "priority": "low|medium|high"}]}`)
	return b.String()
}

func recommendPrompt(expenses []models.ExpenseWithCategory, profile models.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monthly income: %.2f %s.\n", profile.MonthlyIncome, profile.Currency)
	b.WriteString("Spending over the last 30 days by category:\n")
	writeCategoryTotals(&b, expenses)
	b.WriteString("\nSuggest a monthly budget per category that leaves room for savings. Respond with JSON: ")
	b.WriteString(`{"recommendations": [{"category": string, "suggestedAmount": number, "reasoning": string}]}`)
	return b.String()
}

// writeCategoryTotals writes one line per category, largest first.
func writeCategoryTotals(b *strings.Builder, expenses []models.ExpenseWithCategory) {
	if len(expenses) == 0 {
		b.WriteString("- no expenses\n")
		return
	}
	totals := make(map[string]float64)
	for _, e := range expenses {
		totals[e.CategoryName] += e.Amount
	}
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Fprintf(b, "- %s: %.2f\n", name, totals[name])
	}
}
