// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"finsight/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// validCurrencies contains the ISO 4217 codes accepted for user profiles.
var validCurrencies = map[string]bool{
	"AED": true, "AUD": true, "BDT": true, "BRL": true, "CAD": true,
	"CHF": true, "CNY": true, "CZK": true, "DKK": true, "EGP": true,
	"EUR": true, "GBP": true, "HKD": true, "HUF": true, "IDR": true,
	"ILS": true, "INR": true, "JPY": true, "KES": true, "KRW": true,
	"LKR": true, "MXN": true, "MYR": true, "NGN": true, "NOK": true,
	"NPR": true, "NZD": true, "PHP": true, "PKR": true, "PLN": true,
	"QAR": true, "RUB": true, "SAR": true, "SEK": true, "SGD": true,
	"THB": true, "TRY": true, "TWD": true, "UAH": true, "USD": true,
	"VND": true, "ZAR": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("insight_type", validateInsightType)
		_ = v.RegisterValidation("insight_priority", validateInsightPriority)
		_ = v.RegisterValidation("isodate", validateISODate)
		_ = v.RegisterValidation("timezone", validateTimezone)
	}
}

// fieldName reports fields by their json or form name so error details match
// what the client sent.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// IsHexColor reports whether s is a #rrggbb color.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[strings.ToUpper(fl.Field().String())]
}

func validateHexColor(fl validator.FieldLevel) bool {
	return IsHexColor(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return models.PaymentMethod(fl.Field().String()).IsValid()
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return models.BudgetPeriod(fl.Field().String()).IsValid()
}

func validateInsightType(fl validator.FieldLevel) bool {
	return models.InsightType(fl.Field().String()).IsValid()
}

func validateInsightPriority(fl validator.FieldLevel) bool {
	return models.Priority(fl.Field().String()).IsValid()
}

func validateISODate(fl validator.FieldLevel) bool {
	return models.ValidDate(fl.Field().String())
}

func validateTimezone(fl validator.FieldLevel) bool {
	_, err := time.LoadLocation(fl.Field().String())
	return err == nil
}
