package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type sample struct {
	Color    string `binding:"omitempty,hex_color"`
	Method   string `binding:"omitempty,payment_method"`
	Period   string `binding:"omitempty,budget_period"`
	Date     string `binding:"omitempty,isodate"`
	Currency string `binding:"omitempty,iso4217"`
	Timezone string `binding:"omitempty,timezone"`
	Type     string `binding:"omitempty,insight_type"`
	Priority string `binding:"omitempty,insight_priority"`
}

func TestRegisteredValidators(t *testing.T) {
	Register()
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("expected go-playground validator engine")
	}

	tests := []struct {
		name    string
		input   sample
		wantErr bool
	}{
		{name: "valid", input: sample{
			Color: "#ef4444", Method: "upi", Period: "weekly", Date: "2024-03-15",
			Currency: "INR", Timezone: "Asia/Kolkata", Type: "alert", Priority: "high",
		}},
		{name: "short color", input: sample{Color: "#fff"}, wantErr: true},
		{name: "unknown payment method", input: sample{Method: "cheque"}, wantErr: true},
		{name: "unknown period", input: sample{Period: "daily"}, wantErr: true},
		{name: "bad date", input: sample{Date: "03/15/2024"}, wantErr: true},
		{name: "unknown currency", input: sample{Currency: "XYZ"}, wantErr: true},
		{name: "unknown timezone", input: sample{Timezone: "Mars/Olympus"}, wantErr: true},
		{name: "unknown insight type", input: sample{Type: "tip"}, wantErr: true},
		{name: "unknown priority", input: sample{Priority: "urgent"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Struct(tt.input)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestFieldNameUsesJSONTag(t *testing.T) {
	Register()
	engine := binding.Validator.Engine().(*validator.Validate)

	type payload struct {
		StartDate string `json:"startDate" binding:"required"`
	}
	err := engine.Struct(payload{})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) != 1 {
		t.Fatalf("expected one validation error, got %v", err)
	}
	if verrs[0].Field() != "startDate" {
		t.Errorf("expected field startDate, got %s", verrs[0].Field())
	}
}
