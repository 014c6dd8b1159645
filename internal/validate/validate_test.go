package validate

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Note   string          `json:"note,omitempty" validate:"required"`
	Hidden string          `json:"-" validate:"required"`
}

func firstError(t *testing.T, err error) validator.FieldError {
	t.Helper()
	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs), "expected validation errors, got %v", err)
	require.NotEmpty(t, fieldErrs)
	return fieldErrs[0]
}

func TestNewUsesJSONFieldNames(t *testing.T) {
	err := New().Struct(sample{Amount: decimal.NewFromInt(1), Hidden: "x"})
	fe := firstError(t, err)
	assert.Equal(t, "note", fe.Field())
	assert.Equal(t, "required", fe.Tag())
}

func TestNewComparesDecimals(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantTag string
	}{
		{"zero", decimal.Zero, "required"},
		{"negative", decimal.NewFromInt(-5), "gt"},
		{"fraction below zero", decimal.RequireFromString("-0.01"), "gt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Struct(sample{Amount: tt.amount, Note: "n", Hidden: "x"})
			fe := firstError(t, err)
			assert.Equal(t, "amount", fe.Field())
			assert.Equal(t, tt.wantTag, fe.Tag())
		})
	}

	assert.NoError(t, New().Struct(sample{Amount: decimal.RequireFromString("0.5"), Note: "n", Hidden: "x"}))
}
