package api

import (
	"errors"
	"regexp"
	"strings"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/transport"
	"upi-balance-go/internal/validate"

	"github.com/go-playground/validator/v10"
)

// Matches the data-URI header browsers and NewProofImage prepend
var dataURIPrefix = regexp.MustCompile(`(?i)^data:image/(png|jpeg|jpg);base64,`)

var fieldMessages = map[string]string{
	"amount":       "Valid amount is required",
	"upiId":        "UPI ID is required",
	"adminUpiId":   "Admin UPI ID is required",
	"upiRefNumber": "UPI reference number is required",
	"proofImages":  "At least one proof image is required",
}

type depositValidator struct {
	validate *validator.Validate
}

func newDepositValidator() *depositValidator {
	return &depositValidator{validate: validate.New()}
}

// Check returns the first failing field in declaration order, or nil
func (d *depositValidator) Check(req models.DepositRequest) error {
	err := d.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &transport.ValidationError{Field: "request", Message: err.Error()}
	}

	first := fieldErrs[0]
	field := fieldPath(first.Namespace())
	return &transport.ValidationError{Field: field, Message: messageFor(field, first)}
}

// fieldPath drops the leading struct name: DepositRequest.proofImages[0].fileName
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func messageFor(field string, fe validator.FieldError) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	if strings.HasPrefix(field, "proofImages[") {
		switch fe.Field() {
		case "fileName":
			return "Each proof image needs a file name"
		case "base64Data":
			return "Each proof image needs image data"
		}
	}
	return field + " is invalid"
}

// stripDataURI removes a leading data:image/...;base64, header
func stripDataURI(data string) string {
	return dataURIPrefix.ReplaceAllString(data, "")
}
