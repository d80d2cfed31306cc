package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InstitutionalTag is the binding tag that restricts an email to the configured domain.
const InstitutionalTag = "institutional"

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String())
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case InstitutionalTag:
		return fmt.Sprintf("%s must be an institutional email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":            "Name",
		"Email":           "Email",
		"Password":        "Password",
		"SubjectID":       "Subject",
		"Title":           "Title",
		"SalesPitch":      "Sales pitch",
		"Description":     "Description",
		"Pricing":         "Pricing",
		"ListingID":       "Listing id",
		"RecipientID":     "Recipient id",
		"MessageID":       "Message id",
		"Content":         "Content",
		"SelectedSubject": "Subject",
		"SearchTerm":      "Search term",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}

// RegisterInstitutionalEmail installs the institutional tag on gin's default validator.
func RegisterInstitutionalEmail(domain string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}

	return v.RegisterValidation(InstitutionalTag, func(fl validator.FieldLevel) bool {
		return IsInstitutionalEmail(fl.Field().String(), domain)
	})
}

// IsInstitutionalEmail reports whether email is a well-formed address on domain or one
// of its subdomains.
func IsInstitutionalEmail(email, domain string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return false
	}

	host := strings.ToLower(email[at+1:])
	domain = strings.ToLower(strings.TrimPrefix(domain, "@"))
	return host == domain || strings.HasSuffix(host, "."+domain)
}
