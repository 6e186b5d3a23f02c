package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	controlRegex  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateCurrencyCode validates an ISO 4217 alphabetic currency code
func ValidateCurrencyCode(code string) error {
	if !currencyRegex.MatchString(code) {
		return fmt.Errorf("invalid currency code: %s", code)
	}
	return nil
}

// ValidateAmount validates a payment amount
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %.2f", amount)
	}
	return nil
}

// SanitizeString removes control characters from free-text input
func SanitizeString(s string) string {
	return controlRegex.ReplaceAllString(s, "")
}
