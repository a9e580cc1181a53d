package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ValidateCardNumber accepts 12 to 19 digits, optionally grouped by spaces or dashes.
func ValidateCardNumber(card string) error {
	if card == "" {
		return fmt.Errorf("card number cannot be empty")
	}
	digits := 0
	for _, r := range card {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '-':
		default:
			return fmt.Errorf("invalid character %q in card number", r)
		}
	}
	if digits < 12 || digits > 19 {
		return fmt.Errorf("invalid card number length: expected 12-19 digits, got %d", digits)
	}
	return nil
}

// ValidatePhoneNumber accepts an optional leading +, digits and the usual separators.
func ValidatePhoneNumber(phone string) error {
	if phone == "" {
		return fmt.Errorf("phone number cannot be empty")
	}
	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case strings.ContainsRune(" -()", r):
		default:
			return fmt.Errorf("invalid character %q in phone number", r)
		}
	}
	if digits < 5 || digits > 15 {
		return fmt.Errorf("invalid phone number length: expected 5-15 digits, got %d", digits)
	}
	return nil
}

// ParseAmount parses a positive whole amount.
func ParseAmount(amount string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be a whole number: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %d", value)
	}
	return value, nil
}

// NormalizeSpaces trims the value and collapses runs of whitespace into one space.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
