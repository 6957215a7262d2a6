package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tirelire/internal/core"
)

const deadlineLayout = "2006-01-02"

// decodeBody decodes a JSON request body into dst, rejecting unknown
// fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", core.ErrValidation)
	}
	return nil
}

// parseAmount converts a decimal string from a request body into Money,
// rejecting non-positive or malformed values.
func parseAmount(raw string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(raw)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseAmountAllowZero is parseAmount for fields where zero is legal, such
// as the salary and an edited goal balance. The field must still be
// present and numeric; a blank value is rejected, never coerced to zero.
func parseAmountAllowZero(raw string) (core.Money, error) {
	cents, err := core.ParseDecimalToCentsAllowZero(raw)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseOptionalAmount is parseAmountAllowZero for fields that may be
// omitted entirely, defaulting to zero. Only a goal's starting balance
// uses this.
func parseOptionalAmount(raw string) (core.Money, error) {
	if strings.TrimSpace(raw) == "" {
		return core.Money{}, nil
	}
	return parseAmountAllowZero(raw)
}

// parseDeadline parses a YYYY-MM-DD deadline.
func parseDeadline(raw string) (time.Time, error) {
	t, err := time.Parse(deadlineLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDeadline, raw)
	}
	return t, nil
}

// parseLimit reads the limit query parameter, falling back when absent or
// unparsable.
func parseLimit(r *http.Request, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
