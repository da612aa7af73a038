// utils/validate.go
package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field rules for operational data. Applied before anything is persisted;
// one bad field rejects the whole update.

func ValidateKMReading(v string) error {
	v = strings.TrimSpace(v)
	if len(v) < 3 || len(v) > 6 {
		return errors.New("KM reading must be 3-6 digits")
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return errors.New("KM reading must be 3-6 digits")
		}
	}
	km, err := strconv.Atoi(v)
	if err != nil || km < 0 || km > 999999 {
		return errors.New("KM reading must be between 0 and 999999")
	}
	return nil
}

func ValidateDriverName(v string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n < 2 || n > 50 {
		return errors.New("driver name must be 2-50 characters")
	}
	return nil
}

// NormalizeLoaderNames cleans a comma-separated loader list: blank entries
// are dropped, the rest are trimmed and re-joined with ", ". A non-blank
// entry shorter than 2 characters or more than 10 entries is an error.
func NormalizeLoaderNames(v string) (string, error) {
	names := []string{}
	for _, raw := range strings.Split(v, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) < 2 {
			return "", fmt.Errorf("loader name %q must be at least 2 characters", name)
		}
		names = append(names, name)
	}
	if len(names) > 10 {
		return "", errors.New("maximum 10 loader names allowed")
	}
	return strings.Join(names, ", "), nil
}

// CleanVehicleNumber strips separators and uppercases, so "mh-12 ab 1234"
// and "MH12AB1234" land on the same history.
func CleanVehicleNumber(v string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(strings.TrimSpace(v)) {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func ValidateVehicleNumber(v string) error {
	cleaned := CleanVehicleNumber(v)
	if len(cleaned) < 8 || len(cleaned) > 10 {
		return errors.New("vehicle number must be 8-10 alphanumeric characters")
	}
	for _, c := range cleaned[:2] {
		if c < 'A' || c > 'Z' {
			return errors.New("vehicle number must start with a state code")
		}
	}
	return nil
}
