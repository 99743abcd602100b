// File: /utils/validators.go
package utils

import (
	"regexp"
	"strings"
	"time"
)

const (
	// Capacity bounds enforced at the API boundary; the lifecycle service
	// itself only requires positivity
	MinMeetupSpots = 1
	MaxMeetupSpots = 10
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsAllowedEmailDomain checks the address against the configured university
// domains; an empty allowlist accepts any valid address
func IsAllowedEmailDomain(email string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}

	lowered := strings.ToLower(email)
	for _, domain := range domains {
		if strings.HasSuffix(lowered, "@"+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}

func IsValidPassword(password string) bool {
	return len(password) >= 6 && len(password) <= 128
}

func IsValidMeetupSpots(spots int) bool {
	return spots >= MinMeetupSpots && spots <= MaxMeetupSpots
}

// IsValidDate accepts YYYY-MM-DD calendar days not in the past
func IsValidDate(date string) bool {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}

	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	return !parsed.Before(today)
}

// IsValidTime accepts zero-padded HH:MM in 24-hour form. Padding is required
// because stored times are compared lexically.
func IsValidTime(clock string) bool {
	if len(clock) != 5 {
		return false
	}
	_, err := time.Parse("15:04", clock)
	return err == nil
}
