package core

import (
	"strings"
	"time"
	"unicode"
)

// maskPlaceholder replaces values too short to partially reveal.
const maskPlaceholder = "****"

// PublicStatus is the coarse lifecycle status shown to unauthenticated callers.
type PublicStatus string

const (
	PublicStatusActive   PublicStatus = "ACTIVE"
	PublicStatusExpiring PublicStatus = "EXPIRING"
	PublicStatusExpired  PublicStatus = "EXPIRED"
	PublicStatusUnknown  PublicStatus = "UNKNOWN"
)

// publicExpiringWindow is the number of days before expiry a policy is reported as EXPIRING.
const publicExpiringWindow = 30

// NormalizeRegistrationNumber upper-cases a registration number and strips
// whitespace and dashes, e.g. "kl 01-ab 1234" -> "KL01AB1234".
func NormalizeRegistrationNumber(reg string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return unicode.ToUpper(r)
	}, reg)
}

// MaskVehicleNumber keeps the first and last two characters and stars the rest.
func MaskVehicleNumber(reg string) string {
	r := []rune(strings.ToUpper(strings.TrimSpace(reg)))
	if len(r) < 4 {
		return maskPlaceholder
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-4) + string(r[len(r)-2:])
}

// MaskMobileNumber keeps only the last four digits.
func MaskMobileNumber(mobile string) string {
	m := strings.TrimSpace(mobile)
	if len(m) < 4 {
		return maskPlaceholder
	}
	return strings.Repeat("*", len(m)-4) + m[len(m)-4:]
}

// MaskExpiryDate reduces a date to month and year ("Jun 2024").
func MaskExpiryDate(expiry *time.Time) string {
	if expiry == nil || expiry.IsZero() {
		return maskPlaceholder
	}
	return expiry.Format("Jan 2006")
}

// CalculateDaysToExpiry returns whole calendar days from today to the expiry
// date in now's location. Negative values count days since expiry. Nil when
// expiry is absent.
func CalculateDaysToExpiry(expiry *time.Time, now time.Time) *int {
	if expiry == nil || expiry.IsZero() {
		return nil
	}
	days := daysBetween(now, *expiry)
	return &days
}

// CalculateInsuranceStatus classifies a policy for public display.
func CalculateInsuranceStatus(expiry *time.Time, now time.Time) PublicStatus {
	days := CalculateDaysToExpiry(expiry, now)
	switch {
	case days == nil:
		return PublicStatusUnknown
	case *days <= 0:
		return PublicStatusExpired
	case *days <= publicExpiringWindow:
		return PublicStatusExpiring
	default:
		return PublicStatusActive
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days between the dates of from and to, both
// read in from's location. Counting dates rather than hours keeps DST
// transitions from skewing the result.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
