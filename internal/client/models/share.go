package models

import "fmt"

// ShareRecord is one active sharing grant as reported by the service.
// ExpiresAt and AccessLimit use zero to mean "unlimited". EntryID is zero
// when the listing payload carries no entry reference. AccessCount is
// incremented server-side on every successful consumption and is read-only
// here.
type ShareRecord struct {
	ID          string `json:"id"`
	EntryID     int    `json:"entry_id"`
	CreatedAt   int64  `json:"created_at"`
	ExpiresAt   int64  `json:"expires_at"`
	AccessLimit int    `json:"access_count_limit"`
	AccessCount int    `json:"access_count_current"`
}

// ShortID returns an abbreviated share id suitable for list display.
func (s ShareRecord) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8] + "..."
}

// UsageText renders the access counter, e.g. "Accessed 3/5 times" for a
// limited share or "Accessed 3 times" for an unlimited one.
func (s ShareRecord) UsageText() string {
	if s.AccessLimit > 0 {
		return fmt.Sprintf("Accessed %d/%d times", s.AccessCount, s.AccessLimit)
	}
	return fmt.Sprintf("Accessed %d times", s.AccessCount)
}

// DescribeExpiry renders the human-readable lifetime of a share configured
// for the given number of hours. Whole-day counts that match the preset
// choices collapse to day phrasing.
func DescribeExpiry(hours int) string {
	switch {
	case hours == 1:
		return "Expires in 1 hour"
	case hours < 24:
		return fmt.Sprintf("Expires in %d hours", hours)
	case hours == 24:
		return "Expires in 1 day"
	case hours == 72:
		return "Expires in 3 days"
	case hours == 168:
		return "Expires in 7 days"
	default:
		return fmt.Sprintf("Expires in %d hours", hours)
	}
}

// DescribeAccessLimit renders the human-readable usage allowance of a share.
// Zero means unlimited.
func DescribeAccessLimit(n int) string {
	switch {
	case n == 0:
		return "Can be accessed unlimited times"
	case n == 1:
		return "Can be accessed 1 time only"
	default:
		return fmt.Sprintf("Can be accessed up to %d times", n)
	}
}
