package domain

import "time"

// WhitelistEntry is a URL exempted from monitoring.
type WhitelistEntry struct {
	ID       int64     `json:"id"`
	URL      string    `json:"url"`
	Hostname string    `json:"hostname"`
	AddedAt  time.Time `json:"added_at"`
	Notes    *string   `json:"notes"`
}

// WhitelistMatch describes how a URL matched the whitelist.
type WhitelistMatch string

const (
	// MatchExact means the full URL is whitelisted.
	MatchExact WhitelistMatch = "exact"
	// MatchHostname means the URL's hostname is whitelisted.
	MatchHostname WhitelistMatch = "hostname"
	// MatchNone means the URL is not whitelisted.
	MatchNone WhitelistMatch = ""
)
