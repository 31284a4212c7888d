// File: utils/constants.go
package utils

import "time"

// SessionPrefix is the prefix used for Redis console-session keys.
const SessionPrefix = "session:"

// SessionFallbackTTL applies when the access token carries no usable expiry.
const SessionFallbackTTL = 12 * time.Hour

// WizardPrefix is the prefix used for Redis booking-wizard session keys.
const WizardPrefix = "wizard:"

// WizardTTL is how long an abandoned wizard session survives.
const WizardTTL = 45 * time.Minute

// StatsCacheKey and StatsCacheTTL control the dashboard stats cache.
const (
	StatsCacheKey = "dashboard:stats"
	StatsCacheTTL = 60 * time.Second
)
