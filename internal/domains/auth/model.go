package auth

import "time"

// Session is one issued bearer token bound to a principal.
//
// State machine: active -> revoked (explicit logout) or active -> expired
// (time passes expires_at). Both terminal states fail Verify.
type Session struct {
	Token      string     `json:"-"`
	UserID     string     `json:"user_id"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	IsActive   bool       `json:"is_active"`
}

// Live reports whether the session authenticates at the given instant.
func (s *Session) Live(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
