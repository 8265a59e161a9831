package domain

import "time"

// EmailCapture is one submitted prelander email, recorded together with
// the destination the visitor was sent to.
type EmailCapture struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	WebResultID  string      `json:"web_result_id"`
	SessionID    string      `json:"session_id"`
	Env          EnvSnapshot `json:"env"`
	RedirectedTo string      `json:"redirected_to"`
	CapturedAt   time.Time   `json:"captured_at"`
}
