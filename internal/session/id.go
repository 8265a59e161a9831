// Package session supplies the per-visitor session identifier used as the
// correlation key for every analytics write.
package session

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Prefix identifies funnel session ids on the wire.
const Prefix = "session_"

// suffixLength is the number of base36 characters appended after the
// timestamp. Collision resistance at expected traffic volume is the
// requirement, not unguessability.
const suffixLength = 7

const base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID generates a session identifier of the form
// session_<unix-millis>_<random-base36-suffix>. It never fails and
// performs no I/O.
func NewID() string {
	var sb strings.Builder
	sb.WriteString(Prefix)
	sb.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	sb.WriteByte('_')
	for i := 0; i < suffixLength; i++ {
		sb.WriteByte(base36Digits[rand.Intn(len(base36Digits))])
	}
	return sb.String()
}

// Valid reports whether id looks like an identifier minted by NewID.
// Analytics endpoints reject anything else rather than creating rows
// keyed by arbitrary client-supplied strings.
func Valid(id string) bool {
	if !strings.HasPrefix(id, Prefix) {
		return false
	}
	rest := strings.TrimPrefix(id, Prefix)
	millis, suffix, ok := strings.Cut(rest, "_")
	if !ok || millis == "" || suffix == "" {
		return false
	}
	if _, err := strconv.ParseInt(millis, 10, 64); err != nil {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if !strings.ContainsRune(base36Digits, rune(suffix[i])) {
			return false
		}
	}
	return true
}
