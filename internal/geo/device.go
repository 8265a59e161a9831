// Package geo classifies the visitor's device and resolves network-derived
// location with a fail-to-sentinel policy: lookups never block callers
// beyond the client timeout and never surface errors.
package geo

import (
	"strings"

	"github.com/minglemoody/funnel-tracker/internal/domain"
)

var mobileMarkers = []string{"mobile", "iphone", "android"}

var tabletMarkers = []string{"ipad", "tablet"}

// Device classifies a User-Agent string into exactly one of Mobile,
// Tablet, or Desktop. Mobile markers win over tablet markers, so an
// Android phone UA that also mentions "Mobile" classifies as Mobile.
func Device(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return domain.DeviceMobile
		}
	}
	for _, marker := range tabletMarkers {
		if strings.Contains(ua, marker) {
			return domain.DeviceTablet
		}
	}
	return domain.DeviceDesktop
}
