package geo_test

import (
	"testing"

	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/geo"
)

func TestDevice(t *testing.T) {
	testCases := []struct {
		name string
		ua   string
		want string
	}{
		{
			name: "iphone",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
			want: domain.DeviceMobile,
		},
		{
			name: "android phone",
			ua:   "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Mobile Safari/537.36",
			want: domain.DeviceMobile,
		},
		{
			name: "ipad",
			ua:   "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
			want: domain.DeviceTablet,
		},
		{
			name: "android tablet",
			ua:   "Mozilla/5.0 (Linux; Android 14; SM-X910) AppleWebKit/537.36 Tablet Safari",
			want: domain.DeviceTablet,
		},
		{
			name: "desktop chrome",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0",
			want: domain.DeviceDesktop,
		},
		{
			name: "desktop mac",
			ua:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Safari/605.1.15",
			want: domain.DeviceDesktop,
		},
		{
			name: "empty",
			ua:   "",
			want: domain.DeviceDesktop,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := geo.Device(tc.ua); got != tc.want {
				t.Errorf("Device(%q) = %q, want %q", tc.ua, got, tc.want)
			}
		})
	}
}
