package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/logger"
)

// Client defaults. Timeouts stay short so a slow geo service never
// delays a tracking write or a redirect.
const (
	defaultTimeout             = 3 * time.Second
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Lookup resolves the visitor's public IP and country through two
// unauthenticated JSON endpoints. All failures degrade to the sentinel
// values; Lookup has no error returns.
type Lookup struct {
	client           *http.Client
	ipLookupURL      string
	countryLookupURL string
	log              logger.Logger
}

// NewLookup creates a Lookup using the given endpoint base URLs.
func NewLookup(ipLookupURL, countryLookupURL string, timeout time.Duration, log logger.Logger) *Lookup {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Lookup{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		ipLookupURL:      ipLookupURL,
		countryLookupURL: strings.TrimRight(countryLookupURL, "/"),
		log:              log,
	}
}

// IPAddress resolves the caller's public IP, or the "unknown" sentinel.
func (l *Lookup) IPAddress(ctx context.Context) string {
	var payload struct {
		IP string `json:"ip"`
	}
	if err := l.getJSON(ctx, l.ipLookupURL, &payload); err != nil {
		l.log.Debug("IP lookup failed", logger.Error(err))
		return domain.UnknownIP
	}
	if payload.IP == "" {
		return domain.UnknownIP
	}
	return payload.IP
}

// Country resolves the country name for an IP, or the "Unknown" sentinel.
func (l *Lookup) Country(ctx context.Context, ip string) string {
	if ip == "" || ip == domain.UnknownIP {
		return domain.UnknownCountry
	}

	var payload struct {
		CountryName string `json:"country_name"`
	}
	endpoint := fmt.Sprintf("%s/%s/json/", l.countryLookupURL, url.PathEscape(ip))
	if err := l.getJSON(ctx, endpoint, &payload); err != nil {
		l.log.Debug("country lookup failed", logger.Error(err))
		return domain.UnknownCountry
	}
	if payload.CountryName == "" {
		return domain.UnknownCountry
	}
	return payload.CountryName
}

// Snapshot builds the environment snapshot for a request. The client IP
// reported by the HTTP layer is preferred; the external IP lookup only
// runs when the request carries nothing usable (e.g. a loopback source
// behind local testing).
func (l *Lookup) Snapshot(ctx context.Context, clientIP, userAgent string) domain.EnvSnapshot {
	ip := clientIP
	if !publicAddr(ip) {
		ip = l.IPAddress(ctx)
	}

	return domain.EnvSnapshot{
		IP:      ip,
		Country: l.Country(ctx, ip),
		Device:  Device(userAgent),
	}
}

func (l *Lookup) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// publicAddr filters out the addresses gin reports for local or proxied
// traffic that would be useless to geolocate.
func publicAddr(ip string) bool {
	if ip == "" || ip == "::1" {
		return false
	}
	for _, prefix := range []string{"127.", "10.", "192.168.", "172.16.", "169.254."} {
		if strings.HasPrefix(ip, prefix) {
			return false
		}
	}
	return true
}
