package domain

import "time"

// Access types controlling which countries may see a web result.
const (
	AccessWorldwide         = "worldwide"
	AccessSelectedCountries = "selected_countries"
)

// LandingContent is the headline copy of the landing page. The visitor
// path reads only the most recently updated row.
type LandingContent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category is one related-search tile on the landing page, linking to a
// results page.
type Category struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ResultsPage  string    `json:"results_page"`
	SerialNumber int       `json:"serial_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WebResult is an advertiser destination listed on a results page,
// optionally linked to a prelander config through PrelanderPageKey.
type WebResult struct {
	ID               string    `json:"id"`
	ResultsPage      string    `json:"results_page"`
	Sponsored        bool      `json:"is_sponsored"`
	OfferName        string    `json:"offer_name,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	OriginalLink     string    `json:"original_link"`
	LogoURL          string    `json:"logo_url,omitempty"`
	SerialNumber     int       `json:"serial_number"`
	AccessType       string    `json:"access_type"`
	AllowedCountries []string  `json:"allowed_countries"`
	BacklinkURL      string    `json:"backlink_url,omitempty"`
	PrelanderPageKey string    `json:"prelander_page_key,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// VisibleTo reports whether the result may be shown to a visitor from the
// given country. Unknown countries only see worldwide results.
func (w *WebResult) VisibleTo(country string) bool {
	if w.AccessType != AccessSelectedCountries {
		return true
	}
	for _, c := range w.AllowedCountries {
		if c == country {
			return true
		}
	}
	return false
}
