package domain

import "time"

// Logo placements supported by the prelander builder.
const (
	LogoTopLeft   = "top-left"
	LogoTopCenter = "top-center"
)

// Background modes for the prelander page.
const (
	BackgroundColor = "color"
	BackgroundImage = "image"
)

// PrelanderConfig is the visual/content configuration for an interstitial
// email-capture page, addressed by its page key. A web result may carry
// zero or one config; absence is an expected state, not an error.
type PrelanderConfig struct {
	ID               string    `json:"id"`
	PageKey          string    `json:"page_key"`
	Headline         string    `json:"headline"`
	Description      string    `json:"description"`
	CTAText          string    `json:"cta_text"`
	TargetURL        string    `json:"target_url"`
	HeadlineColor    string    `json:"headline_color"`
	DescriptionColor string    `json:"description_color"`
	CTAColor         string    `json:"cta_color"`
	HeadlineSize     int       `json:"headline_size"`
	DescriptionSize  int       `json:"description_size"`
	TextAlign        string    `json:"text_align"`
	BackgroundMode   string    `json:"background_mode"`
	BackgroundColor  string    `json:"background_color"`
	BackgroundImage  string    `json:"background_image_url,omitempty"`
	LogoURL          string    `json:"logo_url,omitempty"`
	LogoPosition     string    `json:"logo_position"`
	LogoSize         int       `json:"logo_size"`
	MainImageURL     string    `json:"main_image_url,omitempty"`
	ImageRatio       string    `json:"image_ratio"`
	Active           bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
