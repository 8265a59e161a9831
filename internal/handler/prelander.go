package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/geo"
	"github.com/minglemoody/funnel-tracker/internal/logger"
	"github.com/minglemoody/funnel-tracker/internal/prelander"
	"github.com/minglemoody/funnel-tracker/internal/session"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

// PrelanderHandler resolves prelander configurations for the interstitial
// page and records the emails it captures.
type PrelanderHandler struct {
	resolver *prelander.Resolver
	results  *storage.WebResultStore
	emails   *storage.EmailStore
	lookup   *geo.Lookup
	log      logger.Logger
}

// NewPrelanderHandler creates a PrelanderHandler.
func NewPrelanderHandler(
	resolver *prelander.Resolver,
	results *storage.WebResultStore,
	emails *storage.EmailStore,
	lookup *geo.Lookup,
	log logger.Logger,
) *PrelanderHandler {
	return &PrelanderHandler{
		resolver: resolver,
		results:  results,
		emails:   emails,
		lookup:   lookup,
		log:      log,
	}
}

// offerSummary is the subset of a web result the default prelander
// rendering needs when no configuration resolves.
type offerSummary struct {
	ID          string `json:"id"`
	OfferName   string `json:"offer_name,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url,omitempty"`
}

func summarize(offer *domain.WebResult) *offerSummary {
	return &offerSummary{
		ID:          offer.ID,
		OfferName:   offer.OfferName,
		Title:       offer.Title,
		Description: offer.Description,
		LogoURL:     offer.LogoURL,
	}
}

// Resolve returns the prelander configuration for either a page key or a
// web result id. Key lookups fail closed with 404. Offer lookups whose
// backlink does not resolve return the offer itself with fallback set, so
// the page renders a default layout from the offer's own copy.
func (h *PrelanderHandler) Resolve(c *gin.Context) {
	key := c.Query("key")
	offerID := c.Query("id")

	switch {
	case key != "":
		cfg, err := h.resolver.ResolveByKey(c.Request.Context(), key)
		if errors.Is(err, prelander.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prelander not found"})
			return
		}
		if err != nil {
			h.log.Error("Failed to resolve prelander",
				logger.String("page_key", key),
				logger.Error(err),
			)
			c.JSON(http.StatusNotFound, gin.H{"error": "prelander not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"config": cfg})

	case offerID != "":
		cfg, offer, err := h.resolver.ResolveByOffer(c.Request.Context(), offerID)
		if err != nil && !errors.Is(err, prelander.ErrNotFound) {
			h.log.Error("Failed to resolve prelander for offer",
				logger.String("web_result_id", offerID),
				logger.Error(err),
			)
		}
		if cfg != nil {
			c.JSON(http.StatusOK, gin.H{"config": cfg, "offer": summarize(offer)})
			return
		}
		if offer != nil {
			c.JSON(http.StatusOK, gin.H{
				"config":   nil,
				"offer":    summarize(offer),
				"fallback": true,
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "prelander not found"})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "key or id is required"})
	}
}

type emailCaptureRequest struct {
	Email       string `json:"email" binding:"required"`
	WebResultID string `json:"web_result_id" binding:"required"`
}

// CaptureEmail records a submitted email and returns the destination the
// page should send the visitor to. Unlike the tracking paths, a failed
// write here is a real error: the capture is the point of the page.
func (h *PrelanderHandler) CaptureEmail(c *gin.Context) {
	var req emailCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and web_result_id are required"})
		return
	}

	addr := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	offer, err := h.results.GetByID(c.Request.Context(), req.WebResultID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
			return
		}
		h.log.Error("Failed to load offer for email capture",
			logger.String("web_result_id", req.WebResultID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record email"})
		return
	}

	capture := &domain.EmailCapture{
		ID:           uuid.NewString(),
		Email:        addr,
		WebResultID:  offer.ID,
		SessionID:    session.FromContext(c),
		Env:          h.lookup.Snapshot(c.Request.Context(), c.ClientIP(), c.Request.UserAgent()),
		RedirectedTo: offer.OriginalLink,
		CapturedAt:   time.Now().UTC(),
	}

	if err := h.emails.Insert(c.Request.Context(), capture); err != nil {
		h.log.Error("Failed to record email capture",
			logger.String("web_result_id", offer.ID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"redirect_url": offer.OriginalLink})
}
