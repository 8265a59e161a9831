package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minglemoody/funnel-tracker/internal/analytics"
	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/geo"
	"github.com/minglemoody/funnel-tracker/internal/logger"
	"github.com/minglemoody/funnel-tracker/internal/middleware"
	"github.com/minglemoody/funnel-tracker/internal/session"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

// FunnelHandler serves the visitor-facing funnel surfaces: landing
// content, geo-gated results listings, and the outbound redirect.
type FunnelHandler struct {
	catalog         *storage.CatalogStore
	results         *storage.WebResultStore
	tracker         *analytics.Tracker
	lookup          *geo.Lookup
	landingFallback string
	log             logger.Logger
}

// NewFunnelHandler creates a FunnelHandler. landingFallback is where the
// redirect endpoint sends visitors whose target cannot be resolved.
func NewFunnelHandler(
	catalog *storage.CatalogStore,
	results *storage.WebResultStore,
	tracker *analytics.Tracker,
	lookup *geo.Lookup,
	landingFallback string,
	log logger.Logger,
) *FunnelHandler {
	return &FunnelHandler{
		catalog:         catalog,
		results:         results,
		tracker:         tracker,
		lookup:          lookup,
		landingFallback: landingFallback,
		log:             log,
	}
}

// Landing returns the landing page copy and its related-search tiles.
func (h *FunnelHandler) Landing(c *gin.Context) {
	content, err := h.catalog.LatestLanding(c.Request.Context())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.log.Error("Failed to load landing content", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load landing content"})
		return
	}

	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to load categories", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":    content,
		"categories": categories,
	})
}

// Results lists the web results for one results page, filtered to the
// visitor's country and split into the sponsored and regular sections the
// page renders. Results restricted to other countries are omitted rather
// than erroring.
func (h *FunnelHandler) Results(c *gin.Context) {
	page := c.Param("page")

	all, err := h.results.ListByPage(c.Request.Context(), page)
	if err != nil {
		h.log.Error("Failed to load results",
			logger.String("results_page", page),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load results"})
		return
	}

	env := h.lookup.Snapshot(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())

	sponsored := make([]domain.WebResult, 0, len(all))
	regular := make([]domain.WebResult, 0, len(all))
	for _, r := range all {
		if !r.VisibleTo(env.Country) {
			continue
		}
		if r.Sponsored {
			sponsored = append(sponsored, r)
		} else {
			regular = append(regular, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results_page": page,
		"country":      env.Country,
		"sponsored":    sponsored,
		"regular":      regular,
	})
}

// Redirect records a result click for the visitor's session and sends
// them to the advertiser destination. The redirect is issued even when
// the tracking write fails; an unresolvable result id falls back to the
// landing page instead of an error response.
func (h *FunnelHandler) Redirect(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.Redirect(http.StatusFound, h.landingFallback)
		return
	}

	result, err := h.results.GetByID(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.log.Error("Failed to resolve redirect target",
				logger.String("web_result_id", id),
				logger.Error(err),
			)
		}
		c.Redirect(http.StatusFound, h.landingFallback)
		return
	}

	if !middleware.IsBot(c) {
		env := h.lookup.Snapshot(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
		h.tracker.RecordClick(
			c.Request.Context(),
			session.FromContext(c),
			domain.EventResult, result.Title, result.OriginalLink,
			env,
		)
	}

	c.Redirect(http.StatusFound, result.OriginalLink)
}
