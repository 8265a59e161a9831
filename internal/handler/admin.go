package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/logger"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

const defaultEmailListLimit = 200

// AdminHandler backs the authenticated management API: catalog CRUD,
// prelander configuration, captured emails, and the analytics summary.
type AdminHandler struct {
	catalog    *storage.CatalogStore
	results    *storage.WebResultStore
	prelanders *storage.PrelanderStore
	aggregates *storage.AggregateStore
	emails     *storage.EmailStore
	log        logger.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	catalog *storage.CatalogStore,
	results *storage.WebResultStore,
	prelanders *storage.PrelanderStore,
	aggregates *storage.AggregateStore,
	emails *storage.EmailStore,
	log logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalog:    catalog,
		results:    results,
		prelanders: prelanders,
		aggregates: aggregates,
		emails:     emails,
		log:        log,
	}
}

// AnalyticsSummary returns counters summed across all sessions.
func (h *AdminHandler) AnalyticsSummary(c *gin.Context) {
	summary, err := h.aggregates.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to load analytics summary", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListEmails returns the most recent captured emails.
func (h *AdminHandler) ListEmails(c *gin.Context) {
	limit := defaultEmailListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	captures, err := h.emails.List(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("Failed to list captured emails", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list emails"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": captures})
}

type landingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// GetLanding returns the current landing page copy.
func (h *AdminHandler) GetLanding(c *gin.Context) {
	content, err := h.catalog.LatestLanding(c.Request.Context())
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no landing content"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load landing content", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load landing content"})
		return
	}
	c.JSON(http.StatusOK, content)
}

// SaveLanding replaces the landing page copy.
func (h *AdminHandler) SaveLanding(c *gin.Context) {
	var req landingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	now := time.Now().UTC()
	content := &domain.LandingContent{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, err := h.catalog.LatestLanding(c.Request.Context()); err == nil {
		content.ID = existing.ID
		content.CreatedAt = existing.CreatedAt
	}

	if err := h.catalog.SaveLanding(c.Request.Context(), content); err != nil {
		h.log.Error("Failed to save landing content", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save landing content"})
		return
	}
	c.JSON(http.StatusOK, content)
}

type categoryRequest struct {
	Title        string `json:"title" binding:"required"`
	ResultsPage  string `json:"results_page" binding:"required"`
	SerialNumber int    `json:"serial_number"`
}

// ListCategories returns all related-search tiles in display order.
func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list categories", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory adds a related-search tile.
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and results_page are required"})
		return
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:           uuid.NewString(),
		Title:        req.Title,
		ResultsPage:  req.ResultsPage,
		SerialNumber: req.SerialNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.catalog.CreateCategory(c.Request.Context(), category); err != nil {
		h.log.Error("Failed to create category", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory rewrites a related-search tile.
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and results_page are required"})
		return
	}

	category := &domain.Category{
		ID:           c.Param("id"),
		Title:        req.Title,
		ResultsPage:  req.ResultsPage,
		SerialNumber: req.SerialNumber,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := h.catalog.UpdateCategory(c.Request.Context(), category); err != nil {
		h.respondMutationError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a related-search tile.
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondMutationError(c, err, "category")
		return
	}
	c.Status(http.StatusNoContent)
}

type webResultRequest struct {
	ResultsPage      string   `json:"results_page" binding:"required"`
	Sponsored        bool     `json:"is_sponsored"`
	OfferName        string   `json:"offer_name"`
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	OriginalLink     string   `json:"original_link" binding:"required"`
	LogoURL          string   `json:"logo_url"`
	SerialNumber     int      `json:"serial_number"`
	AccessType       string   `json:"access_type"`
	AllowedCountries []string `json:"allowed_countries"`
	BacklinkURL      string   `json:"backlink_url"`
}

func (r *webResultRequest) apply(w *domain.WebResult) {
	w.ResultsPage = r.ResultsPage
	w.Sponsored = r.Sponsored
	w.OfferName = r.OfferName
	w.Title = r.Title
	w.Description = r.Description
	w.OriginalLink = r.OriginalLink
	w.LogoURL = r.LogoURL
	w.SerialNumber = r.SerialNumber
	w.AccessType = r.AccessType
	if w.AccessType == "" {
		w.AccessType = domain.AccessWorldwide
	}
	w.AllowedCountries = r.AllowedCountries
	w.BacklinkURL = r.BacklinkURL
}

// ListWebResults returns every web result across all pages.
func (h *AdminHandler) ListWebResults(c *gin.Context) {
	results, err := h.results.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list web results", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list web results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// CreateWebResult adds an advertiser destination to a results page.
func (h *AdminHandler) CreateWebResult(c *gin.Context) {
	var req webResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "results_page, title and original_link are required"})
		return
	}

	now := time.Now().UTC()
	result := &domain.WebResult{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	req.apply(result)

	if err := h.results.Create(c.Request.Context(), result); err != nil {
		h.log.Error("Failed to create web result", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create web result"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateWebResult rewrites an advertiser destination. The prelander
// backlink is managed through the prelander endpoints, not here.
func (h *AdminHandler) UpdateWebResult(c *gin.Context) {
	var req webResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "results_page, title and original_link are required"})
		return
	}

	existing, err := h.results.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondMutationError(c, err, "web result")
		return
	}

	req.apply(existing)
	existing.UpdatedAt = time.Now().UTC()

	if err := h.results.Update(c.Request.Context(), existing); err != nil {
		h.respondMutationError(c, err, "web result")
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeleteWebResult removes an advertiser destination.
func (h *AdminHandler) DeleteWebResult(c *gin.Context) {
	if err := h.results.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondMutationError(c, err, "web result")
		return
	}
	c.Status(http.StatusNoContent)
}

type prelanderRequest struct {
	WebResultID      string `json:"web_result_id" binding:"required"`
	Headline         string `json:"headline" binding:"required"`
	Description      string `json:"description"`
	CTAText          string `json:"cta_text"`
	TargetURL        string `json:"target_url"`
	HeadlineColor    string `json:"headline_color"`
	DescriptionColor string `json:"description_color"`
	CTAColor         string `json:"cta_color"`
	HeadlineSize     int    `json:"headline_size"`
	DescriptionSize  int    `json:"description_size"`
	TextAlign        string `json:"text_align"`
	BackgroundMode   string `json:"background_mode"`
	BackgroundColor  string `json:"background_color"`
	BackgroundImage  string `json:"background_image_url"`
	LogoURL          string `json:"logo_url"`
	LogoPosition     string `json:"logo_position"`
	LogoSize         int    `json:"logo_size"`
	MainImageURL     string `json:"main_image_url"`
	ImageRatio       string `json:"image_ratio"`
}

// ListPrelanders returns every active prelander configuration.
func (h *AdminHandler) ListPrelanders(c *gin.Context) {
	configs, err := h.prelanders.ListActive(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list prelanders", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list prelanders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prelanders": configs})
}

// CreatePrelander stores a new prelander configuration under a generated
// page key and links the owning web result to it. The target URL defaults
// to the offer's advertiser destination.
func (h *AdminHandler) CreatePrelander(c *gin.Context) {
	var req prelanderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "web_result_id and headline are required"})
		return
	}

	offer, err := h.results.GetByID(c.Request.Context(), req.WebResultID)
	if err != nil {
		h.respondMutationError(c, err, "web result")
		return
	}

	now := time.Now().UTC()
	cfg := &domain.PrelanderConfig{
		ID:               uuid.NewString(),
		PageKey:          newPageKey(now),
		Headline:         req.Headline,
		Description:      req.Description,
		CTAText:          req.CTAText,
		TargetURL:        req.TargetURL,
		HeadlineColor:    req.HeadlineColor,
		DescriptionColor: req.DescriptionColor,
		CTAColor:         req.CTAColor,
		HeadlineSize:     req.HeadlineSize,
		DescriptionSize:  req.DescriptionSize,
		TextAlign:        req.TextAlign,
		BackgroundMode:   req.BackgroundMode,
		BackgroundColor:  req.BackgroundColor,
		BackgroundImage:  req.BackgroundImage,
		LogoURL:          req.LogoURL,
		LogoPosition:     req.LogoPosition,
		LogoSize:         req.LogoSize,
		MainImageURL:     req.MainImageURL,
		ImageRatio:       req.ImageRatio,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if cfg.TargetURL == "" {
		cfg.TargetURL = offer.OriginalLink
	}
	if cfg.LogoPosition == "" {
		cfg.LogoPosition = domain.LogoTopLeft
	}
	if cfg.BackgroundMode == "" {
		cfg.BackgroundMode = domain.BackgroundColor
	}

	if err := h.prelanders.Create(c.Request.Context(), cfg); err != nil {
		h.log.Error("Failed to create prelander", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create prelander"})
		return
	}

	if err := h.results.SetPrelanderKey(c.Request.Context(), offer.ID, cfg.PageKey); err != nil {
		h.log.Error("Failed to link prelander to web result",
			logger.String("web_result_id", offer.ID),
			logger.String("page_key", cfg.PageKey),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link prelander"})
		return
	}

	c.JSON(http.StatusCreated, cfg)
}

// DeletePrelander deactivates a prelander configuration. The row stays
// for audit; resolution treats it as absent.
func (h *AdminHandler) DeletePrelander(c *gin.Context) {
	if err := h.prelanders.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		h.respondMutationError(c, err, "prelander")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) respondMutationError(c *gin.Context, err error, entity string) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
		return
	}
	h.log.Error("Admin mutation failed",
		logger.String("entity", entity),
		logger.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update " + entity})
}

// newPageKey mints the key a prelander page is addressed by. Millisecond
// timestamps keep keys sortable by creation time.
func newPageKey(now time.Time) string {
	return fmt.Sprintf("prelander_%d", now.UnixMilli())
}
