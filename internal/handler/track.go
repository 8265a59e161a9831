package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minglemoody/funnel-tracker/internal/analytics"
	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/geo"
	"github.com/minglemoody/funnel-tracker/internal/middleware"
	"github.com/minglemoody/funnel-tracker/internal/session"
)

// TrackHandler receives the fire-and-forget tracking calls from the
// rendered pages. Every response is 202: a tracking failure is logged
// server-side and must never disturb the visitor.
type TrackHandler struct {
	tracker *analytics.Tracker
	lookup  *geo.Lookup
}

// NewTrackHandler creates a TrackHandler.
func NewTrackHandler(tracker *analytics.Tracker, lookup *geo.Lookup) *TrackHandler {
	return &TrackHandler{tracker: tracker, lookup: lookup}
}

type pageViewRequest struct {
	Source string `json:"source" binding:"required"`
}

// PageView records one page view for the visitor's session.
func (h *TrackHandler) PageView(c *gin.Context) {
	var req pageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source is required"})
		return
	}

	if middleware.IsBot(c) {
		c.Status(http.StatusAccepted)
		return
	}

	env := h.lookup.Snapshot(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
	h.tracker.RecordPageView(c.Request.Context(), session.FromContext(c), req.Source, env)

	c.Status(http.StatusAccepted)
}

type clickRequest struct {
	EventType  string `json:"event_type" binding:"required"`
	SearchTerm string `json:"search_term"`
	TargetURL  string `json:"target_url"`
}

// Click records one interaction event for the visitor's session.
func (h *TrackHandler) Click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_type is required"})
		return
	}

	if !domain.ValidEventType(req.EventType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type"})
		return
	}

	if middleware.IsBot(c) {
		c.Status(http.StatusAccepted)
		return
	}

	env := h.lookup.Snapshot(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
	h.tracker.RecordClick(
		c.Request.Context(),
		session.FromContext(c),
		req.EventType, req.SearchTerm, req.TargetURL,
		env,
	)

	c.Status(http.StatusAccepted)
}

// Heartbeat flushes the session's elapsed active time. The front end
// posts it periodically, on tab-hidden, and on page unload; the unload
// delivery is best-effort by nature.
func (h *TrackHandler) Heartbeat(c *gin.Context) {
	if !middleware.IsBot(c) {
		h.tracker.Heartbeat(c.Request.Context(), session.FromContext(c))
	}
	c.Status(http.StatusAccepted)
}
