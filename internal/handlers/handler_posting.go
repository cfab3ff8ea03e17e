package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles HTTP requests for rule-driven event posting.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: ps}
}

// registerPostingRoutes registers routes related to event posting.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	rg.POST("/post-events", h.postEvent)
}

// postEvent godoc
// @Summary Post a business event
// @Description Runs the rule-driven posting pipeline for a business event. Re-submitting the same source is a no-op that returns the existing entry
// @Tags posting
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   event body dto.PostEventRequest true "Event details"
// @Success 200 {object} dto.PostEventResponse "Already posted or no matching rule"
// @Success 201 {object} dto.PostEventResponse "Entry posted"
// @Failure 400 {object} map[string]string "Invalid input or unbalanced resolved entry"
// @Failure 500 {object} map[string]string "Failed to post event"
// @Router /companies/{company_id}/post-events [post]
func (h *postingHandler) postEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.PostEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(
		slog.String("company_id", companyID),
		slog.String("source_type", req.SourceType),
		slog.String("source_id", req.SourceID),
		slog.String("trigger_event", req.TriggerEvent),
	)
	logger.Info("Received event for posting")

	entry, outcome, err := h.postingService.PostEvent(c.Request.Context(), companyID, req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Event rejected by posting pipeline", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account referenced by rule not found", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to post event", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post event"})
		}
		return
	}

	resp := dto.PostEventResponse{Outcome: string(outcome)}
	if entry != nil {
		er := dto.ToJournalEntryResponse(entry)
		resp.Entry = &er
	}

	status := http.StatusOK
	if outcome == domain.OutcomePosted {
		status = http.StatusCreated
	}
	logger.Info("Event processed", slog.String("outcome", string(outcome)))
	c.JSON(status, resp)
}
