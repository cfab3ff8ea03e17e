package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ruleHandler exposes the read-side surface over posting rules. Rules are
// authored externally by the rule-pack loader; there is no write surface here.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

func newRuleHandler(rs portssvc.RuleSvcFacade) *ruleHandler {
	return &ruleHandler{ruleService: rs}
}

// registerRuleRoutes registers routes related to posting rules.
func registerRuleRoutes(rg *gin.RouterGroup, ruleService portssvc.RuleSvcFacade) {
	h := newRuleHandler(ruleService)

	rules := rg.Group("/rules")
	{
		rules.GET("", h.listRules)
		rules.GET("/:id", h.getRule)
		rules.GET("/:id/usage", h.listRuleUsage)
	}
	rg.GET("/rule-usage", h.getUsageForSource)
}

// listRules godoc
// @Summary List posting rules
// @Description Lists the company's configured posting rules, optionally filtered by source type
// @Tags rules
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   sourceType query string false "Filter by source type"
// @Success 200 {array} dto.PostingRuleResponse
// @Failure 500 {object} map[string]string "Failed to list rules"
// @Router /companies/{company_id}/rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	sourceType := c.Query("sourceType")

	rules, err := h.ruleService.ListRules(c.Request.Context(), companyID, sourceType)
	if err != nil {
		logger.Error("Failed to list rules", slog.String("company_id", companyID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rules"})
		return
	}

	out := make([]dto.PostingRuleResponse, len(rules))
	for i := range rules {
		out[i] = dto.ToPostingRuleResponse(&rules[i])
	}
	c.JSON(http.StatusOK, out)
}

// getRule godoc
// @Summary Get a posting rule by ID
// @Description Retrieves one posting rule with its conditions and template
// @Tags rules
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   id path string true "Rule ID"
// @Success 200 {object} dto.PostingRuleResponse
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to retrieve rule"
// @Router /companies/{company_id}/rules/{id} [get]
func (h *ruleHandler) getRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	ruleID := c.Param("id")

	rule, err := h.ruleService.GetRuleByID(c.Request.Context(), companyID, ruleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		} else {
			logger.Error("Failed to get rule", slog.String("rule_id", ruleID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rule"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingRuleResponse(rule))
}

// listRuleUsage godoc
// @Summary List rule usage logs
// @Description Retrieves the audit trail of entries produced by a rule, newest first
// @Tags rules
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   id path string true "Rule ID"
// @Param   limit query int false "Max records to return (default 50)"
// @Success 200 {array} dto.RuleUsageResponse
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to list usage"
// @Router /companies/{company_id}/rules/{id}/usage [get]
func (h *ruleHandler) listRuleUsage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	ruleID := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	logs, err := h.ruleService.ListRuleUsage(c.Request.Context(), companyID, ruleID, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		} else {
			logger.Error("Failed to list rule usage", slog.String("rule_id", ruleID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list usage"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleUsageResponses(logs))
}

// getUsageForSource godoc
// @Summary Find rule usage by source document
// @Description Retrieves the usage records for a given source document, answering which rule posted it
// @Tags rules
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   sourceType query string true "Source type"
// @Param   sourceID query string true "Source document ID"
// @Success 200 {array} dto.RuleUsageResponse
// @Failure 400 {object} map[string]string "Missing source parameters"
// @Failure 500 {object} map[string]string "Failed to look up usage"
// @Router /companies/{company_id}/rule-usage [get]
func (h *ruleHandler) getUsageForSource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceType := c.Query("sourceType")
	sourceID := c.Query("sourceID")
	if sourceType == "" || sourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceType and sourceID are required"})
		return
	}

	logs, err := h.ruleService.GetUsageForSource(c.Request.Context(), sourceType, sourceID)
	if err != nil {
		logger.Error("Failed to look up rule usage by source",
			slog.String("source_type", sourceType), slog.String("source_id", sourceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up usage"})
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleUsageResponses(logs))
}
