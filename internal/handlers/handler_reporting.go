package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// reportingHandler serves the financial report endpoints.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to financial reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/accounts/:id/ledger", h.accountLedger)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/abnormal-balances", h.abnormalBalances)
		reports.GET("/aging", h.aging)
		reports.GET("/parties/:party_id/ledger", h.partyLedger)
		reports.GET("/control-reconciliation", h.controlReconciliation)
	}
}

// parseReportDate parses a YYYY-MM-DD query value, falling back to today
// when the value is empty.
func parseReportDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(reportDateLayout, value)
}

// parsePeriod parses the bound from/to pair and rejects inverted ranges.
func parsePeriod(params dto.PeriodParams) (time.Time, time.Time, error) {
	from, err := time.Parse(reportDateLayout, params.From)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse(reportDateLayout, params.To)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid to date, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to date is before from date")
	}
	return from, to, nil
}

func (h *reportingHandler) respondReportError(c *gin.Context, logger *slog.Logger, report string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Error("Failed to build report", slog.String("report", report), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build " + report})
}

// trialBalance godoc
// @Summary Trial balance report
// @Description Lists every account with its closing balance presented in debit/credit columns. A totals mismatch is reported as a data-quality alert, never hidden
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD), defaults to today"
// @Param   includeZeroBalances query bool false "Include accounts with zero closing balance"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseReportDate(params.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), companyID, asOf, params.IncludeZeroBalances)
	if err != nil {
		h.respondReportError(c, logger, "trial balance", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// accountLedger godoc
// @Summary Account ledger report
// @Description Chronological movement lines for one account over a period, with opening balance and running balances
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   id path string true "Account ID"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.AccountLedgerReport
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/accounts/{id}/ledger [get]
func (h *reportingHandler) accountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	accountID := c.Param("id")

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, to, err := parsePeriod(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.AccountLedger(c.Request.Context(), companyID, accountID, from, to)
	if err != nil {
		h.respondReportError(c, logger, "account ledger", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// incomeStatement godoc
// @Summary Income statement report
// @Description Income and expense activity over a period, grouped by subtype, with net profit
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatementReport
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, to, err := parsePeriod(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), companyID, from, to)
	if err != nil {
		h.respondReportError(c, logger, "income statement", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet report
// @Description Assets, liabilities and equity as of a date, with current-period earnings folded into equity. An imbalance is reported, never force-balanced
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseReportDate(params.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID, asOf)
	if err != nil {
		h.respondReportError(c, logger, "balance sheet", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// abnormalBalances godoc
// @Summary Abnormal balance report
// @Description Lists accounts whose current balance sits on the wrong side of their normal balance convention
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} domain.AbnormalBalanceReport
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/abnormal-balances [get]
func (h *reportingHandler) abnormalBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	report, err := h.reportingService.AbnormalBalances(c.Request.Context(), companyID)
	if err != nil {
		h.respondReportError(c, logger, "abnormal balance report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// aging godoc
// @Summary AP/AR aging report
// @Description Outstanding vendor or customer balances bucketed by entry age as of a date
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   partyType query string true "VENDOR or CUSTOMER"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.AgingReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/aging [get]
func (h *reportingHandler) aging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.AgingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseReportDate(params.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.Aging(c.Request.Context(), companyID, domain.SubledgerType(params.PartyType), asOf)
	if err != nil {
		h.respondReportError(c, logger, "aging report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// partyLedger godoc
// @Summary Party ledger report
// @Description Chronological ledger for one vendor or customer over a period, in the party's sign convention
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   party_id path string true "Party ID"
// @Param   partyType query string true "VENDOR or CUSTOMER"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.PartyLedgerReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/parties/{party_id}/ledger [get]
func (h *reportingHandler) partyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	partyID := c.Param("party_id")

	partyType := domain.SubledgerType(c.Query("partyType"))
	if partyType != domain.SubledgerVendor && partyType != domain.SubledgerCustomer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "partyType must be VENDOR or CUSTOMER"})
		return
	}

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, to, err := parsePeriod(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.PartyLedger(c.Request.Context(), companyID, partyType, partyID, from, to)
	if err != nil {
		h.respondReportError(c, logger, "party ledger", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// controlReconciliation godoc
// @Summary Control account reconciliation
// @Description Compares each control account's balance against the sum of its subledger as of a date; drift is flagged as a data-quality alert
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.ControlReconciliationReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to build report"
// @Router /companies/{company_id}/reports/control-reconciliation [get]
func (h *reportingHandler) controlReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseReportDate(params.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf date, expected YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.ControlAccountReconciliation(c.Request.Context(), companyID, asOf)
	if err != nil {
		h.respondReportError(c, logger, "control reconciliation", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
