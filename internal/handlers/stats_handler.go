package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "survivalist/internal/errors"
	"survivalist/internal/services"
)

// StatsHandler serves income/expense rollups.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// MonthlyStats handles the monthly rollup.
// @Summary     Monthly stats
// @Description Income vs expenses for the plan of one month; defaults to the current month
// @Tags        stats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month path string false "Month (YYYY-MM)"
// @Success     200 {object} services.MonthlyStats "Monthly stats"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No plan for the month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/monthly/{month} [get]
func (h *StatsHandler) MonthlyStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.MonthlyStats(userID, c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// YearlyStats handles the yearly rollup.
// @Summary     Yearly stats
// @Description Twelve-month rollup across all plans; defaults to the trailing twelve months
// @Tags        stats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year path int false "Year (YYYY)"
// @Success     200 {object} services.YearlyStats "Yearly stats"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/yearly/{year} [get]
func (h *StatsHandler) YearlyStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYearParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.YearlyStats(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// MonthlyCategoryStats handles the monthly rollup for one category.
// @Summary     Monthly category stats
// @Description One category's allocation vs expenses for the plan of one month
// @Tags        stats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       category path string true  "Category"
// @Param       month    path string false "Month (YYYY-MM)"
// @Success     200 {object} services.MonthlyCategoryStats "Monthly category stats"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No plan or category for the month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/category/{category}/monthly/{month} [get]
func (h *StatsHandler) MonthlyCategoryStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.MonthlyCategoryStats(userID, c.Param("category"), c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// YearlyCategoryStats handles the yearly rollup for one category.
// @Summary     Yearly category stats
// @Description Twelve-month rollup of one category's allocations and expenses
// @Tags        stats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       category path string true  "Category"
// @Param       year     path int    false "Year (YYYY)"
// @Success     200 {object} services.YearlyCategoryStats "Yearly category stats"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/category/{category}/yearly/{year} [get]
func (h *StatsHandler) YearlyCategoryStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYearParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.YearlyCategoryStats(userID, c.Param("category"), year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// parseYearParam parses an optional "year" path parameter. A missing
// parameter yields nil, meaning the trailing-twelve-months window.
func parseYearParam(c *gin.Context) (*int, error) {
	raw := c.Param("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1000 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year")
	}
	return &year, nil
}
