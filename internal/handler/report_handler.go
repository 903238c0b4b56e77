package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockscout/internal/model"
	"stockscout/internal/repository"
)

type ReportStore interface {
	GetReports(ctx context.Context, limit, offset int) ([]model.AnalysisReport, error)
	GetReportTotal(ctx context.Context) (int, error)
	GetLatestReport(ctx context.Context) (*model.AnalysisReport, error)
	GetReportByID(ctx context.Context, id int64) (*model.AnalysisReport, error)
}

type ReportHandler struct {
	repository ReportStore
}

func NewReportHandler(repository ReportStore) *ReportHandler {
	return &ReportHandler{repository: repository}
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	p := parsePage(c, defaultReportLimit, maxReportLimit)

	reports, err := h.repository.GetReports(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		slog.Error("error fetching reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetReportTotal(c.Request.Context())
	if err != nil {
		slog.Error("error fetching report total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := ReportsResponse{
		Reports: []ReportResponse{},
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
	}
	for _, r := range reports {
		res.Reports = append(res.Reports, toReportResponse(r))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetLatestReport(c *gin.Context) {
	report, err := h.repository.GetLatestReport(c.Request.Context())
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No report available"})
		return
	}

	if err != nil {
		slog.Error("error fetching latest report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toReportResponse(*report))
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	id := c.Param("id")

	reportID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.Error("invalid report id", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	report, err := h.repository.GetReportByID(c.Request.Context(), reportID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if err != nil {
		slog.Error("error fetching report", "error", err, "report_id", reportID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toReportResponse(*report))
}
