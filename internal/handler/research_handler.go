package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockscout/internal/model"
	"stockscout/internal/pipeline"
	"stockscout/internal/portfolio"
)

type Analyzer interface {
	Analyze(ctx context.Context, portfolio model.Portfolio, jobID string) (*pipeline.State, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, job *model.ResearchJob) error
	Len(ctx context.Context) (int64, error)
}

type ResearchHandler struct {
	analyzer      Analyzer
	queue         JobQueue
	loadPortfolio func() (model.Portfolio, error)
}

// NewResearchHandler accepts a nil queue, in which case job submission
// answers 503. loadPortfolio supplies the portfolio for empty requests.
func NewResearchHandler(analyzer Analyzer, queue JobQueue, loadPortfolio func() (model.Portfolio, error)) *ResearchHandler {
	return &ResearchHandler{analyzer: analyzer, queue: queue, loadPortfolio: loadPortfolio}
}

func (h *ResearchHandler) Research(c *gin.Context) {
	p, ok := h.portfolioFromRequest(c)
	if !ok {
		return
	}

	state, err := h.analyzer.Analyze(c.Request.Context(), p, "")
	if err != nil {
		slog.Error("research run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if state.Failed {
		c.JSON(http.StatusBadGateway, gin.H{"error": state.Report, "job_id": state.JobID})
		return
	}

	c.JSON(http.StatusOK, ResearchResponse{
		JobID:     state.JobID,
		ReportID:  state.ReportID,
		Report:    state.Report,
		ModelUsed: state.ModelUsed,
		Snapshot:  state.Snapshot,
	})
}

func (h *ResearchHandler) SubmitJob(c *gin.Context) {
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Job queue unavailable"})
		return
	}

	p, ok := h.portfolioFromRequest(c)
	if !ok {
		return
	}

	job := &model.ResearchJob{Portfolio: p}
	if err := h.queue.Enqueue(c.Request.Context(), job); err != nil {
		slog.Error("error enqueueing research job", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Queue error"})
		return
	}

	position, err := h.queue.Len(c.Request.Context())
	if err != nil {
		slog.Warn("error reading queue length", "error", err)
	}

	slog.Info("research job enqueued", "job_id", job.ID, "symbols", p.Symbols())
	c.JSON(http.StatusAccepted, JobResponse{JobID: job.ID, Status: "queued", Position: position})
}

// portfolioFromRequest writes the error response itself when it returns
// false.
func (h *ResearchHandler) portfolioFromRequest(c *gin.Context) (model.Portfolio, bool) {
	var req ResearchRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return model.Portfolio{}, false
		}
	}

	if len(req.Holdings) == 0 {
		if h.loadPortfolio == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No holdings given"})
			return model.Portfolio{}, false
		}
		p, err := h.loadPortfolio()
		if err != nil {
			slog.Error("error loading portfolio", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "No holdings given and no portfolio file"})
			return model.Portfolio{}, false
		}
		return p, true
	}

	p, err := portfolio.Normalize(req.toPortfolio())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.Portfolio{}, false
	}
	return p, true
}
