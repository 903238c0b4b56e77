package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"stockscout/internal/model"
)

type HoldingRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
}

type ResearchRequest struct {
	Name     string           `json:"name"`
	Holdings []HoldingRequest `json:"holdings"`
}

func (r ResearchRequest) toPortfolio() model.Portfolio {
	p := model.Portfolio{Name: r.Name}
	for _, h := range r.Holdings {
		p.Holdings = append(p.Holdings, model.Holding{Symbol: h.Symbol, Quantity: h.Quantity, AvgCost: h.AvgCost})
	}
	return p
}

type ResearchResponse struct {
	JobID     string         `json:"job_id"`
	ReportID  int64          `json:"report_id,omitempty"`
	Report    string         `json:"report"`
	ModelUsed string         `json:"model_used"`
	Snapshot  model.Snapshot `json:"snapshot"`
}

type JobResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Position int64  `json:"position"`
}

type ReportResponse struct {
	ID        int64    `json:"id"`
	JobID     string   `json:"job_id,omitempty"`
	Portfolio string   `json:"portfolio"`
	Report    string   `json:"report"`
	Symbols   []string `json:"symbols"`
	ModelUsed string   `json:"model_used"`
	CreatedAt string   `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

func toReportResponse(r model.AnalysisReport) ReportResponse {
	symbols := r.Symbols
	if symbols == nil {
		symbols = []string{}
	}
	return ReportResponse{
		ID:        r.ID,
		JobID:     r.JobID,
		Portfolio: r.Portfolio,
		Report:    r.Report,
		Symbols:   symbols,
		ModelUsed: r.ModelUsed,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

type CacheEntryResponse struct {
	URL       string `json:"url"`
	Summary   string `json:"summary"`
	ExpiresAt string `json:"expires_at"`
}

type EvictResponse struct {
	Evicted int64 `json:"evicted"`
}
