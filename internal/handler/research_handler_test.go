package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"

	"stockscout/internal/model"
	"stockscout/internal/pipeline"
)

type fakeAnalyzer struct {
	state *pipeline.State
	err   error
	got   model.Portfolio
	calls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, p model.Portfolio, jobID string) (*pipeline.State, error) {
	f.calls++
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return f.state, nil
}

type fakeJobQueue struct {
	jobs []*model.ResearchJob
	err  error
}

func (f *fakeJobQueue) Enqueue(ctx context.Context, job *model.ResearchJob) error {
	if f.err != nil {
		return f.err
	}
	job.ID = "job-1"
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobQueue) Len(ctx context.Context) (int64, error) {
	return int64(len(f.jobs)), nil
}

func filePortfolio() (model.Portfolio, error) {
	return model.Portfolio{Name: "file", Holdings: []model.Holding{
		{Symbol: "NVDA", Quantity: decimal.NewFromInt(5), AvgCost: decimal.NewFromInt(400)},
	}}, nil
}

func newTestResearchRouter(analyzer Analyzer, queue JobQueue, load func() (model.Portfolio, error)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewResearchHandler(analyzer, queue, load)
	r.POST("/research", h.Research)
	r.POST("/research/jobs", h.SubmitJob)
	return r
}

const researchBody = `{"name":"growth","holdings":[
  {"symbol":" aapl ","quantity":10,"avg_cost":"150.00"},
  {"symbol":"AAPL","quantity":10,"avg_cost":"250.00"}
]}`

func TestResearch_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{state: &pipeline.State{
		JobID:     "abc",
		Report:    "Hold AAPL.",
		ModelUsed: "gpt-4o",
		ReportID:  12,
	}}
	r := newTestResearchRouter(analyzer, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/research", strings.NewReader(researchBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, len(analyzer.got.Holdings))
	assert.Equal(t, "AAPL", analyzer.got.Holdings[0].Symbol)
	assert.Equal(t, "20", analyzer.got.Holdings[0].Quantity.String())
	assert.Equal(t, "200", analyzer.got.Holdings[0].AvgCost.String())

	var res ResearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "abc", res.JobID)
	assert.Equal(t, int64(12), res.ReportID)
	assert.Equal(t, "Hold AAPL.", res.Report)
}

func TestResearch_EmptyBodyUsesPortfolioFile(t *testing.T) {
	analyzer := &fakeAnalyzer{state: &pipeline.State{Report: "ok"}}
	r := newTestResearchRouter(analyzer, nil, filePortfolio)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/research", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "file", analyzer.got.Name)
	assert.Equal(t, []string{"NVDA"}, analyzer.got.Symbols())
}

func TestResearch_FailedAnalysis(t *testing.T) {
	analyzer := &fakeAnalyzer{state: &pipeline.State{
		JobID:  "abc",
		Report: "Error running analysis: rate limited",
		Failed: true,
	}}
	r := newTestResearchRouter(analyzer, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/research", strings.NewReader(researchBody))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Error running analysis: rate limited", res["error"])
}

func TestResearch_PipelineError(t *testing.T) {
	r := newTestResearchRouter(&fakeAnalyzer{err: errors.New("research: boom")}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/research", strings.NewReader(researchBody))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResearch_BadRequests(t *testing.T) {
	noFile := func() (model.Portfolio, error) { return model.Portfolio{}, errors.New("no such file") }

	tests := []struct {
		name string
		body string
		load func() (model.Portfolio, error)
		want int
	}{
		{name: "malformed json", body: `{"holdings":`, want: http.StatusBadRequest},
		{name: "missing symbol", body: `{"holdings":[{"quantity":1,"avg_cost":1}]}`, want: http.StatusBadRequest},
		{name: "zero quantity", body: `{"holdings":[{"symbol":"AAPL","quantity":0,"avg_cost":1}]}`, want: http.StatusBadRequest},
		{name: "no holdings and no loader", body: `{"name":"x"}`, want: http.StatusBadRequest},
		{name: "no holdings and missing file", body: `{"name":"x"}`, load: noFile, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{state: &pipeline.State{}}
			r := newTestResearchRouter(analyzer, nil, tt.load)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/research", strings.NewReader(tt.body))
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, 0, analyzer.calls)
		})
	}
}

func TestSubmitJob(t *testing.T) {
	queue := &fakeJobQueue{}
	r := newTestResearchRouter(&fakeAnalyzer{}, queue, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/research/jobs", strings.NewReader(researchBody))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, len(queue.jobs))
	assert.Equal(t, "growth", queue.jobs[0].Portfolio.Name)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "job-1", res.JobID)
	assert.Equal(t, "queued", res.Status)
	assert.Equal(t, int64(1), res.Position)
}

func TestSubmitJob_NoQueue(t *testing.T) {
	r := newTestResearchRouter(&fakeAnalyzer{}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/research/jobs", strings.NewReader(researchBody))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubmitJob_QueueError(t *testing.T) {
	r := newTestResearchRouter(&fakeAnalyzer{}, &fakeJobQueue{err: errors.New("redis down")}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/research/jobs", strings.NewReader(researchBody))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
