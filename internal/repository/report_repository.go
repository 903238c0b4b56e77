package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"stockscout/internal/model"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) SaveReport(ctx context.Context, report *model.AnalysisReport) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO analysis_report(job_id, portfolio, report, symbols, model_used)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, report.JobID, report.Portfolio, report.Report, pq.Array(report.Symbols), report.ModelUsed).Scan(&report.ID, &report.CreatedAt)
}

func (r *ReportRepository) GetReports(ctx context.Context, limit, offset int) ([]model.AnalysisReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, portfolio, report, symbols, model_used, created_at
		FROM analysis_report
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.AnalysisReport
	for rows.Next() {
		var a model.AnalysisReport
		err := rows.Scan(&a.ID, &a.JobID, &a.Portfolio, &a.Report, pq.Array(&a.Symbols), &a.ModelUsed, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		reports = append(reports, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) GetReportByID(ctx context.Context, id int64) (*model.AnalysisReport, error) {
	var a model.AnalysisReport
	err := r.db.QueryRowContext(ctx, `
		SELECT id, job_id, portfolio, report, symbols, model_used, created_at
		FROM analysis_report
		WHERE id = $1
	`, id).Scan(&a.ID, &a.JobID, &a.Portfolio, &a.Report, pq.Array(&a.Symbols), &a.ModelUsed, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *ReportRepository) GetLatestReport(ctx context.Context) (*model.AnalysisReport, error) {
	reports, err := r.GetReports(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNotFound
	}
	return &reports[0], nil
}

func (r *ReportRepository) GetReportTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_report`).Scan(&total)
	return total, err
}
