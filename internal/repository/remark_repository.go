package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jansankalp/grievance-service/internal/domain"
)

// RemarkRepository stores the append-only handler notes for a report.
type RemarkRepository interface {
	Create(ctx context.Context, remark *domain.Remark) error
	ListByReport(ctx context.Context, reportID string) ([]domain.Remark, error)
}

type remarkRepository struct {
	pool *pgxpool.Pool
}

// NewRemarkRepository instantiates repository.
func NewRemarkRepository(pool *pgxpool.Pool) RemarkRepository {
	return &remarkRepository{pool: pool}
}

func (r *remarkRepository) Create(ctx context.Context, remark *domain.Remark) error {
	const query = `
        INSERT INTO remarks (report_id, text, author_name, author_role, image_url)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		remark.ReportID,
		remark.Text,
		remark.AuthorName,
		remark.AuthorRole,
		remark.ImageURL,
	).Scan(&remark.ID, &remark.CreatedAt)
}

func (r *remarkRepository) ListByReport(ctx context.Context, reportID string) ([]domain.Remark, error) {
	const query = `
        SELECT id, report_id, text, author_name, author_role, image_url, created_at
        FROM remarks WHERE report_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	remarks := []domain.Remark{}
	for rows.Next() {
		var remark domain.Remark
		if err := rows.Scan(
			&remark.ID,
			&remark.ReportID,
			&remark.Text,
			&remark.AuthorName,
			&remark.AuthorRole,
			&remark.ImageURL,
			&remark.CreatedAt,
		); err != nil {
			return nil, err
		}
		remarks = append(remarks, remark)
	}
	return remarks, rows.Err()
}
