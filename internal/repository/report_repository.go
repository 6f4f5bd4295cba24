package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jansankalp/grievance-service/internal/domain"
)

// ReportFilter captures listing parameters.
type ReportFilter struct {
	AuthorID     *string
	AssignedToID *string
	Statuses     []domain.ReportStatus
	Category     *string
	Limit        int
	Offset       int
}

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	UpdateClassification(ctx context.Context, id, category string, severity int) error
	Assign(ctx context.Context, id, officerID string) (*domain.Report, error)
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Report, error)
	ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
	ListStalePending(ctx context.Context, olderThan time.Time, minSeverity int) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, ticket_id, title, description, category, severity, status,
               latitude, longitude, image_url, author_id, assigned_to_id, department_id,
               state, district, city, ward, ai_verification, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (ticket_id, title, description, category, severity, status, latitude, longitude,
            image_url, author_id, state, district, city, ward)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.TicketID,
		report.Title,
		report.Description,
		report.Category,
		report.Severity,
		report.Status,
		report.Latitude,
		report.Longitude,
		report.ImageURL,
		report.AuthorID,
		report.State,
		report.District,
		report.City,
		report.Ward,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) Update(ctx context.Context, report *domain.Report) error {
	const query = `
        UPDATE reports SET category=$1, severity=$2, status=$3, assigned_to_id=$4, department_id=$5,
            ai_verification=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		report.Category,
		report.Severity,
		report.Status,
		report.AssignedToID,
		report.DepartmentID,
		report.AIVerification,
		report.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateClassification persists an advisory classification result after the
// report already exists; it never touches status or assignment.
func (r *reportRepository) UpdateClassification(ctx context.Context, id, category string, severity int) error {
	const query = `
        UPDATE reports SET category=$1, severity=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, category, severity, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Assign binds a handler and moves the report to IN_PROGRESS in one statement.
func (r *reportRepository) Assign(ctx context.Context, id, officerID string) (*domain.Report, error) {
	const query = `
        UPDATE reports SET assigned_to_id=$1, status=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING ` + reportColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, officerID, domain.ReportStatusInProgress, id))
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *reportRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE ticket_id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, ticketID))
}

func (r *reportRepository) ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.AuthorID != nil {
		query += ` AND author_id=$` + itoa(idx)
		args = append(args, *filter.AuthorID)
		idx++
	}
	if filter.AssignedToID != nil {
		query += ` AND assigned_to_id=$` + itoa(idx)
		args = append(args, *filter.AssignedToID)
		idx++
	}
	if len(filter.Statuses) > 0 {
		query += ` AND status=ANY($` + itoa(idx) + `)`
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		idx++
	}
	if filter.Category != nil {
		query += ` AND category=$` + itoa(idx)
		args = append(args, *filter.Category)
		idx++
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT $` + itoa(idx)
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		query += ` OFFSET $` + itoa(idx)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *reportRepository) ListStalePending(ctx context.Context, olderThan time.Time, minSeverity int) ([]domain.Report, error) {
	const query = `SELECT ` + reportColumns + `
        FROM reports WHERE status=$1 AND severity>=$2 AND created_at<$3
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, domain.ReportStatusPending, minSeverity, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *reportRepository) scanOne(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.TicketID,
		&report.Title,
		&report.Description,
		&report.Category,
		&report.Severity,
		&report.Status,
		&report.Latitude,
		&report.Longitude,
		&report.ImageURL,
		&report.AuthorID,
		&report.AssignedToID,
		&report.DepartmentID,
		&report.State,
		&report.District,
		&report.City,
		&report.Ward,
		&report.AIVerification,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) scanMany(rows pgx.Rows) ([]domain.Report, error) {
	reports := []domain.Report{}
	for rows.Next() {
		report, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
