package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jansankalp/grievance-service/internal/domain"
)

// DepartmentRepository resolves routing departments by category name.
type DepartmentRepository interface {
	Create(ctx context.Context, department *domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	GetByName(ctx context.Context, name string) (*domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository instantiates repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, department *domain.Department) error {
	const query = `
        INSERT INTO departments (name) VALUES ($1)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, department.Name).Scan(&department.ID, &department.CreatedAt)
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	const query = `SELECT id, name, created_at FROM departments WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	const query = `SELECT id, name, created_at FROM departments WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *departmentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Department, error) {
	var department domain.Department
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&department.ID,
		&department.Name,
		&department.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &department, nil
}
