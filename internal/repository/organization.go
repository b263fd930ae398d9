package repository

import (
	"context"
	"errors"

	"github.com/helperly/helperly/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrgRepository struct {
	db dbtx
}

func NewOrgRepository(pool *pgxpool.Pool) *OrgRepository {
	return &OrgRepository{db: pool}
}

func (r *OrgRepository) Create(ctx context.Context, o *domain.Organization) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`,
		o.ID, o.Name, o.CreatedAt,
	)
	return err
}

func (r *OrgRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *OrgRepository) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	return r.getWhere(ctx, `name = $1`, name)
}

func (r *OrgRepository) getWhere(ctx context.Context, cond string, arg any) (*domain.Organization, error) {
	var o domain.Organization
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM organizations WHERE `+cond, arg,
	).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrgRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM organizations ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, &o)
	}
	return orgs, rows.Err()
}
