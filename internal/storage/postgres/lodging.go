package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"stay_syncer/internal/domain"
)

// pq error code for unique_violation.
const uniqueViolation = "23505"

type LodgingStore struct {
	db *sqlx.DB
}

func NewLodgingStore(db *sqlx.DB) *LodgingStore {
	return &LodgingStore{db: db}
}

// ExistsByExternalID reports whether a lodging with the registry management
// number is already stored. The check is advisory: concurrent runs race on
// it, and the UNIQUE constraint behind Insert is the authoritative guard.
func (s *LodgingStore) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM lodgings WHERE external_id = $1)",
		externalID,
	)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Insert stores a new lodging. A unique violation on external_id is mapped
// to domain.ErrAlreadyExists so callers can treat it as "already present"
// rather than a failure.
func (s *LodgingStore) Insert(ctx context.Context, lodging *domain.Lodging) (int64, error) {
	query := `
		INSERT INTO lodgings (
			external_id, name, address, phone, region, lodging_type, status,
			price_min, price_max, latitude, longitude, thumbnail_url, recommend_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		lodging.ExternalID,
		lodging.Name,
		lodging.Address,
		lodging.Phone,
		lodging.Region,
		lodging.Type,
		lodging.Status,
		lodging.PriceMin,
		lodging.PriceMax,
		lodging.Latitude,
		lodging.Longitude,
		lodging.ThumbnailURL,
		lodging.RecommendReason,
	).Scan(&id)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, domain.ErrAlreadyExists
		}
		return 0, err
	}

	return id, nil
}

// ListByRegion returns a page of lodgings, newest first. An empty region
// lists all regions.
func (s *LodgingStore) ListByRegion(ctx context.Context, region string, offset, limit int) ([]domain.Lodging, error) {
	query := `
		SELECT id, external_id, name, address, phone, region, lodging_type, status,
		       price_min, price_max, latitude, longitude, thumbnail_url, recommend_reason,
		       view_count, created_at, updated_at
		FROM lodgings
		WHERE ($1 = '' OR region = $1)
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`

	var lodgings []domain.Lodging
	if err := s.db.SelectContext(ctx, &lodgings, query, region, offset, limit); err != nil {
		return nil, err
	}
	return lodgings, nil
}

// CountByRegion returns the total number of stored lodgings, optionally
// restricted to one region.
func (s *LodgingStore) CountByRegion(ctx context.Context, region string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM lodgings WHERE ($1 = '' OR region = $1)",
		region,
	)
	return count, err
}

// GetByID fetches a single lodging.
func (s *LodgingStore) GetByID(ctx context.Context, id int64) (*domain.Lodging, error) {
	query := `
		SELECT id, external_id, name, address, phone, region, lodging_type, status,
		       price_min, price_max, latitude, longitude, thumbnail_url, recommend_reason,
		       view_count, created_at, updated_at
		FROM lodgings
		WHERE id = $1`

	var lodging domain.Lodging
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &lodging, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lodging, nil
}

// IncrementViews bumps the view counter. Runs inside the ambient transaction
// when one is on the context.
func (s *LodgingStore) IncrementViews(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE lodgings SET view_count = view_count + 1 WHERE id = $1",
		id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
