package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"stay_syncer/internal/domain"
)

type LodgingStore interface {
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
	Insert(ctx context.Context, lodging *domain.Lodging) (int64, error)
	ListByRegion(ctx context.Context, region string, offset, limit int) ([]domain.Lodging, error)
	CountByRegion(ctx context.Context, region string) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Lodging, error)
	IncrementViews(ctx context.Context, id int64) error
}

type Source interface {
	ID() string
	Name() string
	// FetchPage returns the raw listings of one page; an empty slice with a
	// nil error signals end of data.
	FetchPage(ctx context.Context, page int) ([]domain.Listing, error)
}

type Publisher interface {
	Publish(ctx context.Context, lodging *domain.Lodging) error
	Close() error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
