package service

import (
	"context"
	"fmt"
	"log/slog"

	"stay_syncer/internal/domain"
)

// LodgingService serves the stored-record read path for the thin HTTP layer.
type LodgingService struct {
	lodgings  LodgingStore
	txManager TransactionManager
	logger    *slog.Logger
}

func NewLodgingService(lodgings LodgingStore, txManager TransactionManager, logger *slog.Logger) *LodgingService {
	return &LodgingService{
		lodgings:  lodgings,
		txManager: txManager,
		logger:    logger,
	}
}

// List returns one page of lodgings plus the total count for the region
// filter. page is 1-based.
func (s *LodgingService) List(ctx context.Context, region string, page, size int) ([]domain.Lodging, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	total, err := s.lodgings.CountByRegion(ctx, region)
	if err != nil {
		return nil, 0, fmt.Errorf("count lodgings: %w", err)
	}

	lodgings, err := s.lodgings.ListByRegion(ctx, region, (page-1)*size, size)
	if err != nil {
		return nil, 0, fmt.Errorf("list lodgings: %w", err)
	}

	return lodgings, total, nil
}

// Get fetches one lodging and bumps its view counter in the same
// transaction, so the returned record carries the count the viewer caused.
func (s *LodgingService) Get(ctx context.Context, id int64) (*domain.Lodging, error) {
	var lodging *domain.Lodging

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.lodgings.IncrementViews(txCtx, id); err != nil {
			return err
		}
		var err error
		lodging, err = s.lodgings.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return lodging, nil
}
