package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"stay_syncer/internal/classify"
	"stay_syncer/internal/config"
	"stay_syncer/internal/domain"
	"stay_syncer/internal/observability"
)

// SyncService drives one ingestion run: page loop over the registry feed,
// per-item area gate, status filter, dedup gate, classification and insert.
type SyncService struct {
	source    Source
	lodgings  LodgingStore
	publisher Publisher
	areaGate  *classify.AreaGate
	statuses  *classify.StatusFilter
	regions   *classify.RegionMatcher
	types     *classify.TypeResolver
	logger    *slog.Logger
	config    config.SyncConfig

	running atomic.Bool
}

func NewSyncService(
	source Source,
	lodgings LodgingStore,
	publisher Publisher,
	areaGate *classify.AreaGate,
	statuses *classify.StatusFilter,
	regions *classify.RegionMatcher,
	types *classify.TypeResolver,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		source:    source,
		lodgings:  lodgings,
		publisher: publisher,
		areaGate:  areaGate,
		statuses:  statuses,
		regions:   regions,
		types:     types,
		logger:    logger.With("source", source.ID()),
		config:    cfg,
	}
}

// Sync runs the pipeline from page 1 until the feed is exhausted or the page
// ceiling is reached, and returns the run's counters. Runs are not
// re-entrant: a second call while one is active fails with
// domain.ErrSyncInProgress. A transport failure aborts the run and discards
// the partial count (nil stats, wrapped error); per-item persistence
// failures are logged and skipped.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	if !s.running.CompareAndSwap(false, true) {
		observability.SyncRuns.WithLabelValues("busy").Inc()
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Store(false)

	startTime := time.Now()
	s.logger.Info("starting sync",
		"source_name", s.source.Name(),
		"max_pages", s.config.MaxPages,
	)

	stats := &domain.SyncStats{SourceID: s.source.ID()}

	for page := 1; page <= s.config.MaxPages; page++ {
		listings, err := s.source.FetchPage(ctx, page)
		if err != nil {
			observability.SyncRuns.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		if len(listings) == 0 {
			stats.Termination = domain.TerminationEndOfData
			break
		}

		stats.Pages++
		stats.Fetched += len(listings)
		observability.SyncPages.Inc()

		for i := range listings {
			s.processListing(ctx, listings[i], stats)
		}

		s.logger.Debug("page processed",
			"page", page,
			"items", len(listings),
			"inserted_so_far", stats.Inserted,
		)

		if page == s.config.MaxPages {
			stats.Termination = domain.TerminationPageLimit
		}
	}

	stats.Duration = time.Since(startTime)
	observability.SyncRuns.WithLabelValues("ok").Inc()

	s.logger.Info("sync completed",
		"pages", stats.Pages,
		"fetched", stats.Fetched,
		"out_of_area", stats.OutOfArea,
		"inactive", stats.Inactive,
		"duplicates", stats.Duplicates,
		"inserted", stats.Inserted,
		"errors", stats.Errors,
		"published", stats.Published,
		"termination", stats.Termination,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *SyncService) processListing(ctx context.Context, listing domain.Listing, stats *domain.SyncStats) {
	if !s.areaGate.InArea(listing) {
		stats.OutOfArea++
		observability.SyncItems.WithLabelValues("out_of_area").Inc()
		return
	}

	if !s.statuses.IsActive(listing.StatusName) {
		stats.Inactive++
		observability.SyncItems.WithLabelValues("inactive").Inc()
		s.logger.Debug("skipping inactive listing",
			"external_id", listing.ExternalID,
			"status", listing.StatusName,
		)
		return
	}

	exists, err := s.lodgings.ExistsByExternalID(ctx, listing.ExternalID)
	if err != nil {
		stats.Errors++
		observability.SyncItems.WithLabelValues("error").Inc()
		s.logger.Error("existence check failed",
			"external_id", listing.ExternalID,
			"error", err,
		)
		return
	}
	if exists {
		stats.Duplicates++
		observability.SyncItems.WithLabelValues("duplicate").Inc()
		return
	}

	lodging := s.buildLodging(listing)

	if _, err := s.lodgings.Insert(ctx, lodging); err != nil {
		// The unique constraint closes the check-then-insert race: a
		// concurrent run got there first, which is a skip, not a failure.
		if errors.Is(err, domain.ErrAlreadyExists) {
			stats.Duplicates++
			observability.SyncItems.WithLabelValues("duplicate").Inc()
			return
		}
		stats.Errors++
		observability.SyncItems.WithLabelValues("error").Inc()
		s.logger.Error("insert failed",
			"external_id", listing.ExternalID,
			"name", listing.Name,
			"error", err,
		)
		return
	}

	stats.Inserted++
	observability.SyncItems.WithLabelValues("inserted").Inc()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, lodging); err != nil {
			stats.Errors++
			s.logger.Error("publish failed",
				"external_id", lodging.ExternalID,
				"error", err,
			)
		} else {
			stats.Published++
		}
	}
}

// buildLodging assembles the persisted shape from one raw listing.
// Coordinates stay unset; the enrichment worker fills them in later.
func (s *SyncService) buildLodging(listing domain.Listing) *domain.Lodging {
	lodgingType, decidedBy := s.types.Resolve(listing)
	if decidedBy == "" {
		s.logger.Debug("lodging type defaulted",
			"external_id", listing.ExternalID,
			"name", listing.Name,
			"type", lodgingType,
		)
	}

	return &domain.Lodging{
		ExternalID: listing.ExternalID,
		Name:       listing.Name,
		Address:    listing.Address(),
		Phone:      listing.Phone,
		Region:     s.regions.Match(listing),
		Type:       lodgingType,
		Status:     domain.StatusActive,
	}
}
