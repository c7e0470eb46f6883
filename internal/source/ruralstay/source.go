package ruralstay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"stay_syncer/internal/domain"
)

const (
	SourceID   = "ruralstay"
	SourceName = "Rural Lodging Registry"
)

// Config holds registry client configuration.
type Config struct {
	BaseURL        string
	ServiceKey     string
	PageSize       int
	Timeout        time.Duration
	RateLimit      int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source fetches pages from the rural-lodging open-data API.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	serviceKey     string
	pageSize       int
	limiter        *rate.Limiter
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a registry source. The portal throttles aggressive clients, so
// requests go through a client-side rate limiter.
func New(cfg Config, logger *slog.Logger) *Source {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		serviceKey:     cfg.ServiceKey,
		pageSize:       cfg.PageSize,
		limiter:        rate.NewLimiter(rate.Limit(rps), rps),
		maxAttempts:    attempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// FetchPage fetches one page of raw listings. An empty slice with a nil
// error means the feed is exhausted: the portal signals the end either with
// an empty item list or by omitting the nested containers entirely, and both
// collapse to the same result here. A non-nil error is a transport or parse
// failure and is fatal to the caller's run.
func (s *Source) FetchPage(ctx context.Context, page int) ([]domain.Listing, error) {
	u := s.pageURL(page)

	var resp *APIResponse
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.doRequest(ctx, u)
		if err == nil {
			break
		}

		if attempt == s.maxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"page", page,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if resp == nil || resp.Response == nil || resp.Response.Body == nil || resp.Response.Body.Items == nil {
		return nil, nil
	}

	items := resp.Response.Body.Items.Item

	s.logger.Debug("fetched page",
		"page", page,
		"items", len(items),
		"total_count", resp.Response.Body.TotalCount,
		"result_code", resp.Response.Header.ResultCode,
	)

	return s.transform(items), nil
}

func (s *Source) pageURL(page int) string {
	q := url.Values{}
	q.Set("serviceKey", s.serviceKey)
	q.Set("numOfRows", strconv.Itoa(s.pageSize))
	q.Set("pageNo", strconv.Itoa(page))
	q.Set("type", "json")
	return s.baseURL + "?" + q.Encode()
}

func (s *Source) doRequest(ctx context.Context, u string) (*APIResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "StaySyncer/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func (s *Source) transform(items []Item) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))

	for _, it := range items {
		listings = append(listings, domain.Listing{
			ExternalID:        it.ManagementNo,
			Name:              it.BusinessName,
			RoadAddress:       it.RoadAddress,
			LotAddress:        it.LotAddress,
			Phone:             it.Phone,
			RoomCount:         it.RoomCount,
			StatusName:        it.StatusName,
			CoordX:            it.CoordX,
			CoordY:            it.CoordY,
			IndustryName:      it.IndustryName,
			BusinessStateName: it.BusinessStateName,
			DetailStatusName:  it.DetailStatusName,
		})
	}

	return listings
}
