// Package feed assembles the opportunity list for a search: it geocodes the
// user postcode, fetches live listings, falls back to the curated catalogue
// and applies the facet filter.
package feed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"biocareer/opportunity-service/internal/model"
	"biocareer/opportunity-service/internal/scraper"
)

// ListingSource returns raw provider records. Implementations never fail;
// an unavailable provider yields an empty list.
type ListingSource interface {
	Search(ctx context.Context, q scraper.ListingQuery) []model.RawExternalRecord
}

// Locator resolves a postcode, returning nil when it cannot.
type Locator interface {
	Lookup(ctx context.Context, postcode string) *model.Coordinates
}

// Fallback supplies the static working set.
type Fallback interface {
	All() []model.Opportunity
}

// Service runs one search per call. It keeps no per-request state, so a
// single instance serves concurrent requests.
type Service struct {
	listings   ListingSource
	locator    Locator
	normalizer *scraper.Normalizer
	fallback   Fallback
	logger     *zap.Logger
}

// NewService constructs a Service.
func NewService(listings ListingSource, locator Locator, normalizer *scraper.Normalizer, fallback Fallback, logger *zap.Logger) *Service {
	return &Service{
		listings:   listings,
		locator:    locator,
		normalizer: normalizer,
		fallback:   fallback,
		logger:     logger.Named("feed"),
	}
}

// Search returns the filtered opportunities for q. The postcode lookup runs
// concurrently with the listing fetch. Live results are used exclusively when
// there are any, otherwise the fallback catalogue is. Total is the number of
// items after filtering.
//
// The only error is the context's, returned when ctx ends before the result
// is ready; partial results are discarded.
func (s *Service) Search(ctx context.Context, q model.SearchQuery) (model.SearchResult, error) {
	var (
		coords *model.Coordinates
		raw    []model.RawExternalRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	if q.Postcode != "" {
		g.Go(func() error {
			coords = s.locator.Lookup(gctx, q.Postcode)
			return nil
		})
	}
	g.Go(func() error {
		raw = s.fetch(gctx, q)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.SearchResult{}, err
	}

	working := make([]model.Opportunity, 0, len(raw))
	for _, r := range raw {
		working = append(working, s.normalizer.Normalize(r, coords))
	}

	source := model.SourceAdzuna
	if len(working) == 0 {
		working = s.fallback.All()
		source = model.SourceCatalogue
	}

	items := Filter(working, q)

	s.logger.Debug("search done",
		zap.String("source", source),
		zap.Int("working_set", len(working)),
		zap.Int("total", len(items)),
		zap.Bool("geocoded", coords != nil))

	return model.SearchResult{Total: len(items), Items: items}, nil
}

// fetch calls the listing source, turning a panic into an empty result so a
// faulty source cannot take the request down.
func (s *Service) fetch(ctx context.Context, q model.SearchQuery) (records []model.RawExternalRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("listing source panicked", zap.Error(fmt.Errorf("%v", r)))
			records = nil
		}
	}()
	return s.listings.Search(ctx, scraper.ListingQuery{
		What:       q.Text,
		Postcode:   q.Postcode,
		DistanceKm: q.DistanceKm,
		Page:       1,
	})
}
