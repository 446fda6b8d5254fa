// Package geo resolves postcodes to coordinates and measures distances.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"biocareer/opportunity-service/internal/cache"
	apperrors "biocareer/opportunity-service/internal/errors"
	"biocareer/opportunity-service/internal/model"
	"biocareer/opportunity-service/internal/telemetry"
)

var tracer = telemetry.GetTracer("biocareer/opportunity-service/geo")

// Geocoder resolves free-text postcodes through a postcodes.io compatible API.
// It holds no state between calls; the optional cache is an external
// intermediary that keeps successful lookups for cacheTTL.
type Geocoder struct {
	baseURL  string
	client   *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewGeocoder constructs a Geocoder. c may be nil to disable caching.
func NewGeocoder(baseURL string, client *http.Client, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *Geocoder {
	return &Geocoder{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger.Named("geocoder"),
	}
}

// postcodeResponse mirrors the postcodes.io lookup response.
type postcodeResponse struct {
	Status int `json:"status"`
	Result *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"result"`
}

// Lookup returns the coordinates of postcode, or nil when the postcode is
// empty or cannot be resolved for any reason. It makes at most one request
// and never retries.
func (g *Geocoder) Lookup(ctx context.Context, postcode string) *model.Coordinates {
	key := normalizePostcode(postcode)
	if key == "" {
		return nil
	}

	ctx, span := tracer.Start(ctx, "Geocoder.Lookup")
	defer span.End()

	if coords, ok := g.fromCache(ctx, key); ok {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return coords
	}

	coords, err := g.resolve(ctx, postcode)
	if err != nil {
		span.RecordError(err)
		if ctx.Err() == nil {
			g.logger.Warn("postcode lookup failed", zap.String("postcode", key), zap.Error(err))
		}
		return nil
	}
	span.SetAttributes(telemetry.Bool("geocode.resolved", true))

	g.toCache(ctx, key, coords)
	return coords
}

func (g *Geocoder) resolve(ctx context.Context, postcode string) (*model.Coordinates, error) {
	endpoint := fmt.Sprintf("%s/postcodes/%s", g.baseURL, url.PathEscape(strings.TrimSpace(postcode)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Internal("creating request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperrors.Unavailable("executing request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFound("postcode not found", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Unavailable(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Unavailable("reading response", err)
	}

	var parsed postcodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.Internal("decoding response", err)
	}
	if parsed.Result == nil || parsed.Result.Latitude == nil || parsed.Result.Longitude == nil {
		return nil, apperrors.NotFound("postcode has no coordinates", nil)
	}

	return &model.Coordinates{
		Latitude:  *parsed.Result.Latitude,
		Longitude: *parsed.Result.Longitude,
	}, nil
}

func (g *Geocoder) fromCache(ctx context.Context, key string) (*model.Coordinates, bool) {
	if g.cache == nil {
		return nil, false
	}
	raw, err := g.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			g.logger.Warn("geocode cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var coords model.Coordinates
	if err := json.Unmarshal([]byte(raw), &coords); err != nil {
		g.logger.Warn("geocode cache entry unreadable", zap.String("postcode", key), zap.Error(err))
		return nil, false
	}
	return &coords, true
}

func (g *Geocoder) toCache(ctx context.Context, key string, coords *model.Coordinates) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, key, string(raw), g.cacheTTL); err != nil {
		g.logger.Warn("geocode cache write failed", zap.Error(err))
	}
}

// normalizePostcode upper-cases and strips whitespace so "se1 7eh" and
// "SE17EH" share a cache entry.
func normalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}
