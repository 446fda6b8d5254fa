// Package scraper fetches job listings from Adzuna and normalizes them into
// Opportunity records.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	apperrors "biocareer/opportunity-service/internal/errors"
	"biocareer/opportunity-service/internal/model"
	"biocareer/opportunity-service/internal/telemetry"
)

const (
	DefaultBaseURL        = "https://api.adzuna.com/v1/api/jobs"
	DefaultCountry        = "gb"
	DefaultDistanceKm     = 25
	DefaultResultsPerPage = 20
	userAgent             = "BioCareerConnect/1.0"
	maxErrorBody          = 4 << 10
)

var tracer = telemetry.GetTracer("biocareer/opportunity-service/scraper")

// ListingQuery is what the fetcher sends to the provider.
type ListingQuery struct {
	What           string
	Postcode       string
	DistanceKm     int // search radius, only sent with Postcode
	Page           int // always 1 unless set
	ResultsPerPage int
}

// AdzunaFetcher fetches job offers from the Adzuna public API.
// If AppID or AppKey is empty, Search returns an empty list without touching
// the network: that is the offline mode, not an error.
type AdzunaFetcher struct {
	AppID          string
	AppKey         string
	Country        string // "gb", "us", "fr", …
	BaseURL        string
	ResultsPerPage int
	client         *http.Client
	logger         *zap.Logger
}

// NewAdzunaFetcher constructs a fetcher with a shared HTTP client.
func NewAdzunaFetcher(appID, appKey, country, baseURL string, resultsPerPage int, client *http.Client, logger *zap.Logger) *AdzunaFetcher {
	if country == "" {
		country = DefaultCountry
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if resultsPerPage < 1 {
		resultsPerPage = DefaultResultsPerPage
	}
	return &AdzunaFetcher{
		AppID:          appID,
		AppKey:         appKey,
		Country:        country,
		BaseURL:        baseURL,
		ResultsPerPage: resultsPerPage,
		client:         client,
		logger:         logger.Named("fetcher"),
	}
}

// Enabled reports whether credentials are configured.
func (f *AdzunaFetcher) Enabled() bool {
	return f.AppID != "" && f.AppKey != ""
}

// adzunaResponse mirrors the top-level Adzuna JSON response. Results is kept
// raw so one malformed record does not discard the whole page.
type adzunaResponse struct {
	Results json.RawMessage `json:"results"`
	Count   int             `json:"count"`
}

// Search runs one page of the provider search and returns the raw records in
// provider order. Every failure is logged and degrades to an empty list.
func (f *AdzunaFetcher) Search(ctx context.Context, q ListingQuery) []model.RawExternalRecord {
	if !f.Enabled() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "AdzunaFetcher.Search")
	defer span.End()

	records, err := f.fetchPage(ctx, q)
	if err != nil {
		span.RecordError(err)
		if ctx.Err() == nil {
			f.logger.Warn("adzuna search failed, continuing without live results", zap.Error(err))
		}
		return nil
	}

	span.SetAttributes(telemetry.Int("adzuna.results", len(records)))
	return records
}

// BuildURL returns the request URL for q, credentials included.
func (f *AdzunaFetcher) BuildURL(q ListingQuery) string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.ResultsPerPage
	if perPage < 1 {
		perPage = f.ResultsPerPage
	}

	endpoint := fmt.Sprintf("%s/%s/search/%d", f.BaseURL, f.Country, page)

	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	params.Set("content-type", "application/json")
	params.Set("format", "json")
	if q.What != "" {
		params.Set("what", q.What)
	}
	if q.Postcode != "" {
		distance := q.DistanceKm
		if distance <= 0 {
			distance = DefaultDistanceKm
		}
		params.Set("where", q.Postcode)
		params.Set("distance", strconv.Itoa(distance))
	}

	return endpoint + "?" + params.Encode()
}

func (f *AdzunaFetcher) fetchPage(ctx context.Context, q ListingQuery) ([]model.RawExternalRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BuildURL(q), nil)
	if err != nil {
		return nil, apperrors.Internal("creating request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Unavailable("http GET", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Unavailable("read body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Error("adzuna API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, maxErrorBody)))
		return nil, apperrors.Unavailable(fmt.Sprintf("adzuna returned %d", resp.StatusCode), nil)
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, apperrors.Internal("json unmarshal", err)
	}

	trimmed := bytes.TrimSpace(apiResp.Results)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, apperrors.Internal("response has no results array", nil)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, apperrors.Internal("results is not an array", err)
	}

	results := make([]model.RawExternalRecord, 0, len(items))
	for i, item := range items {
		var rec model.RawExternalRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			f.logger.Warn("skipping undecodable listing", zap.Int("index", i), zap.Error(err))
			continue
		}
		results = append(results, rec)
	}

	f.logger.Debug("adzuna search done",
		zap.Int("count", apiResp.Count),
		zap.Int("returned", len(results)))

	return results, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
