// Package places wraps the Outscraper-compatible Google Maps API: text search
// plus per-place reviews. It returns normalized domain records and maps
// upstream failures onto the adapter error taxonomy (UpstreamUnavailable,
// AuthRejected, QuotaExceeded). The adapter holds no cross-call state and
// never caches: every call spends billed quota.
package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"reviewhunter/internal/config"
	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/pkg/errcodes"
	"reviewhunter/pkg/httpx"
	"reviewhunter/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	searchPath  = "/maps/search-v3"
	reviewsPath = "/maps/reviews-v3"

	apiKeyHeader = "X-API-KEY"
)

// budget is an optional local spend guard consulted before every upstream
// call. A nil budget means unlimited.
type budget interface {
	Spend(ctx context.Context, calls int) error
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	region     string
	budget     budget
}

type Option func(*Client)

// WithBudget installs a local quota guard.
func WithBudget(b budget) Option {
	return func(c *Client) {
		c.budget = b
	}
}

// WithHTTPClient replaces the assembled HTTP client, used by tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(cfg config.Places, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: httpx.NewAPIKeyRoundTripper(
				httpx.NewLoggingRoundTripper(
					http.DefaultTransport,
					httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
					httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
				),
				apiKeyHeader,
				func() string { return cfg.APIKey },
			),
		},
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		region:   cfg.Region,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Search runs a text search for an industry in a city and returns normalized
// business records in upstream order. Review-derived fields are left zeroed,
// they are filled in by a later Reviews pass.
func (c *Client) Search(ctx context.Context, industry, city string, limit int) ([]entity.Business, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s in %s", industry, city))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("async", "false")
	c.setLocale(params)

	var pages [][]searchPlace
	if err := c.get(ctx, searchPath, params, &pages); err != nil {
		return nil, fmt.Errorf("search %q: %w", params.Get("query"), err)
	}

	var businesses []entity.Business

	for _, page := range pages {
		for _, place := range page {
			businesses = append(businesses, newBusiness(place, industry))
		}
	}

	return businesses, nil
}

// Reviews fetches up to limit newest reviews for a place.
func (c *Client) Reviews(ctx context.Context, placeID string, limit int) ([]entity.Review, error) {
	params := url.Values{}
	params.Set("query", placeID)
	params.Set("reviewsLimit", strconv.Itoa(limit))
	params.Set("sort", "newest")
	params.Set("async", "false")
	c.setLocale(params)

	var pages []reviewsPlace
	if err := c.get(ctx, reviewsPath, params, &pages); err != nil {
		return nil, fmt.Errorf("reviews %q: %w", placeID, err)
	}

	var reviews []entity.Review

	for _, page := range pages {
		for _, data := range page.ReviewsData {
			reviews = append(reviews, newReview(data))
		}
	}

	return reviews, nil
}

func (c *Client) setLocale(params url.Values) {
	if c.language != "" {
		params.Set("language", c.language)
	}
	if c.region != "" {
		params.Set("region", c.region)
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	if c.budget != nil {
		if err := c.budget.Spend(ctx, 1); err != nil {
			return fmt.Errorf("budget.Spend: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.WrapError(err, errcodes.UpstreamUnavailable, "places api unreachable")
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return domain.WrapError(err, errcodes.UpstreamUnavailable, "malformed places api response")
	}

	return nil
}

func statusError(statusCode int) error {
	switch {
	case statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return domain.NewError(errcodes.AuthRejected, "places api key rejected")
	case statusCode == http.StatusPaymentRequired || statusCode == http.StatusTooManyRequests:
		return domain.NewError(errcodes.QuotaExceeded, "places api quota exceeded")
	case statusCode >= http.StatusInternalServerError:
		return domain.NewError(errcodes.UpstreamUnavailable,
			fmt.Sprintf("places api returned status %d", statusCode))
	default:
		return domain.NewError(errcodes.InternalServerError,
			fmt.Sprintf("unexpected places api status %d", statusCode))
	}
}

func newBusiness(place searchPlace, industry string) entity.Business {
	business := entity.Business{
		PlaceID:     place.PlaceID,
		Name:        place.Name,
		Industry:    industry,
		Address:     place.address(),
		Phone:       place.Phone,
		Website:     place.website(),
		MapsURL:     place.mapsURL(),
		ReviewCount: place.reviewCount(),
	}

	// The upstream reports rating 0 for businesses that were never rated.
	if place.Rating > 0 {
		rating := place.Rating
		business.Rating = &rating
	}

	return business
}

func newReview(data reviewData) entity.Review {
	review := entity.Review{
		Author:     data.AuthorTitle,
		Rating:     int(data.ReviewRating),
		Text:       data.ReviewText,
		OwnerReply: data.ownerReply(),
	}

	for _, raw := range []string{data.ReviewDatetimeUTC, data.ReviewDate} {
		if raw == "" {
			continue
		}
		if postedAt, err := time.Parse(time.RFC3339, raw); err == nil {
			review.PostedAt = postedAt
			break
		}
		if postedAt, err := time.Parse("01/02/2006 15:04:05", raw); err == nil {
			review.PostedAt = postedAt
			break
		}
	}

	return review
}
