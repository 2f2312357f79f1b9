package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the public catalog API.
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	// DefaultPageSize is the number of items requested per listing page.
	DefaultPageSize = 20
)

// ErrNetwork is matched by every *NetworkError.
var ErrNetwork = errors.New("catalog request failed")

// NetworkError is returned when a catalog request fails in transport or with a non-success status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s > %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNetwork) hold for any NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) retryable() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

//go:generate mockgen -source=client.go -destination=../mocks/catalog/mock_client.go -package=mock_catalog Client

// Client reads pages and item details from the catalog.
type Client interface {
	// FetchPage fetches one listing page. The cursor is empty for the first page, a decimal
	// offset, or the Next URL of a previously fetched page.
	FetchPage(ctx context.Context, cursor string) (*Page, error)
	// FetchDetail fetches one item by reference URL, name or numeric id.
	FetchDetail(ctx context.Context, ref string) (*Detail, error)
}

// Config configures an HTTPClient.
type Config struct {
	BaseURL       string
	PageSize      int
	RetryAttempts uint
	RetryDelay    time.Duration
	Timeout       time.Duration
}

// HTTPClient is the Client for the public REST API.
type HTTPClient struct {
	httpClient       *resty.Client
	pageSize         int
	maxRetryAttempts uint
	retryDelay       time.Duration
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(config Config) *HTTPClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 200 * time.Millisecond
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(config.BaseURL, "/"))
	client.SetHeader("Accept", "application/json")
	client.SetHeader("Cache-Control", "no-cache")
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}

	return &HTTPClient{
		httpClient:       client,
		pageSize:         config.PageSize,
		maxRetryAttempts: config.RetryAttempts,
		retryDelay:       config.RetryDelay,
	}
}

func (client *HTTPClient) Close() error {
	return client.httpClient.Close()
}

// PageSize returns the number of items requested per page.
func (client *HTTPClient) PageSize() int {
	return client.pageSize
}

func (client *HTTPClient) FetchPage(ctx context.Context, cursor string) (*Page, error) {
	target := cursor
	var params map[string]string
	if cursor == "" || isOffset(cursor) {
		offset := 0
		if cursor != "" {
			offset, _ = strconv.Atoi(cursor)
		}
		if offset < 0 {
			return nil, fmt.Errorf("invalid offset %d", offset)
		}
		target = "/pokemon"
		params = map[string]string{
			"limit":  strconv.Itoa(client.pageSize),
			"offset": strconv.Itoa(offset),
		}
	}

	response, err := client.get(ctx, target, params, func() any { return &listResponse{} })
	if err != nil {
		return nil, err
	}
	body, ok := response.Result().(*listResponse)
	if !ok || body == nil {
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("unexpected response body: %s", response.String())}
	}
	return body.toPage(cursor), nil
}

func (client *HTTPClient) FetchDetail(ctx context.Context, ref string) (*Detail, error) {
	target := ref
	if !isAbsoluteURL(ref) {
		target = "/pokemon/" + url.PathEscape(strings.ToLower(strings.TrimSpace(ref)))
	}

	response, err := client.get(ctx, target, nil, func() any { return &detailResponse{} })
	if err != nil {
		return nil, err
	}
	body, ok := response.Result().(*detailResponse)
	if !ok || body == nil {
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("unexpected response body: %s", response.String())}
	}
	return body.toDetail(), nil
}

// get issues a GET for target, retrying transport failures, 5xx and 429 when retries are configured.
func (client *HTTPClient) get(ctx context.Context, target string, params map[string]string, newResult func() any) (*resty.Response, error) {
	attempts := client.maxRetryAttempts + 1

	var response *resty.Response
	err := retry.Do(
		func() error {
			res, err := client.httpClient.R().
				SetContext(ctx).
				SetQueryParams(params).
				SetResult(newResult()).
				Get(target)
			if err != nil {
				return &NetworkError{URL: target, Err: fmt.Errorf("httpClient.Get > %w", err)}
			}
			if !res.IsSuccess() {
				return &NetworkError{URL: target, StatusCode: res.StatusCode()}
			}
			response = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(client.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var networkErr *NetworkError
			return errors.As(err, &networkErr) && networkErr.retryable()
		}),
		retry.OnRetry(func(n uint, err error) {
			if n+1 >= attempts {
				return
			}
			slog.Default().Warn("retrying catalog request",
				slog.String("url", target),
				slog.Uint64("attempt", uint64(n+2)),
				slog.Any("error", err),
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	slog.Default().Debug("catalog response",
		slog.String("url", target),
		slog.Int("status", response.StatusCode()),
	)
	return response, nil
}

func isOffset(cursor string) bool {
	_, err := strconv.Atoi(cursor)
	return err == nil
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
