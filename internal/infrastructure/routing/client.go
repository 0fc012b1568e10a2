package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/expoflow-platform/logistics-service/internal/domain"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
	"github.com/expoflow-platform/logistics-service/pkg/metrics"
	"github.com/expoflow-platform/logistics-service/pkg/resilience"
)

const collaboratorName = "routing"

// Config holds routing client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns default routing client configuration
func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

type resolveRequest struct {
	OriginCity    string `json:"originCity"`
	OriginCountry string `json:"originCountry"`
	DestCity      string `json:"destCity"`
	DestCountry   string `json:"destCountry"`
}

type resolveResponse struct {
	DistanceKm    float64 `json:"distanceKm"`
	DurationHours float64 `json:"durationHours"`
}

// Client calls the external routing service to resolve distances and
// driving durations between cities. Implements domain.RouteResolver.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	retry      *resilience.RetryConfig
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

// NewClient creates a new routing client
func NewClient(config *Config, m *metrics.Metrics, logger *logging.Logger) *Client {
	retry := resilience.DefaultRetryConfig()
	retry.RetryableErrors = isTransient

	return &Client{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig(collaboratorName), logger.Logger),
		retry:      retry,
		metrics:    m,
		logger:     logger.WithComponent("routing-client"),
	}
}

// Resolve returns the road distance and duration between two cities
func (c *Client) Resolve(ctx context.Context, originCity, originCountry, destCity, destCountry string) (*domain.Route, error) {
	start := time.Now()

	route, err := resilience.RetryWithResult(ctx, c.retry, func() (*domain.Route, error) {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doResolve(ctx, resolveRequest{
				OriginCity:    originCity,
				OriginCountry: originCountry,
				DestCity:      destCity,
				DestCountry:   destCountry,
			})
		})
		if err != nil {
			return nil, err
		}
		return result.(*domain.Route), nil
	})

	if c.metrics != nil {
		c.metrics.ObserveExternalCall(collaboratorName, err, time.Since(start))
	}
	if err != nil {
		c.logger.WithContext(ctx).Error("Route resolution failed",
			"originCity", originCity,
			"destCity", destCity,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("resolve route %s -> %s: %w", originCity, destCity, err)
	}

	return route, nil
}

func (c *Client) doResolve(ctx context.Context, reqBody resolveRequest) (*domain.Route, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/api/v1/routes/resolve"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &transientError{err: fmt.Errorf("routing service returned %d: %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("routing service returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}

	return &domain.Route{
		DistanceKm:    decoded.DistanceKm,
		DurationHours: decoded.DurationHours,
	}, nil
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
