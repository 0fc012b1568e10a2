package staffing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/expoflow-platform/logistics-service/internal/domain"
	"github.com/expoflow-platform/logistics-service/pkg/logging"
	"github.com/expoflow-platform/logistics-service/pkg/metrics"
	"github.com/expoflow-platform/logistics-service/pkg/resilience"
)

const collaboratorName = "staffing"

// Config holds staffing client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns default staffing client configuration
func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

type recommendRequest struct {
	ArtworkCount    int     `json:"artworkCount"`
	TotalVolumeM3   float64 `json:"totalVolumeM3"`
	DistanceKm      float64 `json:"distanceKm"`
	DestCountryCode string  `json:"destCountryCode"`
}

// Client calls the external team-recommendation service to size the
// transport and installation crew for a flow. Implements
// domain.StaffingPlanner.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

// NewClient creates a new staffing client
func NewClient(config *Config, m *metrics.Metrics, logger *logging.Logger) *Client {
	return &Client{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig(collaboratorName), logger.Logger),
		metrics:    m,
		logger:     logger.WithComponent("staffing-client"),
	}
}

// Recommend returns a crew recommendation for the given flow shape
func (c *Client) Recommend(ctx context.Context, artworkCount int, totalVolumeM3, distanceKm float64, destCountryCode string) (*domain.StaffingRecommendation, error) {
	start := time.Now()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRecommend(ctx, recommendRequest{
			ArtworkCount:    artworkCount,
			TotalVolumeM3:   totalVolumeM3,
			DistanceKm:      distanceKm,
			DestCountryCode: destCountryCode,
		})
	})

	if c.metrics != nil {
		c.metrics.ObserveExternalCall(collaboratorName, err, time.Since(start))
	}
	if err != nil {
		c.logger.WithContext(ctx).Error("Staffing recommendation failed",
			"artworkCount", artworkCount,
			"destCountryCode", destCountryCode,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("recommend staffing: %w", err)
	}

	return result.(*domain.StaffingRecommendation), nil
}

func (c *Client) doRecommend(ctx context.Context, reqBody recommendRequest) (*domain.StaffingRecommendation, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/api/v1/teams/recommend"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("staffing service returned %d: %s", resp.StatusCode, string(body))
	}

	var recommendation domain.StaffingRecommendation
	if err := json.NewDecoder(resp.Body).Decode(&recommendation); err != nil {
		return nil, fmt.Errorf("decode staffing response: %w", err)
	}

	return &recommendation, nil
}
