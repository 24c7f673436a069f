// Package openmeteo fetches daily forecasts from the Open-Meteo API.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/couchcryptid/weather-flat-etl/internal/config"
	"github.com/couchcryptid/weather-flat-etl/internal/domain"
)

// dailyParams selects the three daily metrics the flat table needs.
const dailyParams = "temperature_2m_max,temperature_2m_min,precipitation_sum"

// Client calls the Open-Meteo daily forecast endpoint.
// It implements pipeline.ForecastSource.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	lat, lon     float64
	forecastDays int
	pastDays     int
	logger       *slog.Logger
}

// NewClient creates an Open-Meteo client for the configured station window.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:      cfg.OpenMeteoBaseURL,
		httpClient:   &http.Client{Timeout: cfg.OpenMeteoTimeout},
		lat:          cfg.StationLat,
		lon:          cfg.StationLon,
		forecastDays: cfg.ForecastDays,
		pastDays:     cfg.PastDays,
		logger:       logger,
	}
}

// FetchForecast requests the daily window and returns one raw forecast per
// day on the time axis. An empty daily payload is an error: it means the
// coordinates or parameters are wrong, not that there is no forecast.
func (c *Client) FetchForecast(ctx context.Context) ([]domain.RawForecast, error) {
	params := url.Values{
		"latitude":      {formatCoord(c.lat)},
		"longitude":     {formatCoord(c.lon)},
		"daily":         {dailyParams},
		"forecast_days": {strconv.Itoa(c.forecastDays)},
		"past_days":     {strconv.Itoa(c.pastDays)},
		"timezone":      {"America/Toronto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode open-meteo response: %w", err)
	}
	if len(payload.Daily.Time) == 0 {
		return nil, errors.New("open-meteo returned no daily data")
	}

	records := make([]domain.RawForecast, 0, len(payload.Daily.Time))
	for i, day := range payload.Daily.Time {
		records = append(records, domain.RawForecast{
			Date:     day,
			TmaxC:    at(payload.Daily.TemperatureMax, i),
			TminC:    at(payload.Daily.TemperatureMin, i),
			PrecipMM: at(payload.Daily.PrecipitationSum, i),
		})
	}

	c.logger.Debug("open-meteo fetch complete",
		"days", len(records), "lat", c.lat, "lon", c.lon)
	return records, nil
}

// at guards against metric arrays shorter than the time axis.
func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Open-Meteo API response types. Daily metrics arrive as parallel arrays
// indexed by the time axis; missing values are JSON nulls.

type response struct {
	Daily daily `json:"daily"`
}

type daily struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}
