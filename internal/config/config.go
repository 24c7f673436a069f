package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Historical source.
	ECCCCSVPath string

	// Forecast source.
	StationLat       float64
	StationLon       float64
	ForecastDays     int
	PastDays         int
	OpenMeteoBaseURL string
	OpenMeteoTimeout time.Duration

	// Export.
	OutputPath        string
	OverlapSampleSize int

	// Prediction system forwarder (HTTP hook).
	PredictionURL     string
	PredictionEnabled bool
	PredictionTimeout time.Duration

	// Kafka export hook.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool

	// Observability.
	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	lat, err := parseFloat("STATION_LAT", 43.79)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("STATION_LON", -79.35)
	if err != nil {
		return nil, err
	}
	forecastDays, err := parseInt("FORECAST_DAYS", 16)
	if err != nil {
		return nil, err
	}
	pastDays, err := parseInt("PAST_DAYS", 5)
	if err != nil {
		return nil, err
	}
	sampleSize, err := parseInt("OVERLAP_SAMPLE_SIZE", 5)
	if err != nil {
		return nil, err
	}
	openMeteoTimeout, err := parseDuration("OPENMETEO_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	predictionTimeout, err := parseDuration("PREDICTION_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ECCCCSVPath: envOrDefault("ECCC_CSV_PATH", "data/eccc_station.csv"),

		StationLat:       lat,
		StationLon:       lon,
		ForecastDays:     forecastDays,
		PastDays:         pastDays,
		OpenMeteoBaseURL: envOrDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		OpenMeteoTimeout: openMeteoTimeout,

		OutputPath:        envOrDefault("OUTPUT_PATH", "data/flat_weather.csv"),
		OverlapSampleSize: sampleSize,

		PredictionURL:     envOrDefault("PREDICTION_URL", "http://prediction-system/api/v1/data"),
		PredictionEnabled: os.Getenv("PREDICTION_ENABLED") == "true",
		PredictionTimeout: predictionTimeout,

		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "flat-weather-table"),
		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",

		MetricsAddr: os.Getenv("METRICS_ADDR"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.ECCCCSVPath == "" {
		return nil, errors.New("ECCC_CSV_PATH is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}
	if cfg.StationLat < -90 || cfg.StationLat > 90 {
		return nil, errors.New("STATION_LAT must be between -90 and 90")
	}
	if cfg.StationLon < -180 || cfg.StationLon > 180 {
		return nil, errors.New("STATION_LON must be between -180 and 180")
	}
	if cfg.ForecastDays < 1 {
		return nil, errors.New("FORECAST_DAYS must be at least 1")
	}
	if cfg.PastDays < 0 {
		return nil, errors.New("PAST_DAYS must not be negative")
	}
	if cfg.OverlapSampleSize < 0 {
		return nil, errors.New("OVERLAP_SAMPLE_SIZE must not be negative")
	}
	if cfg.PredictionEnabled && cfg.PredictionURL == "" {
		return nil, errors.New("PREDICTION_ENABLED is true but PREDICTION_URL is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is not set")
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
