// Command etl runs the full ECCC + Open-Meteo pipeline once: fetch both
// sources, normalize, merge into the 10-field flat table, persist it as CSV,
// and forward it to any enabled downstream hooks.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-flat-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-flat-etl/internal/adapter/eccc"
	httpadapter "github.com/couchcryptid/weather-flat-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-flat-etl/internal/adapter/kafka"
	"github.com/couchcryptid/weather-flat-etl/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-flat-etl/internal/adapter/prediction"
	"github.com/couchcryptid/weather-flat-etl/internal/config"
	"github.com/couchcryptid/weather-flat-etl/internal/domain"
	"github.com/couchcryptid/weather-flat-etl/internal/observability"
	"github.com/couchcryptid/weather-flat-etl/internal/pipeline"
)

func main() {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// applyFlags lets the command line override env-sourced settings, mirroring
// the knobs operators reach for most often.
func applyFlags(cfg *config.Config) {
	flag.StringVar(&cfg.ECCCCSVPath, "csv", cfg.ECCCCSVPath, "path to the ECCC daily CSV file")
	flag.Float64Var(&cfg.StationLat, "lat", cfg.StationLat, "station latitude")
	flag.Float64Var(&cfg.StationLon, "lon", cfg.StationLon, "station longitude")
	flag.IntVar(&cfg.ForecastDays, "days", cfg.ForecastDays, "forecast horizon in days")
	flag.IntVar(&cfg.PastDays, "past-days", cfg.PastDays, "past days included in the forecast window")
	flag.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "output CSV path")
	flag.Parse()
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	historical := eccc.NewReader(cfg.ECCCCSVPath, logger)
	forecast := openmeteo.NewClient(cfg, logger)
	writer := csvfile.NewWriter(cfg.OutputPath, logger)

	var hooks []pipeline.Hook
	if cfg.KafkaEnabled {
		kw := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := kw.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		hooks = append(hooks, kw)
		logger.Info("kafka export enabled", "topic", cfg.KafkaSinkTopic)
	}
	if cfg.PredictionEnabled {
		hooks = append(hooks, prediction.NewClient(cfg, logger))
		logger.Info("prediction export enabled", "url", cfg.PredictionURL)
	}

	if cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(cfg.MetricsAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	p := pipeline.New(historical, forecast, writer, hooks, logger, metrics, cfg.OverlapSampleSize)

	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}
	report(logger, summary)
	return nil
}

// report logs the diagnostics summary, including the overlap sample for
// manual inspection.
func report(logger *slog.Logger, s domain.Summary) {
	logger.Info("run complete",
		"total_rows", s.TotalRows,
		"distinct_dates", s.DistinctDates,
		"forecast_rows", s.ForecastRows,
	)
	for _, row := range s.OverlapSample {
		logger.Info("overlap sample row",
			"date", row.Date.String(),
			"obs_tmax_c", metricValue(row.ObsTmaxC),
			"obs_tmin_c", metricValue(row.ObsTminC),
			"obs_precip_mm", metricValue(row.ObsPrecipMM),
			"fc_tmax_c", metricValue(row.FcTmaxC),
			"fc_tmin_c", metricValue(row.FcTminC),
			"fc_precip_mm", metricValue(row.FcPrecipMM),
		)
	}
}

func metricValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
