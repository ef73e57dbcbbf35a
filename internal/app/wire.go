package app

import (
	"context"
	"fmt"
	"log"
	"route-order-service/internal/adapters/archive"
	"route-order-service/internal/adapters/distance"
	"route-order-service/internal/adapters/publish"
	"route-order-service/internal/config"
	"route-order-service/internal/ports"
)

// NewMatrixProvider returns the distance matrix adapter selected by cfg.Provider.
func NewMatrixProvider(cfg *config.Config) (ports.MatrixProvider, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		p, err := distance.NewGoogleMatrixProvider(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("new matrix provider: %w", err)
		}
		return p, nil
	case config.ProviderORS:
		p, err := distance.NewORSMatrixProvider(cfg.ORSAPIKey, distance.WithORSCountry(cfg.ORSCountry))
		if err != nil {
			return nil, fmt.Errorf("new matrix provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("new matrix provider: unknown provider %q", cfg.Provider)
	}
}

// NewSinks builds the optional plan sinks enabled in cfg.
// The returned cleanup closes whatever was opened.
func NewSinks(ctx context.Context, cfg *config.Config) ([]ports.PlanSink, func(), error) {
	var sinks []ports.PlanSink
	var closers []func() error

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("sink close failed: %v", err)
			}
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		p, err := publish.NewKafkaPlanPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("new sinks: %w", err)
		}
		sinks = append(sinks, p)
		closers = append(closers, p.Close)
		log.Printf("kafka publisher enabled brokers=%v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	if cfg.ArchiveEnabled() {
		a, err := archive.NewS3ReportArchive(ctx, archive.S3Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("new sinks: %w", err)
		}
		sinks = append(sinks, a)
	}

	return sinks, cleanup, nil
}
