package dataset

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/drive"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/repository"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

// Load reads every row from src and freezes them into a Table.
func Load(ctx context.Context, src Source) (*domain.Table, error) {
	start := time.Now()

	products, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset from %s: %w", src.Name(), err)
	}

	table := domain.NewTable(products)
	log.Info().
		Str("source", src.Name()).
		Int("rows", table.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Dataset loaded")

	return table, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromConfig builds the Source selected by cfg.Dataset.Source. The returned
// closer releases any connection the source holds and must be called once
// loading is done.
func FromConfig(ctx context.Context, cfg *config.Config) (Source, io.Closer, error) {
	ds := cfg.Dataset

	switch ds.Source {
	case config.SourceFile, "":
		if ds.Path == "" {
			return nil, nil, fmt.Errorf("dataset path must be provided for file source")
		}
		return FileSource{Path: ds.Path}, nopCloser{}, nil

	case config.SourceS3:
		client, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  ds.S3Endpoint,
			AccessKey: ds.S3AccessKey,
			SecretKey: ds.S3SecretKey,
			Bucket:    ds.S3Bucket,
			Region:    ds.S3Region,
			UseSSL:    ds.S3UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return ObjectSource{Client: client, Key: ds.S3Key}, nopCloser{}, nil

	case config.SourceDrive:
		if ds.DriveFileID == "" {
			return nil, nil, fmt.Errorf("drive file id must be provided for drive source")
		}
		files, err := drive.NewService(ctx, ds.DriveCredentialsJSON)
		if err != nil {
			return nil, nil, err
		}
		return DriveSource{Files: files, FileID: ds.DriveFileID}, nopCloser{}, nil

	case config.SourcePostgres:
		db, err := postgres.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewInventoryRepository(db, ds.PostgresTable)
		return PostgresSource{Repo: repo, Table: ds.PostgresTable}, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown dataset source %q", ds.Source)
	}
}
