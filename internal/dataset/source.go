package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/drive"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/repository"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/storage"
)

// Source yields the raw inventory rows once at startup.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]domain.Product, error)
}

// FileSource reads a local CSV or XLSX file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) ([]domain.Product, error) {
	format, err := FormatFromName(s.Path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", s.Path, err)
	}
	defer f.Close()

	products, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Path, err)
	}
	return products, nil
}

// ObjectSource reads a dataset object from an S3-compatible bucket. A key
// ending in "/" is treated as a prefix and the last dataset object under it
// (by key order) is loaded, so dated snapshot names pick the newest.
type ObjectSource struct {
	Client storage.ObjectStorage
	Key    string
}

func (s ObjectSource) Name() string { return "s3:" + s.Key }

func (s ObjectSource) Load(ctx context.Context) ([]domain.Product, error) {
	key, err := s.resolveKey(ctx)
	if err != nil {
		return nil, err
	}

	format, err := FormatFromName(key)
	if err != nil {
		return nil, err
	}

	body, err := s.Client.OpenObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	products, err := Decode(body, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode object %s: %w", key, err)
	}
	return products, nil
}

func (s ObjectSource) resolveKey(ctx context.Context) (string, error) {
	key := strings.TrimSpace(s.Key)
	if key == "" {
		return "", fmt.Errorf("object key must be provided")
	}
	if !strings.HasSuffix(key, "/") {
		return key, nil
	}

	objects, err := s.Client.ListObjects(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to list objects for prefix %s: %w", key, err)
	}

	var keys []string
	for _, obj := range objects {
		if _, err := FormatFromName(obj.Key); err == nil {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("no csv or xlsx objects found under prefix %s", key)
	}

	sort.Strings(keys)
	return keys[len(keys)-1], nil
}

// DriveFiles is the part of the Drive client the loader uses.
type DriveFiles interface {
	GetFile(ctx context.Context, fileID string) (*drive.File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// DriveSource downloads a dataset file from Google Drive.
type DriveSource struct {
	Files  DriveFiles
	FileID string
}

func (s DriveSource) Name() string { return "drive:" + s.FileID }

func (s DriveSource) Load(ctx context.Context) ([]domain.Product, error) {
	meta, err := s.Files.GetFile(ctx, s.FileID)
	if err != nil {
		return nil, err
	}

	format, err := FormatFromName(meta.Name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.Files.DownloadFile(ctx, s.FileID, &buf); err != nil {
		return nil, err
	}

	products, err := Decode(&buf, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode drive file %s: %w", meta.Name, err)
	}
	return products, nil
}

// PostgresSource reads a snapshot table through the inventory repository.
type PostgresSource struct {
	Repo  repository.InventoryRepository
	Table string
}

func (s PostgresSource) Name() string { return "postgres:" + s.Table }

func (s PostgresSource) Load(ctx context.Context) ([]domain.Product, error) {
	return s.Repo.ListProducts(ctx)
}
