package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
	domrepo "github.com/rakeshcr92/InsiderNet/internal/domain/repository"
)

const (
	PricesFile = "prices.json"
	SocialFile = "reddit.json"
	TrendsFile = "trends.json"
)

// FileSourceStore reads JSON record arrays from <dir>/<TICKER>/. A missing
// prices file is an error; missing social or trend files yield no records.
type FileSourceStore struct {
	dir string
}

var _ domrepo.SourceStore = (*FileSourceStore)(nil)

func NewFileSourceStore(dir string) *FileSourceStore {
	return &FileSourceStore{dir: dir}
}

func (s *FileSourceStore) Prices(ctx context.Context, ticker string) ([]models.PriceRecord, error) {
	var out []models.PriceRecord
	found, err := s.load(ctx, ticker, PricesFile, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("prices for %s: %w", ticker, fs.ErrNotExist)
	}
	return out, nil
}

func (s *FileSourceStore) SocialPosts(ctx context.Context, ticker string) ([]models.SocialRecord, error) {
	var out []models.SocialRecord
	if _, err := s.load(ctx, ticker, SocialFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileSourceStore) Trends(ctx context.Context, ticker string) ([]models.TrendRecord, error) {
	var out []models.TrendRecord
	if _, err := s.load(ctx, ticker, TrendsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileSourceStore) load(ctx context.Context, ticker, name string, dst interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path := filepath.Join(s.dir, strings.ToUpper(ticker), name)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}
