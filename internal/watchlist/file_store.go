package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// FileStore keeps the watchlist as a JSON array on disk
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *logger.Logger
}

// NewFileStore creates a new file-backed watchlist
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.WithField("watchlist_file", path),
	}
}

var _ Store = (*FileStore)(nil)

// List returns the tickers in insertion order
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Add appends a ticker
func (s *FileStore) Add(ctx context.Context, ticker string) error {
	t, err := normalize(ticker)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickers, err := s.load()
	if err != nil {
		return err
	}
	if slices.Contains(tickers, t) {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, t)
	}

	if err := s.save(append(tickers, t)); err != nil {
		return err
	}

	s.logger.WithTicker(t).Info("Added ticker to watchlist")
	return nil
}

// Remove deletes a ticker
func (s *FileStore) Remove(ctx context.Context, ticker string) error {
	t, err := normalize(ticker)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickers, err := s.load()
	if err != nil {
		return err
	}

	idx := slices.Index(tickers, t)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, t)
	}

	if err := s.save(slices.Delete(tickers, idx, idx+1)); err != nil {
		return err
	}

	s.logger.WithTicker(t).Info("Removed ticker from watchlist")
	return nil
}

// Contains reports whether the ticker is listed
func (s *FileStore) Contains(ctx context.Context, ticker string) (bool, error) {
	t, err := normalize(ticker)
	if err != nil {
		return false, err
	}

	tickers, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(tickers, t), nil
}

// EnsureFile creates an empty watchlist file if none exists
func (s *FileStore) EnsureFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat watchlist file: %w", err)
	}

	return s.save([]string{})
}

// load reads the file. Missing or malformed files yield an empty list.
func (s *FileStore) load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	var tickers []string
	if err := json.Unmarshal(data, &tickers); err != nil {
		s.logger.WithError(err).Warn("Watchlist file is empty or malformed, starting with an empty watchlist")
		return []string{}, nil
	}
	if tickers == nil {
		tickers = []string{}
	}

	return tickers, nil
}

// save writes the list atomically (temp file + rename)
func (s *FileStore) save(tickers []string) error {
	return writeJSONAtomic(s.path, tickers)
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
