package storage

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/saviobatista/launch-tracker/internal/types"
)

const (
	filePrefix = "launches_"
	fileSuffix = ".jsonl"
	dateLayout = "2006-01-02"
)

// Storage writes resolved launches to daily JSON-lines files
type Storage struct {
	outputDir string
	now       func() time.Time
	logger    *slog.Logger
	mu        sync.Mutex
}

// New creates a new Storage instance
func New(outputDir string) *Storage {
	return &Storage{
		outputDir: outputDir,
		now:       time.Now,
		logger:    slog.With("component", "storage"),
	}
}

// FileFor returns the export file name for the given day (UTC)
func (s *Storage) FileFor(day time.Time) string {
	return filepath.Join(s.outputDir, filePrefix+day.UTC().Format(dateLayout)+fileSuffix)
}

// WriteLaunches appends launches to today's file, one JSON document per line,
// and returns the file path
func (s *Storage) WriteLaunches(launches []types.Launch) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := s.FileFor(s.now())
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open export file: %w", err)
	}

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for i := range launches {
		if err := enc.Encode(&launches[i]); err != nil {
			file.Close()
			return "", fmt.Errorf("failed to encode launch %s: %w", launches[i].ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	s.logger.Debug("Exported launches", "file", filename, "count", len(launches))
	return filename, nil
}

// CompressStale gzips every export file from a previous day and removes the original
func (s *Storage) CompressStale() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	today := s.now().UTC().Format(dateLayout)
	var compressed []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if _, err := time.Parse(dateLayout, day); err != nil || day >= today {
			continue
		}

		path := filepath.Join(s.outputDir, name)
		if err := compressFile(path); err != nil {
			return compressed, fmt.Errorf("failed to compress file: %w", err)
		}
		compressed = append(compressed, path+".gz")
	}
	return compressed, nil
}

// compressFile compresses a file using gzip and removes the original.
// A partially written archive is removed when compression fails.
func compressFile(path string) (err error) {
	source, err := os.Open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	gzPath := path + ".gz"
	target, err := os.Create(gzPath)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			target.Close()
			os.Remove(gzPath)
		}
	}()

	gzipWriter := gzip.NewWriter(target)
	gzipWriter.Name = filepath.Base(path)
	if _, err := io.Copy(gzipWriter, source); err != nil {
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}

	// Close the gzip writer to ensure all data is written
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", gzPath, err)
	}
	if err := target.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", gzPath, err)
	}

	return os.Remove(path)
}

// ReadLaunches reads an export file, plain or gzipped
func ReadLaunches(path string) ([]types.Launch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var launches []types.Launch
	dec := json.NewDecoder(r)
	for {
		var launch types.Launch
		if err := dec.Decode(&launch); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to decode launch %d: %w", len(launches), err)
		}
		launches = append(launches, launch)
	}
	return launches, nil
}
