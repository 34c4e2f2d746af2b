package matchlog

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	archivePrefix = "games_"
	archiveSuffix = ".json.gz"
)

// Archive writes a gzip copy of the game log into dir and removes all but the
// newest keep archives. A missing log is not archived and returns "".
func (s *Store) Archive(dir string, keep int) (string, error) {
	src, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &LogReadError{Path: s.path, Err: err}
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory %s: %w", dir, err)
	}

	timestamp := timeNow().Format("2006-01-02_15-04-05")
	path := filepath.Join(dir, archivePrefix+timestamp+archiveSuffix)

	if err := writeGzip(path, src); err != nil {
		os.Remove(path)
		return "", err
	}
	s.log.Info().Str("archive", filepath.Base(path)).Msg("Archived game log")

	if err := s.prune(dir, keep); err != nil {
		return path, err
	}
	return path, nil
}

func writeGzip(path string, src io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err := io.Copy(zw, src); err != nil {
		return fmt.Errorf("failed to compress game log: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return f.Close()
}

// Archives lists the archives in dir, oldest first
func Archives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, archivePrefix) && strings.HasSuffix(name, archiveSuffix) {
			names = append(names, filepath.Join(dir, name))
		}
	}
	// Timestamped names sort chronologically
	sort.Strings(names)
	return names, nil
}

func (s *Store) prune(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	names, err := Archives(dir)
	if err != nil {
		return err
	}
	for len(names) > keep {
		if err := os.Remove(names[0]); err != nil {
			return fmt.Errorf("failed to remove old archive: %w", err)
		}
		s.log.Debug().Str("archive", filepath.Base(names[0])).Msg("Removed old archive")
		names = names[1:]
	}
	return nil
}

var timeNow = time.Now
