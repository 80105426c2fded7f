// Package genomes reads the list of genome identifiers a run is expected to
// produce concatemers for.
package genomes

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Read returns one genome identifier per non-blank line, in file order.
func Read(r io.Reader) ([]string, error) {
	var ids []string
	seen := make(map[string]int)

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if first, ok := seen[id]; ok {
			return nil, errors.Errorf("genomes: '%s' on line %d repeats line %d", id, line, first)
		}
		seen[id] = line
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// ReadFile reads the genome identifiers in path.
func ReadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ids, err := Read(file)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return ids, nil
}

// Source supplies the expected genome identifiers.
type Source interface {
	GenomeIDs() ([]string, error)
}

// FileSource loads a genome list once, on first use, and hands out the same
// list until Refresh is called.
type FileSource struct {
	Path string

	mu     sync.Mutex
	loaded bool
	ids    []string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// GenomeIDs returns a copy of the cached identifiers, reading Path if they have
// not been loaded yet. A failed read is not cached.
func (s *FileSource) GenomeIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		ids, err := ReadFile(s.Path)
		if err != nil {
			return nil, err
		}
		s.ids = ids
		s.loaded = true
	}

	return append([]string(nil), s.ids...), nil
}

// Refresh discards the cached list so the next call to GenomeIDs rereads Path.
func (s *FileSource) Refresh() {
	s.mu.Lock()
	s.loaded = false
	s.ids = nil
	s.mu.Unlock()
}
