// Package output writes converted statutes as JSON record arrays, one file
// per document, and reads them back for the HTTP API.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/lawgest/internal/lawdoc"
)

// ErrNotFound is returned by Read when no artifact exists for a name.
var ErrNotFound = errors.New("law not found")

// hashSuffixLen is the number of content-hash characters appended to a
// colliding artifact name.
const hashSuffixLen = 8

// FileSink writes {dir}/{slug}.json artifacts. The directory is created on
// first write. When two documents with different content resolve to the
// same slug, the later one is written as {slug}_{hash8}.json.
type FileSink struct {
	dir string
	log *slog.Logger

	mu      sync.Mutex
	written map[string]string // artifact name -> content hash
}

func NewFileSink(dir string, log *slog.Logger) *FileSink {
	return &FileSink{
		dir:     dir,
		log:     log,
		written: make(map[string]string),
	}
}

// Dir returns the output directory.
func (s *FileSink) Dir() string {
	return s.dir
}

// Write encodes set.Records to the artifact for set's slug and returns the
// file path.
func (s *FileSink) Write(ctx context.Context, set lawdoc.RecordSet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.artifactName(set)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.dir, name+".json")
	if err := writeFileAtomic(path, set.Records); err != nil {
		return "", err
	}
	s.written[name] = set.ContentHash
	return path, nil
}

// artifactName picks the file stem for set. Caller holds s.mu.
func (s *FileSink) artifactName(set lawdoc.RecordSet) string {
	slug := set.Identity.Slug
	prev, taken := s.written[slug]
	if !taken || prev == set.ContentHash {
		return slug
	}

	suffix := set.ContentHash
	if len(suffix) > hashSuffixLen {
		suffix = suffix[:hashSuffixLen]
	}
	name := slug + "_" + suffix
	s.log.Warn("slug collision, writing under hashed name",
		"slug", slug,
		"source", set.SourceName,
		"artifact", name+".json",
	)
	return name
}

func writeFileAtomic(path string, records []lawdoc.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lawgest-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Encode writes records as an indented JSON array. Non-ASCII text and HTML
// characters are written verbatim.
func Encode(w io.Writer, records []lawdoc.Record) error {
	if records == nil {
		records = []lawdoc.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// LawSummary describes one artifact in an output directory.
type LawSummary struct {
	Name    string `json:"name"`
	LawName string `json:"law_name"`
	LawCode string `json:"law_code"`
	Records int    `json:"records"`
}

// List summarizes every artifact in dir, sorted by name. A missing
// directory yields an empty list.
func List(dir string) ([]LawSummary, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []LawSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	out := make([]LawSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		records, err := Read(dir, name)
		if err != nil {
			return nil, err
		}
		sum := LawSummary{Name: name, Records: len(records)}
		if len(records) > 0 {
			sum.LawName = records[0].LawName
			sum.LawCode = records[0].LawCode
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read loads the records of artifact name from dir.
func Read(dir, name string) ([]lawdoc.Record, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	f, err := os.Open(filepath.Join(dir, name+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []lawdoc.Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return records, nil
}
