// Package storage archives raw Riot payloads as rotating JSONL files.
package storage

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"match-analyzer/internal/riot"
)

const (
	// Rotation triggers
	DefaultMaxRecordsPerFile = 1000
	DefaultMaxFileAge        = 1 * time.Hour
)

// ArchivedMatch is one JSONL line: the raw payloads a dataset row was built
// from
type ArchivedMatch struct {
	MatchID   string                 `json:"matchId"`
	FetchedAt time.Time              `json:"fetchedAt"`
	Summary   *riot.MatchResponse    `json:"summary"`
	Timeline  *riot.TimelineResponse `json:"timeline,omitempty"`
}

// FileRotator writes archived matches to rotating JSONL files. Files move
// hot -> warm on rotation and warm -> cold (gzip) on CompressWarm.
type FileRotator struct {
	mu sync.Mutex

	// Directories
	hotDir  string // Active writes
	warmDir string // Closed files awaiting compression
	coldDir string // Compressed archives

	maxRecords int
	maxAge     time.Duration

	// Current file state
	currentFile   *os.File
	currentWriter *bufio.Writer
	currentPath   string
	recordCount   int
	fileOpenedAt  time.Time
	fileSeq       int
}

// RotatorOption configures a FileRotator
type RotatorOption func(*FileRotator)

// WithMaxRecords rotates after n records per file
func WithMaxRecords(n int) RotatorOption {
	return func(r *FileRotator) {
		r.maxRecords = n
	}
}

// WithMaxAge rotates files older than d
func WithMaxAge(d time.Duration) RotatorOption {
	return func(r *FileRotator) {
		r.maxAge = d
	}
}

// WithColdDir stores compressed archives outside baseDir (e.g., HDD)
func WithColdDir(path string) RotatorOption {
	return func(r *FileRotator) {
		r.coldDir = path
	}
}

// NewFileRotator creates a new rotator with the given base directory
func NewFileRotator(baseDir string, opts ...RotatorOption) (*FileRotator, error) {
	r := &FileRotator{
		hotDir:     filepath.Join(baseDir, "hot"),
		warmDir:    filepath.Join(baseDir, "warm"),
		coldDir:    filepath.Join(baseDir, "cold"),
		maxRecords: DefaultMaxRecordsPerFile,
		maxAge:     DefaultMaxFileAge,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, dir := range []string{r.hotDir, r.warmDir, r.coldDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := r.rotate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Append writes one match, flushes, and rotates if needed
func (r *FileRotator) Append(m ArchivedMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentFile == nil {
		return fmt.Errorf("rotator is closed")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", m.MatchID, err)
	}
	if _, err := r.currentWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := r.currentWriter.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	r.recordCount++

	// Flush after each match so a crash loses at most the current line
	if err := r.currentWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	if r.shouldRotate() {
		return r.rotate()
	}
	return nil
}

func (r *FileRotator) shouldRotate() bool {
	if r.maxRecords > 0 && r.recordCount >= r.maxRecords {
		return true
	}
	return r.maxAge > 0 && time.Since(r.fileOpenedAt) >= r.maxAge
}

// closeCurrent flushes the hot file and moves it to warm, or removes it when
// it holds no records
func (r *FileRotator) closeCurrent() error {
	if r.currentFile == nil {
		return nil
	}
	if err := r.currentWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush before rotation: %w", err)
	}
	if err := r.currentFile.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	r.currentFile = nil

	name := filepath.Base(r.currentPath)
	if r.recordCount == 0 {
		os.Remove(r.currentPath)
		return nil
	}
	if err := os.Rename(r.currentPath, filepath.Join(r.warmDir, name)); err != nil {
		return fmt.Errorf("failed to move to warm storage: %w", err)
	}
	log.Printf("[Archive] Moved %s to warm storage (%d matches)", name, r.recordCount)
	return nil
}

func (r *FileRotator) rotate() error {
	if err := r.closeCurrent(); err != nil {
		return err
	}

	r.fileSeq++
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("raw_matches_%s_%03d.jsonl", timestamp, r.fileSeq)
	r.currentPath = filepath.Join(r.hotDir, filename)

	file, err := os.Create(r.currentPath)
	if err != nil {
		return fmt.Errorf("failed to create new file: %w", err)
	}

	r.currentFile = file
	r.currentWriter = bufio.NewWriterSize(file, 64*1024) // 64KB buffer
	r.recordCount = 0
	r.fileOpenedAt = time.Now()
	return nil
}

// Close flushes the current file and moves it to warm storage
func (r *FileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeCurrent()
}

// Stats returns current rotator statistics
func (r *FileRotator) Stats() (recordsInCurrentFile int, currentFileName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordCount, filepath.Base(r.currentPath)
}

// CompressWarm moves every warm file to cold storage and returns how many
// were compressed
func (r *FileRotator) CompressWarm() (int, error) {
	r.mu.Lock()
	warmDir, coldDir := r.warmDir, r.coldDir
	r.mu.Unlock()

	entries, err := os.ReadDir(warmDir)
	if err != nil {
		return 0, fmt.Errorf("read warm dir: %w", err)
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		if err := CompressToCold(filepath.Join(warmDir, e.Name()), coldDir); err != nil {
			return n, fmt.Errorf("compress %s: %w", e.Name(), err)
		}
		n++
	}
	return n, nil
}

// CompressToCold compresses a warm file and moves it to cold storage
func CompressToCold(warmPath, coldDir string) error {
	src, err := os.Open(warmPath)
	if err != nil {
		return err
	}
	defer src.Close()

	coldPath := filepath.Join(coldDir, filepath.Base(warmPath)+".gz")
	dst, err := os.Create(coldPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)
	if _, err := io.Copy(gzWriter, src); err != nil {
		return err
	}
	if err := gzWriter.Close(); err != nil {
		return err
	}

	// Remove original
	if err := os.Remove(warmPath); err != nil {
		return err
	}

	log.Printf("[Archive] Compressed %s to cold storage", filepath.Base(warmPath))
	return nil
}

// ReadArchive decodes every match in a JSONL file, gzipped or not
func ReadArchive(path string) ([]ArchivedMatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var out []ArchivedMatch
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var m ArchivedMatch
		if err := json.Unmarshal(line, &m); err != nil {
			return out, fmt.Errorf("decode line %d: %w", len(out)+1, err)
		}
		out = append(out, m)
	}
	return out, scanner.Err()
}
