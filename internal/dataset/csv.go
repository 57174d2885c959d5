package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store loads and saves a dataset
type Store interface {
	Load(ctx context.Context) (Dataset, error)
	Persist(ctx context.Context, d Dataset) error
}

// CSVStore keeps the dataset in a single CSV file with a header row
type CSVStore struct {
	Path string
}

// NewCSVStore returns a store for path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{Path: path}
}

// Load reads the dataset. A missing file is an empty dataset.
func (s *CSVStore) Load(ctx context.Context) (Dataset, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(ctx, f)
}

// ReadCSV decodes a dataset from r
func ReadCSV(ctx context.Context, r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorruptDataset, err)
	}
	dec, err := newRowDecoder(header)
	if err != nil {
		return nil, err
	}

	var d Dataset
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptDataset, line, err)
		}
		rec, err := dec.decode(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		d = append(d, rec)
	}
	if d == nil {
		d = Dataset{}
	}
	return d, nil
}

// WriteCSV encodes d with a header row
func WriteCSV(w io.Writer, d Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range d {
		if err := cw.Write(toRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Persist replaces the file atomically: the dataset is written to a temp file
// in the same directory and renamed over the target.
func (s *CSVStore) Persist(ctx context.Context, d Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := WriteCSV(tmp, d); err != nil {
		tmp.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}
