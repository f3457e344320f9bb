package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Dataset validation errors.
var (
	ErrDatasetNotFound     = errors.New("dataset directory does not exist")
	ErrNotADirectory       = errors.New("dataset path is not a directory")
	ErrEmptyDirectory      = errors.New("dataset directory has no articles")
	ErrInconsistentDataset = errors.New("dataset is inconsistent")
)

var leadingID = regexp.MustCompile(`^\d+`)

// ValidateDataset checks that path holds a complete dataset: as many raw
// texts as meta files, no empty text files, and ids numbered 1..N.
func ValidateDataset(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat dataset: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	raws, err := filepath.Glob(filepath.Join(path, "*raw.txt"))
	if err != nil {
		return err
	}
	metas, err := filepath.Glob(filepath.Join(path, "*meta.json"))
	if err != nil {
		return err
	}
	if len(raws)+len(metas) == 0 {
		return ErrEmptyDirectory
	}
	if len(raws) != len(metas) {
		return fmt.Errorf("%w: %d raw texts, %d meta files", ErrInconsistentDataset, len(raws), len(metas))
	}

	texts, err := filepath.Glob(filepath.Join(path, "*.txt"))
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(texts))
	for _, file := range texts {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		if len(data) == 0 {
			return fmt.Errorf("%w: %s is empty", ErrInconsistentDataset, filepath.Base(file))
		}

		id, ok := fileID(filepath.Base(file))
		if !ok {
			return fmt.Errorf("%w: %s has no numeric id", ErrInconsistentDataset, filepath.Base(file))
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ErrEmptyDirectory
	}

	sort.Ints(ids)
	if ids[0] != 1 {
		return fmt.Errorf("%w: ids start at %d", ErrInconsistentDataset, ids[0])
	}
	prev := 0
	for _, id := range ids {
		if id-prev > 1 {
			return fmt.Errorf("%w: id %d is missing", ErrInconsistentDataset, prev+1)
		}
		prev = id
	}
	return nil
}

// ScanDataset returns the sorted ids of the raw texts stored under path.
func ScanDataset(path string) ([]int, error) {
	raws, err := filepath.Glob(filepath.Join(path, "*_raw.txt"))
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(raws))
	for _, file := range raws {
		if id, ok := fileID(filepath.Base(file)); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func fileID(name string) (int, bool) {
	m := leadingID.FindString(name)
	if m == "" {
		return 0, false
	}
	id, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return id, true
}
