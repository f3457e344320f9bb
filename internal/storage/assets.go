// Package storage writes parsed articles to the assets directory and checks
// the resulting dataset.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"
)

const metaDateLayout = "2006-01-02 15:04:05"

// Saver persists one record.
type Saver interface {
	Save(rec domain.ArticleRecord) error
}

// PrepareEnvironment removes path if it exists and creates it again, empty.
func PrepareEnvironment(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("assets path is empty")
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("clear assets dir: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create assets dir: %w", err)
	}
	return nil
}

// articleMeta is the content of <id>_meta.json.
type articleMeta struct {
	ID     int    `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Author string `json:"author"`
	Topics string `json:"topics"`
}

// FileStore writes each record as <id>_raw.txt and <id>_meta.json.
type FileStore struct {
	dir string
}

// NewFileStore returns a store writing into an existing directory.
func NewFileStore(dir string) (*FileStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets dir %s is not a directory", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the record text and metadata.
func (s *FileStore) Save(rec domain.ArticleRecord) error {
	if rec.ID <= 0 {
		return fmt.Errorf("article id must be positive, got %d", rec.ID)
	}

	if err := os.WriteFile(s.rawPath(rec.ID), []byte(rec.Text), 0o644); err != nil {
		return fmt.Errorf("write article %d text: %w", rec.ID, err)
	}

	meta := articleMeta{
		ID:     rec.ID,
		URL:    rec.URL,
		Title:  rec.Title,
		Date:   rec.Date.Format(metaDateLayout),
		Author: rec.Author,
		Topics: rec.Topics,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal article %d meta: %w", rec.ID, err)
	}
	if err := os.WriteFile(s.metaPath(rec.ID), data, 0o644); err != nil {
		return fmt.Errorf("write article %d meta: %w", rec.ID, err)
	}
	return nil
}

// Load reads a stored record back. The date is read in UTC.
func (s *FileStore) Load(id int) (domain.ArticleRecord, error) {
	text, err := os.ReadFile(s.rawPath(id))
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("read article %d text: %w", id, err)
	}

	data, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("read article %d meta: %w", id, err)
	}
	var meta articleMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("decode article %d meta: %w", id, err)
	}
	date, err := time.Parse(metaDateLayout, meta.Date)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("article %d meta date: %w", id, err)
	}

	return domain.ArticleRecord{
		ID:     meta.ID,
		URL:    meta.URL,
		Title:  meta.Title,
		Author: meta.Author,
		Topics: meta.Topics,
		Date:   date,
		Text:   string(text),
	}, nil
}

func (s *FileStore) rawPath(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_raw.txt", id))
}

func (s *FileStore) metaPath(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_meta.json", id))
}

// Chain saves into every saver in order and stops at the first failure.
func Chain(savers ...Saver) Saver {
	return chain(savers)
}

type chain []Saver

func (c chain) Save(rec domain.ArticleRecord) error {
	for _, s := range c {
		if s == nil {
			continue
		}
		if err := s.Save(rec); err != nil {
			return err
		}
	}
	return nil
}
