package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"

	bolt "go.etcd.io/bbolt"
)

var articlesBucket = []byte("articles")

// Archive keeps every parsed record in a single bbolt file, keyed by id.
type Archive struct {
	db *bolt.DB
}

// OpenArchive opens or creates the archive at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(articlesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init archive bucket: %w", err)
	}

	return &Archive{db: db}, nil
}

// Save stores rec, replacing any record with the same id.
func (a *Archive) Save(rec domain.ArticleRecord) error {
	if rec.ID <= 0 {
		return fmt.Errorf("article id must be positive, got %d", rec.ID)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal article %d: %w", rec.ID, err)
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).Put(idKey(rec.ID), data)
	})
}

// Get returns the record stored under id.
func (a *Archive) Get(id int) (domain.ArticleRecord, bool, error) {
	var (
		rec   domain.ArticleRecord
		found bool
	)
	err := a.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(articlesBucket).Get(idKey(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return domain.ArticleRecord{}, false, fmt.Errorf("read article %d: %w", id, err)
	}
	return rec, found, nil
}

// Count returns the number of stored records.
func (a *Archive) Count() (int, error) {
	n := 0
	err := a.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(articlesBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// idKey encodes ids big-endian so keys sort numerically.
func idKey(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// VerifyArchive checks that every id in ids is archived with the same url,
// title, date and text as its files.
func VerifyArchive(files *FileStore, archive *Archive, ids []int) error {
	for _, id := range ids {
		stored, err := files.Load(id)
		if err != nil {
			return err
		}
		archived, ok, err := archive.Get(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: article %d is not archived", ErrInconsistentDataset, id)
		}
		if archived.URL != stored.URL || archived.Title != stored.Title || archived.Text != stored.Text ||
			archived.Date.Format(metaDateLayout) != stored.Date.Format(metaDateLayout) {
			return fmt.Errorf("%w: archived article %d differs from its files", ErrInconsistentDataset, id)
		}
	}
	return nil
}
