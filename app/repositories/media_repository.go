package repositories

import (
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"folio/app/models"
)

// BadgerMediaRepository implements MediaRepository using BadgerDB
type BadgerMediaRepository struct {
	db *badger.DB
}

// NewBadgerMediaRepository creates a new BadgerMediaRepository
func NewBadgerMediaRepository(db *badger.DB) *BadgerMediaRepository {
	return &BadgerMediaRepository{db: db}
}

// Create records a stored upload. Names are unique.
func (r *BadgerMediaRepository) Create(media *models.Media) error {
	data, err := marshalEntity(media)
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		key := mediaKey(media.Name)
		_, err := txn.Get(key)
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil && !errors.Is(err, ErrConflict) {
		return &StorageError{Op: "create media", Key: media.Name, Err: err}
	}
	return err
}

// GetByName retrieves a media record by file name
func (r *BadgerMediaRepository) GetByName(name string) (*models.Media, error) {
	var media models.Media

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(mediaKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &media)
		})
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get media", Key: name, Err: err}
	}
	return &media, nil
}

// List returns every media record, most recent upload first
func (r *BadgerMediaRepository) List() ([]*models.Media, error) {
	items := []*models.Media{}

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(MediaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var media models.Media
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &media)
			})
			if err != nil {
				return err
			}
			items = append(items, &media)
		}
		return nil
	})
	if err != nil {
		return nil, &StorageError{Op: "list media", Err: err}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UploadedAt.After(items[j].UploadedAt)
	})
	return items, nil
}

// Delete removes a media record
func (r *BadgerMediaRepository) Delete(name string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := mediaKey(name)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return &StorageError{Op: "delete media", Key: name, Err: err}
	}
	return err
}
