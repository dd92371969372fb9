package store

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Record is a stored element addressable by id.
type Record interface {
	RecordID() string
}

// Collection is a per-user JSON array of records of one type.
type Collection[T Record] struct {
	store   *Store
	name    string
	prepend bool
}

// NewCollection binds a collection name to a record type. With prepend set,
// Append inserts at the front so the stored order is newest first.
func NewCollection[T Record](s *Store, name string, prepend bool) *Collection[T] {
	return &Collection[T]{store: s, name: name, prepend: prepend}
}

func (c *Collection[T]) Name() string { return c.name }

// List returns the records in stored order; never nil.
func (c *Collection[T]) List(ctx context.Context, sess domain.Session) ([]T, error) {
	if !sess.IsAuthenticated() {
		return []T{}, nil
	}
	entry, err := c.store.read(ctx, c.store.key(c.name, sess.Username))
	if err != nil {
		return nil, err
	}
	return c.decode(entry.Value), nil
}

// Append stores rec and returns its id.
func (c *Collection[T]) Append(ctx context.Context, sess domain.Session, rec T) (string, error) {
	if !sess.IsAuthenticated() {
		return "", nil
	}
	err := c.modify(ctx, sess, func(items []T) ([]T, bool, error) {
		if c.prepend {
			return append([]T{rec}, items...), true, nil
		}
		return append(items, rec), true, nil
	})
	if err != nil {
		return "", err
	}
	return rec.RecordID(), nil
}

// Remove deletes the record with id and reports whether it existed. The
// relative order of the remaining records is preserved.
func (c *Collection[T]) Remove(ctx context.Context, sess domain.Session, id string) (bool, error) {
	if !sess.IsAuthenticated() {
		return false, nil
	}
	var removed bool
	err := c.modify(ctx, sess, func(items []T) ([]T, bool, error) {
		removed = false
		kept := make([]T, 0, len(items))
		for _, it := range items {
			if it.RecordID() == id {
				removed = true
				continue
			}
			kept = append(kept, it)
		}
		return kept, removed, nil
	})
	return removed, err
}

// Update applies mutate to the record with id in place. It returns the
// updated record and whether it was found. An error from mutate aborts the
// write.
func (c *Collection[T]) Update(ctx context.Context, sess domain.Session, id string, mutate func(*T) error) (T, bool, error) {
	var (
		updated T
		found   bool
	)
	if !sess.IsAuthenticated() {
		return updated, false, nil
	}
	err := c.modify(ctx, sess, func(items []T) ([]T, bool, error) {
		found = false
		for i := range items {
			if items[i].RecordID() != id {
				continue
			}
			if err := mutate(&items[i]); err != nil {
				return nil, false, err
			}
			found = true
			updated = items[i]
			break
		}
		return items, found, nil
	})
	return updated, found, err
}

// Replace overwrites the whole collection.
func (c *Collection[T]) Replace(ctx context.Context, sess domain.Session, items []T) error {
	if !sess.IsAuthenticated() {
		return nil
	}
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.store.put(ctx, c.store.key(c.name, sess.Username), raw)
}

func (c *Collection[T]) modify(ctx context.Context, sess domain.Session, fn func([]T) ([]T, bool, error)) error {
	key := c.store.key(c.name, sess.Username)
	return c.store.mutate(ctx, key, func(current []byte) ([]byte, bool, error) {
		next, changed, err := fn(c.decode(current))
		if err != nil || !changed {
			return nil, false, err
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil
	})
}

// decode parses a stored JSON array element by element. Elements that do not
// decode or fail validation are dropped with a warning.
func (c *Collection[T]) decode(raw []byte) []T {
	if len(raw) == 0 {
		return []T{}
	}

	log := logrus.WithField("collection", c.name)

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		log.Warnf("stored collection is not a JSON array, treating as empty: %v", err)
		c.store.skipped(c.name)
		return []T{}
	}

	items := make([]T, 0, len(elems))
	for i, elem := range elems {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			log.WithField("index", i).Warnf("skipping corrupt record: %v", err)
			c.store.skipped(c.name)
			continue
		}
		if err := c.store.validate.Struct(item); err != nil {
			log.WithField("index", i).Warnf("skipping invalid record: %v", err)
			c.store.skipped(c.name)
			continue
		}
		items = append(items, item)
	}
	return items
}
