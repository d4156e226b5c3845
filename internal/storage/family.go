package storage

import (
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/litetable/litetable-htable/internal/htable"
)

// CreateFamily registers family with its kv attributes, for example
// {"Hbase": {"TimeToLive": 3600, "MaxVersions": 3}}. Creating a family that exists replaces
// its attributes.
func (m *Manager) CreateFamily(family, attributes string) error {
	family = strings.TrimSpace(family)
	if family == "" {
		return newError(ErrInvalidFamily, "family is required")
	}

	d, err := htable.ParseDescriptor(attributes)
	if err != nil {
		return err
	}

	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(familyKey(family), []byte(d.String()))
	})
}

// Descriptor returns the retention settings of family.
func (m *Manager) Descriptor(family string) (htable.ColumnDescriptor, error) {
	var attributes string
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(familyKey(family))
		if err != nil {
			return err
		}
		v, err := item.ValueCopy(nil)
		attributes = string(v)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return htable.ColumnDescriptor{}, newError(ErrFamilyNotFound, "%s", family)
	}
	if err != nil {
		return htable.ColumnDescriptor{}, err
	}
	return htable.ParseDescriptor(attributes)
}

// Families lists every registered family in name order.
func (m *Manager) Families() ([]string, error) {
	var families []string
	err := m.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte{familyPrefix}

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			families = append(families, string(it.Item().Key()[1:]))
		}
		return nil
	})
	return families, err
}
