package operations

import (
	"errors"

	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/metrics"
	"github.com/litetable/litetable-htable/internal/storage"
)

// descriptor returns the retention settings of family, from the cache when it can.
func (m *Manager) descriptor(family string) (htable.ColumnDescriptor, error) {
	if v, ok := m.descriptors.Get(family); ok {
		metrics.DescriptorCache.WithLabelValues("hit").Inc()
		return v.(htable.ColumnDescriptor), nil
	}
	metrics.DescriptorCache.WithLabelValues("miss").Inc()

	d, err := m.storage.Descriptor(family)
	if errors.Is(err, storage.ErrFamilyNotFound) {
		return htable.ColumnDescriptor{}, newError(errUnknownFamily, "%s", family)
	}
	if err != nil {
		return htable.ColumnDescriptor{}, err
	}

	m.descriptors.Set(family, d, 1)
	return d, nil
}

// forgetDescriptor drops family from the cache after its settings changed.
func (m *Manager) forgetDescriptor(family string) {
	m.descriptors.Del(family)
}
