package dataset

import "sync"

// Store holds the current dataset: one logical writer, any number of
// readers. The mutex only guards the handle swap; datasets themselves are
// immutable once published.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
}

// Replace publishes a freshly ingested dataset, discarding the previous one.
func (s *Store) Replace(d *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = d
}

// Current returns the dataset from the latest ingestion, or ErrNoDataset
// when nothing has been loaded yet.
func (s *Store) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}
