package workout

import "fmt"

// Store is the ordered in-memory collection of a session's workouts.
// It is not safe for concurrent use; the session loop serializes access.
type Store struct {
	records []Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Append adds r after every existing record.
func (s *Store) Append(r Record) {
	s.records = append(s.records, r)
}

// All returns a copy of the records in creation order.
func (s *Store) All() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FindByID returns the first record with the given id.
func (s *Store) FindByID(id string) (Record, error) {
	for _, r := range s.records {
		if r.id == id {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ReplaceAll discards the current contents and keeps a copy of records.
func (s *Store) ReplaceAll(records []Record) {
	s.records = make([]Record, len(records))
	copy(s.records, records)
}

func (s *Store) Len() int {
	return len(s.records)
}
