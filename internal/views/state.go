package views

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TableStates keeps each browser's DishTable between requests, keyed by the
// session's view id. Entries expire after ttl of inactivity.
type TableStates struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewTableStates(ttl time.Duration) *TableStates {
	return &TableStates{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get returns a copy of the stored table, or an empty one.
func (s *TableStates) Get(viewID string) *DishTable {
	if v, ok := s.cache.Get(viewID); ok {
		return v.(*DishTable).Clone()
	}
	return &DishTable{}
}

func (s *TableStates) Put(viewID string, t *DishTable) {
	s.cache.Set(viewID, t.Clone(), s.ttl)
}

func (s *TableStates) Delete(viewID string) {
	s.cache.Delete(viewID)
}
