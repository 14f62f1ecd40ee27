package core

import (
	"cmp"
	"maps"
	"slices"

	"github.com/huangsam/ragboard/core/agg"
	"github.com/huangsam/ragboard/core/parse"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/schema"
)

// PeriodStore maps periods to their per-target aggregates.
// A store is never mutated once built: ingestion returns a new store that
// shares the untouched period slices with the old one. Callers must treat
// slices returned by Get as read-only.
type PeriodStore struct {
	periods map[schema.PeriodKey][]schema.TargetAggregate
}

// NewPeriodStore returns an empty store.
func NewPeriodStore() *PeriodStore {
	return &PeriodStore{periods: map[schema.PeriodKey][]schema.TargetAggregate{}}
}

// NewPeriodStoreFrom builds a store from existing aggregates, canonicalizing the keys.
func NewPeriodStoreFrom(periods map[schema.PeriodKey][]schema.TargetAggregate) *PeriodStore {
	s := NewPeriodStore()
	for k, v := range periods {
		s.periods[schema.NewPeriodKey(k.Year, k.PICycle)] = v
	}
	return s
}

// Ingest parses raw text and replaces every period it mentions.
// On a parse error the receiver is returned unchanged along with the error.
func (s *PeriodStore) Ingest(raw string, opts ...parse.Option) (*PeriodStore, []schema.PeriodKey, error) {
	records, err := parse.ParseTable(raw, opts...)
	if err != nil {
		return s, nil, err
	}
	next, keys := s.Apply(records)
	return next, keys, nil
}

// Apply replaces the periods present in records with aggregates computed from
// those records alone. It returns the new store and the affected keys in
// order of first appearance.
func (s *PeriodStore) Apply(records []schema.StatusRecord) (*PeriodStore, []schema.PeriodKey) {
	var keys []schema.PeriodKey
	seen := make(map[schema.PeriodKey]struct{})
	for _, r := range records {
		key := schema.NewPeriodKey(r.Year, r.PICycle)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	next := &PeriodStore{periods: maps.Clone(s.periods)}
	if next.periods == nil {
		next.periods = map[schema.PeriodKey][]schema.TargetAggregate{}
	}
	for _, key := range keys {
		next.periods[key] = agg.Aggregate(records, key.Year, key.PICycle)
	}
	return next, keys
}

// Get returns the aggregates for key, or an empty slice when the period is absent.
func (s *PeriodStore) Get(key schema.PeriodKey) []schema.TargetAggregate {
	if v, ok := s.periods[schema.NewPeriodKey(key.Year, key.PICycle)]; ok {
		return v
	}
	return []schema.TargetAggregate{}
}

// Has reports whether the store holds key.
func (s *PeriodStore) Has(key schema.PeriodKey) bool {
	_, ok := s.periods[schema.NewPeriodKey(key.Year, key.PICycle)]
	return ok
}

// Len returns the number of periods.
func (s *PeriodStore) Len() int {
	return len(s.periods)
}

// Keys returns every period sorted by year then PI cycle.
func (s *PeriodStore) Keys() []schema.PeriodKey {
	keys := slices.Collect(maps.Keys(s.periods))
	slices.SortFunc(keys, func(a, b schema.PeriodKey) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.PICycle, b.PICycle)
	})
	return keys
}

// AvailableYears returns the distinct years in ascending string order.
func (s *PeriodStore) AvailableYears() []string {
	set := make(map[string]struct{})
	for k := range s.periods {
		set[k.Year] = struct{}{}
	}
	years := slices.Collect(maps.Keys(set))
	slices.Sort(years)
	return years
}

// AvailablePICycles returns the PI cycles recorded for year in ascending order.
func (s *PeriodStore) AvailablePICycles(year string) []string {
	var cycles []string
	for k := range s.periods {
		if k.Year == year {
			cycles = append(cycles, k.PICycle)
		}
	}
	slices.Sort(cycles)
	return cycles
}

// DefaultKeyForYear picks PI3 when the year has it, else its first PI cycle.
func (s *PeriodStore) DefaultKeyForYear(year string) (schema.PeriodKey, bool) {
	cycles := s.AvailablePICycles(year)
	if len(cycles) == 0 {
		return schema.PeriodKey{}, false
	}
	if slices.Contains(cycles, contract.PreferredPICycle) {
		return schema.PeriodKey{Year: year, PICycle: contract.PreferredPICycle}, true
	}
	return schema.PeriodKey{Year: year, PICycle: cycles[0]}, true
}

// DefaultKey is the initial selection: the latest year and its default PI cycle.
func (s *PeriodStore) DefaultKey() (schema.PeriodKey, bool) {
	years := s.AvailableYears()
	if len(years) == 0 {
		return schema.PeriodKey{}, false
	}
	return s.DefaultKeyForYear(years[len(years)-1])
}

// Listing describes the available periods for selectors.
func (s *PeriodStore) Listing() schema.PeriodListing {
	years := s.AvailableYears()
	cycles := make(map[string][]string, len(years))
	for _, y := range years {
		cycles[y] = s.AvailablePICycles(y)
	}
	def, _ := s.DefaultKey()
	return schema.PeriodListing{Years: years, Cycles: cycles, Default: def}
}
