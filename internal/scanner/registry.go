package scanner

import (
	"sort"

	"github.com/rs/zerolog"
)

// Registry holds the normalized funding snapshot for one scan: exchange
// name to canonical symbol to FundingRecord. It is built fresh per scan and
// read-only afterwards.
type Registry struct {
	order   []string
	records map[string]map[string]FundingRecord
}

// BuildRegistry runs the normalizer over each adapter's output. Instruments
// the normalizer rejects are silently dropped. If two raw symbols on the
// same exchange collapse to one canonical key the later record wins and a
// warning names both raws; exchange listings should make this unreachable.
func BuildRegistry(sets []RecordSet, norm *Normalizer, logger zerolog.Logger) *Registry {
	reg := &Registry{
		order:   make([]string, 0, len(sets)),
		records: make(map[string]map[string]FundingRecord, len(sets)),
	}

	for _, set := range sets {
		reg.order = append(reg.order, set.Exchange)
		byCanonical := make(map[string]FundingRecord, len(set.Records))
		origins := make(map[string]string, len(set.Records))

		for _, raw := range set.Records {
			canonical, ok := norm.Normalize(raw.Symbol, set.Exchange)
			if !ok {
				continue
			}
			if prev, dup := origins[canonical]; dup {
				logger.Warn().
					Str("exchange", set.Exchange).
					Str("canonical", canonical).
					Str("replaced", prev).
					Str("kept", raw.Symbol).
					Msg("duplicate canonical symbol on one exchange, keeping the later record")
			}
			origins[canonical] = raw.Symbol
			byCanonical[canonical] = raw.FundingRecord
		}

		reg.records[set.Exchange] = byCanonical
	}

	return reg
}

// Exchanges returns the exchange names in the order their record sets were
// supplied. Pair enumeration depends on this order being stable.
func (r *Registry) Exchanges() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the funding record for a canonical symbol on an exchange.
func (r *Registry) Lookup(exchange, symbol string) (FundingRecord, bool) {
	rec, ok := r.records[exchange][symbol]
	return rec, ok
}

// Count reports how many instruments an exchange contributed.
func (r *Registry) Count(exchange string) int {
	return len(r.records[exchange])
}

// Symbols returns the union of canonical symbols across all exchanges in
// lexicographic order.
func (r *Registry) Symbols() []string {
	seen := make(map[string]struct{})
	for _, byCanonical := range r.records {
		for sym := range byCanonical {
			seen[sym] = struct{}{}
		}
	}
	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}
