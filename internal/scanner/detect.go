package scanner

import (
	"sort"

	"github.com/shopspring/decimal"
)

var decHundred = decimal.NewFromInt(100)

// Detect enumerates every exchange pair per canonical symbol and emits an
// Opportunity when the absolute funding-rate difference reaches the
// threshold. The comparison is inclusive: a difference exactly equal to the
// threshold qualifies. Symbols listed on fewer than two exchanges are
// skipped. Output order is symbol-major (lexicographic), then pair order
// within the registry's exchange order.
func Detect(reg *Registry, threshold decimal.Decimal) []Opportunity {
	exchanges := reg.Exchanges()
	opportunities := make([]Opportunity, 0)

	for _, sym := range reg.Symbols() {
		available := make([]string, 0, len(exchanges))
		for _, ex := range exchanges {
			if _, ok := reg.Lookup(ex, sym); ok {
				available = append(available, ex)
			}
		}
		if len(available) < 2 {
			continue
		}

		for i := 0; i < len(available); i++ {
			for j := i + 1; j < len(available); j++ {
				e1, e2 := available[i], available[j]
				rec1, _ := reg.Lookup(e1, sym)
				rec2, _ := reg.Lookup(e2, sym)

				diff := rec1.Rate.Sub(rec2.Rate).Abs()
				if diff.LessThan(threshold) {
					continue
				}

				opportunities = append(opportunities, buildOpportunity(sym, e1, e2, rec1, rec2, diff))
			}
		}
	}

	return opportunities
}

func buildOpportunity(sym, e1, e2 string, rec1, rec2 FundingRecord, diff decimal.Decimal) Opportunity {
	shortEx, longEx := e2, e1
	if rec1.Rate.GreaterThan(rec2.Rate) {
		shortEx, longEx = e1, e2
	}

	priceDiff := rec1.MarkPrice.Sub(rec2.MarkPrice).Abs()
	spread := decimal.Zero
	if rec1.MarkPrice.IsPositive() && rec2.MarkPrice.IsPositive() {
		avg := rec1.MarkPrice.Add(rec2.MarkPrice).Div(decimal.NewFromInt(2))
		spread = priceDiff.Div(avg).Mul(decHundred)
	}

	return Opportunity{
		Symbol:        sym,
		Exchange1:     e1,
		Exchange2:     e2,
		Rate1:         rec1.Rate,
		Rate2:         rec2.Rate,
		Diff:          diff,
		ShortExchange: shortEx,
		LongExchange:  longEx,
		NextFunding1:  rec1.NextFundingTime,
		NextFunding2:  rec2.NextFundingTime,
		Price1:        rec1.MarkPrice,
		Price2:        rec2.MarkPrice,
		PriceDiff:     priceDiff,
		SpreadPct:     spread,
	}
}

// Rank orders opportunities by descending rate difference. The sort is
// stable: ties keep the enumeration order established by Detect.
func Rank(opportunities []Opportunity) []Opportunity {
	ranked := make([]Opportunity, len(opportunities))
	copy(ranked, opportunities)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Diff.GreaterThan(ranked[j].Diff)
	})
	return ranked
}
