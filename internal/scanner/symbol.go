package scanner

import (
	"strings"
)

// CanonicalQuote is the quote suffix every canonical symbol ends with.
// Instruments that cannot be expressed against it are excluded from
// cross-exchange comparison.
const CanonicalQuote = "USDT"

var separatorReplacer = strings.NewReplacer("-", "", "_", "")

// SymbolRule applies one exchange's identifier quirks after the generic
// uppercase/separator cleanup. Returning false rejects the instrument,
// which is an expected outcome rather than an error.
type SymbolRule interface {
	Apply(sym string) (string, bool)
}

// Normalizer maps raw per-exchange identifiers onto the canonical symbol
// space using a rule table keyed by exchange name. Exchanges without an
// entry get the default rule for natively USDT-quoted venues.
type Normalizer struct {
	rules       map[string]SymbolRule
	defaultRule SymbolRule
}

// NewNormalizer builds the rule table for the supported exchanges.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		rules: map[string]SymbolRule{
			// CoinDCX lists perpetuals as B-BTC_USDT; after separator
			// stripping the market-type prefix letter remains.
			"CoinDCX": stripPrefixRule{prefix: "B"},
			// Delta India quotes its USDT-settled perpetuals with a bare
			// USD suffix (BTCUSD).
			"Delta": coerceQuoteRule{},
		},
		defaultRule: rejectInverseRule{},
	}
}

// Normalize returns the canonical symbol for a raw identifier, or false if
// the instrument has no canonical representation. Pure and total: same
// input always yields same output, and rejection never raises.
func (n *Normalizer) Normalize(raw, exchange string) (string, bool) {
	sym := separatorReplacer.Replace(strings.ToUpper(raw))

	rule, ok := n.rules[exchange]
	if !ok {
		rule = n.defaultRule
	}

	sym, ok = rule.Apply(sym)
	if !ok {
		return "", false
	}

	if !strings.HasSuffix(sym, CanonicalQuote) {
		return "", false
	}
	return sym, true
}

// stripPrefixRule removes a leading non-instrument token.
type stripPrefixRule struct {
	prefix string
}

func (r stripPrefixRule) Apply(sym string) (string, bool) {
	return strings.TrimPrefix(sym, r.prefix), true
}

// coerceQuoteRule appends the canonical quote's trailing character to a
// bare USD suffix. Symbols already quoted in USDT, or in the look-alike
// USDC, pass through untouched and are never coerced.
type coerceQuoteRule struct{}

func (coerceQuoteRule) Apply(sym string) (string, bool) {
	if strings.HasSuffix(sym, "USD") && !strings.HasSuffix(sym, "USDT") && !strings.HasSuffix(sym, "USDC") {
		return sym + "T", true
	}
	return sym, true
}

// rejectInverseRule drops coin-margined contracts on venues that quote
// linear perpetuals in USDT natively. A bare USD suffix there denotes a
// different settlement currency and must not be merged with the USDT
// instrument.
type rejectInverseRule struct{}

func (rejectInverseRule) Apply(sym string) (string, bool) {
	if strings.HasSuffix(sym, "USD") && !strings.HasSuffix(sym, "USDT") && !strings.HasSuffix(sym, "USDC") {
		return "", false
	}
	return sym, true
}
