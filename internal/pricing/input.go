package pricing

import (
	"github.com/harlandtools/commerce-backend/internal/tax"
)

// CartLine is one requested cart entry. Quantities are validated before
// any pricing work begins.
type CartLine struct {
	ProductCode string
	Quantity    int
}

// QuoteInput is everything one pricing invocation needs beyond the
// reference-data snapshot.
type QuoteInput struct {
	Lines []CartLine
	Tax   tax.Context
}
