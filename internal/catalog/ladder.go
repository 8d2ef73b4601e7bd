package catalog

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/pkg/db/models"
)

var maxDiscountPct = decimal.NewFromInt(100)

// Ladder is the validated tool quantity discount ladder. Validation runs
// once when reference data is loaded, not per pricing request.
type Ladder struct {
	rows   []models.ToolDiscountTier
	issues []string
}

// NewLadder filters the active rows, sorts them by min quantity, and
// records integrity issues (overlaps, gaps, inverted ranges, percentages
// outside 0-100). Issues do not fail construction: a broken ladder
// degrades to 0% discount at lookup, per the pricing contract. A row
// whose percentage cannot produce a valid unit price is excluded from
// lookup entirely.
func NewLadder(rows []models.ToolDiscountTier) Ladder {
	var issues []string
	active := make([]models.ToolDiscountTier, 0, len(rows))
	for _, row := range rows {
		if !row.Active {
			continue
		}
		if row.DiscountPct.IsNegative() || row.DiscountPct.GreaterThan(maxDiscountPct) {
			issues = append(issues, fmt.Sprintf("ladder row %d-%d: discount_pct %s outside 0-100", row.MinQty, row.MaxQty, row.DiscountPct))
			continue
		}
		active = append(active, row)
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].MinQty == active[j].MinQty {
			return active[i].MaxQty < active[j].MaxQty
		}
		return active[i].MinQty < active[j].MinQty
	})

	ladder := Ladder{rows: active, issues: issues}
	for i, row := range active {
		if row.MinQty < 1 {
			ladder.issues = append(ladder.issues, fmt.Sprintf("ladder row %d-%d: min_qty below 1", row.MinQty, row.MaxQty))
		}
		if row.MaxQty < row.MinQty {
			ladder.issues = append(ladder.issues, fmt.Sprintf("ladder row %d-%d: inverted range", row.MinQty, row.MaxQty))
		}
		if i == 0 {
			if row.MinQty > 1 {
				ladder.issues = append(ladder.issues, fmt.Sprintf("ladder does not cover quantities below %d", row.MinQty))
			}
			continue
		}
		prev := active[i-1]
		switch {
		case row.MinQty <= prev.MaxQty:
			ladder.issues = append(ladder.issues, fmt.Sprintf("ladder rows %d-%d and %d-%d overlap", prev.MinQty, prev.MaxQty, row.MinQty, row.MaxQty))
		case row.MinQty > prev.MaxQty+1:
			ladder.issues = append(ladder.issues, fmt.Sprintf("ladder gap between %d and %d", prev.MaxQty, row.MinQty))
		}
	}
	if n := len(active); n > 0 && active[n-1].MaxQty < models.ToolLadderSentinelMaxQty {
		ladder.issues = append(ladder.issues, fmt.Sprintf("ladder is not open-ended above %d", active[n-1].MaxQty))
	}
	return ladder
}

// Issues returns the integrity problems found at load time.
func (l Ladder) Issues() []string {
	return l.issues
}

// Rows exposes the active, sorted ladder rows.
func (l Ladder) Rows() []models.ToolDiscountTier {
	return l.rows
}

// Select returns the single active row covering qty. When more than one
// row matches, the data violated the non-overlap contract; the error lets
// the caller log and fall back to no discount.
func (l Ladder) Select(qty int) (models.ToolDiscountTier, bool, error) {
	var (
		selected models.ToolDiscountTier
		matches  int
	)
	for _, row := range l.rows {
		if row.Contains(qty) {
			if matches == 0 {
				selected = row
			}
			matches++
		}
	}
	switch {
	case matches == 0:
		return models.ToolDiscountTier{}, false, nil
	case matches > 1:
		return models.ToolDiscountTier{}, false, fmt.Errorf("%d active ladder rows match quantity %d", matches, qty)
	default:
		return selected, true, nil
	}
}
