package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harlandtools/commerce-backend/internal/catalog"
	"github.com/harlandtools/commerce-backend/internal/tax"
	"github.com/harlandtools/commerce-backend/pkg/enums"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
	"github.com/harlandtools/commerce-backend/pkg/logger"
	"github.com/harlandtools/commerce-backend/pkg/money"
)

// TaxResolver is the VAT surface the engine depends on.
type TaxResolver interface {
	Resolve(tc tax.Context, taxable decimal.Decimal) (tax.Assessment, error)
}

// Engine turns a cart plus a reference-data snapshot into a priced,
// taxed, shipped result. It holds no mutable state: concurrent Price
// calls need no synchronization.
type Engine struct {
	tax  TaxResolver
	logg *logger.Logger
}

// NewEngine wires the engine to its collaborators.
func NewEngine(resolver TaxResolver, logg *logger.Logger) (*Engine, error) {
	if resolver == nil {
		return nil, fmt.Errorf("tax resolver required")
	}
	return &Engine{tax: resolver, logg: logg}, nil
}

// pipelineItem carries one resolved cart line through classification and
// pricing while preserving the original line order.
type pipelineItem struct {
	request  CartLine
	product  resolvedProduct
	unit     decimal.Decimal
	discount string
}

type resolvedProduct struct {
	code        string
	description string
	basePrice   decimal.Decimal
	category    string
	productType enums.ProductType
	pricingTier string
	currency    enums.Currency
}

// Price computes the full quote. Per-line problems degrade and accumulate
// in validation_errors; only structurally invalid input or an unservable
// destination fail the request.
func (e *Engine) Price(ctx context.Context, snap *catalog.Snapshot, strategy TierStrategy, input QuoteInput) (*Result, error) {
	if snap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing snapshot required")
	}
	if strategy == nil {
		strategy = NewBreakpointStrategy(snap)
	}

	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("line %q: quantity must be positive", line.ProductCode))
		}
	}

	if len(input.Lines) == 0 {
		return zeroResult(), nil
	}

	validationErrors := []string{}

	items, skipped := e.resolveLines(ctx, snap, input.Lines)
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references no catalog products")
	}
	if skipped > 0 && e.logg != nil {
		e.logg.Warn(e.logg.WithField(ctx, "skipped_lines", skipped), "pricing.unknown_products_skipped")
	}

	discount := e.toolLadderDiscount(ctx, snap, items)

	for _, item := range items {
		switch item.product.productType {
		case enums.ProductTypeTool:
			item.unit = money.PercentOff(item.product.basePrice, discount.pct)
			if discount.pct.Sign() > 0 {
				item.discount = discount.label
			}
			if item.unit.IsNegative() || item.unit.GreaterThan(item.product.basePrice) {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s: ladder discount produced unit price %s outside 0..base", item.product.code, item.unit))
				item.unit = item.product.basePrice
				item.discount = ""
			}
		case enums.ProductTypeConsumable:
			quote := strategy.PriceLine(ConsumableLine{
				ProductCode: item.product.code,
				Category:    item.product.category,
				PricingTier: item.product.pricingTier,
				Quantity:    item.request.Quantity,
				BasePrice:   item.product.basePrice,
			})
			validationErrors = append(validationErrors, quote.ValidationErrors...)
			item.unit = quote.UnitPrice
			item.discount = quote.DiscountApplied
			// The safe fallback for any inconsistency is the base price.
			if item.unit.IsNegative() || item.unit.GreaterThan(item.product.basePrice) {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s: strategy returned unit price %s outside 0..base", item.product.code, item.unit))
				item.unit = item.product.basePrice
				item.discount = ""
			}
		default:
			item.unit = item.product.basePrice
		}
	}

	return e.aggregate(ctx, snap, input.Tax, items, validationErrors)
}

// resolveLines drops lines whose product code is absent from the
// snapshot; callers validated cart contents beforehand, so an unknown
// code is skipped rather than failing the whole request.
func (e *Engine) resolveLines(ctx context.Context, snap *catalog.Snapshot, lines []CartLine) ([]*pipelineItem, int) {
	items := make([]*pipelineItem, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		product, ok := snap.Product(line.ProductCode)
		if !ok {
			skipped++
			if e.logg != nil {
				e.logg.Warn(e.logg.WithProductCode(ctx, line.ProductCode), "pricing.product_not_in_catalog")
			}
			continue
		}
		tier := ""
		if product.PricingTier != nil {
			tier = *product.PricingTier
		}
		items = append(items, &pipelineItem{
			request: line,
			product: resolvedProduct{
				code:        product.ProductCode,
				description: product.Description,
				basePrice:   product.BasePrice,
				category:    product.Category,
				productType: product.ProductType,
				pricingTier: tier,
				currency:    product.Currency,
			},
		})
	}
	return items, skipped
}

// toolLadderDiscount sums quantities across every tool line and looks up
// the single ladder row covering the total. A duplicate-match ladder is a
// data-integrity problem: logged, and the cart degrades to 0% discount.
func (e *Engine) toolLadderDiscount(ctx context.Context, snap *catalog.Snapshot, items []*pipelineItem) toolDiscount {
	totalToolQty := 0
	for _, item := range items {
		if item.product.productType == enums.ProductTypeTool {
			totalToolQty += item.request.Quantity
		}
	}
	if totalToolQty == 0 {
		return toolDiscount{pct: decimal.Zero}
	}

	tier, ok, err := snap.Ladder().Select(totalToolQty)
	if err != nil {
		if e.logg != nil {
			e.logg.Error(e.logg.WithField(ctx, "total_tool_qty", totalToolQty), "pricing.ladder_integrity", err)
		}
		return toolDiscount{pct: decimal.Zero}
	}
	if !ok {
		// No covering row means the ladder has a coverage hole; the
		// cart still prices, at full price.
		if e.logg != nil {
			e.logg.Warn(e.logg.WithField(ctx, "total_tool_qty", totalToolQty), "pricing.ladder_gap")
		}
		return toolDiscount{pct: decimal.Zero}
	}
	return toolDiscount{pct: tier.DiscountPct, label: toolLadderLabel(tier)}
}

func (e *Engine) aggregate(ctx context.Context, snap *catalog.Snapshot, taxCtx tax.Context, items []*pipelineItem, validationErrors []string) (*Result, error) {
	subtotal := decimal.Zero
	savings := decimal.Zero
	lineItems := make([]PricedLine, 0, len(items))

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.request.Quantity))
		lineTotal := item.unit.Mul(qty)
		subtotal = subtotal.Add(lineTotal)
		savings = savings.Add(item.product.basePrice.Sub(item.unit).Mul(qty))

		var label *string
		if item.discount != "" {
			value := item.discount
			label = &value
		}
		lineItems = append(lineItems, PricedLine{
			ProductCode:     item.product.code,
			Description:     item.product.description,
			Quantity:        item.request.Quantity,
			BasePrice:       money.FromDecimal(item.product.basePrice),
			UnitPrice:       money.FromDecimal(item.unit),
			LineTotal:       money.FromDecimal(lineTotal),
			DiscountApplied: label,
			Currency:        item.product.currency,
		})
	}

	shippingCost, err := snap.Shipping().Cost(taxCtx.DestinationCountry, subtotal)
	if err != nil {
		return nil, err
	}

	// VAT is charged on shipping too.
	assessment, err := e.tax.Resolve(taxCtx, subtotal.Add(shippingCost))
	if err != nil {
		return nil, err
	}

	var exemptReason *string
	if assessment.ExemptReason != "" {
		reason := assessment.ExemptReason
		exemptReason = &reason
	}

	total := subtotal.Add(shippingCost).Add(assessment.Amount)
	if e.logg != nil {
		logCtx := e.logg.WithFields(ctx, map[string]any{
			"line_count":  len(lineItems),
			"destination": taxCtx.DestinationCountry,
			"tax_rule":    assessment.RuleName,
		})
		e.logg.Info(logCtx, "pricing.quote_computed")
	}

	return &Result{
		LineItems:        lineItems,
		Subtotal:         money.FromDecimal(subtotal),
		Shipping:         money.FromDecimal(shippingCost),
		VATAmount:        money.FromDecimal(assessment.Amount),
		VATRate:          assessment.Rate,
		VATExemptReason:  exemptReason,
		Total:            money.FromDecimal(total),
		TotalSavings:     money.FromDecimal(savings),
		ValidationErrors: validationErrors,
	}, nil
}
