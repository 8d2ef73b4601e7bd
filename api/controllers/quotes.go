package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlandtools/commerce-backend/api/responses"
	"github.com/harlandtools/commerce-backend/api/validators"
	"github.com/harlandtools/commerce-backend/internal/pricing"
	"github.com/harlandtools/commerce-backend/internal/tax"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
	"github.com/harlandtools/commerce-backend/pkg/logger"
)

// QuoteService is the pricing surface the quote endpoints depend on.
type QuoteService interface {
	Quote(ctx context.Context, input pricing.QuoteInput) (*pricing.Result, error)
	Get(ctx context.Context, id string) (*models.OrderQuote, error)
}

// QuoteLineRequest is one requested cart entry.
type QuoteLineRequest struct {
	ProductCode string `json:"product_code" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// QuoteRequest is the POST /v1/quotes payload. An empty lines list is a
// valid cart and prices to zero.
type QuoteRequest struct {
	Lines              []QuoteLineRequest `json:"lines" validate:"dive"`
	DestinationCountry string             `json:"destination_country" validate:"required,len=2"`
	HasValidVATNumber  bool               `json:"has_valid_vat_number"`
}

// CreateQuote prices a cart and returns the full breakdown.
func CreateQuote(svc QuoteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload QuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := pricing.QuoteInput{
			Lines: make([]pricing.CartLine, 0, len(payload.Lines)),
			Tax: tax.Context{
				DestinationCountry: payload.DestinationCountry,
				HasValidVATNumber:  payload.HasValidVATNumber,
			},
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, pricing.CartLine{
				ProductCode: line.ProductCode,
				Quantity:    line.Quantity,
			})
		}

		result, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// QuoteDetail returns a previously stored quote.
func QuoteDetail(svc QuoteService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		quoteID := chi.URLParam(r, "quoteId")
		if quoteID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required"))
			return
		}

		quote, err := svc.Get(r.Context(), quoteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
