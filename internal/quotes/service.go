package quotes

import (
	"context"

	"github.com/harlandtools/commerce-backend/internal/catalog"
	"github.com/harlandtools/commerce-backend/internal/pricing"
	"github.com/harlandtools/commerce-backend/pkg/db/models"
	pkgerrors "github.com/harlandtools/commerce-backend/pkg/errors"
	"github.com/harlandtools/commerce-backend/pkg/logger"
)

// SnapshotSource yields the reference-data snapshot a quote runs against.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Service prices carts against the current catalog snapshot and optionally
// records the result.
type Service struct {
	source  SnapshotSource
	engine  *pricing.Engine
	repo    *Repository
	persist bool
	logg    *logger.Logger
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Source  SnapshotSource
	Engine  *pricing.Engine
	Repo    *Repository
	Persist bool
	Logger  *logger.Logger
}

// NewService validates the wiring. Repo may be nil when persistence is
// disabled.
func NewService(params ServiceParams) (*Service, error) {
	if params.Source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "snapshot source required")
	}
	if params.Engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing engine required")
	}
	if params.Persist && params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "quote repository required when persistence is enabled")
	}
	return &Service{
		source:  params.Source,
		engine:  params.Engine,
		repo:    params.Repo,
		persist: params.Persist,
		logg:    params.Logger,
	}, nil
}

// Quote prices the cart. Persistence failures are logged, not surfaced:
// the customer still gets the quote they asked for.
func (s *Service) Quote(ctx context.Context, input pricing.QuoteInput) (*pricing.Result, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Price(ctx, snap, nil, input)
	if err != nil {
		return nil, err
	}

	if s.persist && s.repo != nil {
		if _, err := s.repo.Save(ctx, result, input.Tax.DestinationCountry); err != nil && s.logg != nil {
			s.logg.Error(ctx, "quotes.persist_failed", err)
		}
	}
	return result, nil
}

// Get loads a stored quote by id.
func (s *Service) Get(ctx context.Context, id string) (*models.OrderQuote, error) {
	if s.repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote persistence is disabled")
	}
	return s.repo.Get(ctx, id)
}
