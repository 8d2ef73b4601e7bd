package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlandtools/commerce-backend/api/controllers"
	"github.com/harlandtools/commerce-backend/api/middleware"
	"github.com/harlandtools/commerce-backend/pkg/config"
	"github.com/harlandtools/commerce-backend/pkg/db"
	"github.com/harlandtools/commerce-backend/pkg/logger"
	"github.com/harlandtools/commerce-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	quoteService controllers.QuoteService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1/quotes", func(r chi.Router) {
		r.Post("/", controllers.CreateQuote(quoteService, logg))
		r.Get("/{quoteId}", controllers.QuoteDetail(quoteService, logg))
	})

	return r
}
