package http

import (
	_ "github.com/DRSN-tech/pricing-engine/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(pricingUC usecase.PricingUC) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		priceHandler := NewPriceHandler(pricingUC, r.logger)
		registerPriceRoutes(v1, priceHandler)
	})
}

func registerPriceRoutes(router chi.Router, h *PriceHandler) {
	router.Route("/prices", func(pr chi.Router) {
		pr.Post("/", h.computeAll)
		pr.Post("/{productID}", h.computePrice)
		pr.Get("/{productID}/latest", h.getLatestPrice)
		pr.Get("/{productID}/history", h.getHistory)
	})
}
