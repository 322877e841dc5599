package http

import (
	_ "github.com/DRSN-tech/vending-machine/docs" // Регистрация swagger-спецификации
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
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

func (r *Router) Init(machineUC usecase.MachineUC, checkoutUC usecase.CheckoutUC) {
	r.router.Use(middleware.RequestID, middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		handler := NewMachineHandler(machineUC, checkoutUC, r.logger)
		registerMachineRoutes(v1, handler)
	})
}

func registerMachineRoutes(router chi.Router, h *MachineHandler) {
	router.Get("/products", h.listProducts)
	router.Get("/vault", h.getVault)

	router.Route("/transaction", func(tr chi.Router) {
		tr.Get("/", h.getTransaction)
		tr.Delete("/", h.cancelTransaction)
		tr.Post("/product", h.selectProduct)
		tr.Post("/coins", h.insertCoin)
		tr.Post("/confirm", h.confirmPurchase)
	})
}
