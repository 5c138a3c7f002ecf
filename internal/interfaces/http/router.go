package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/archive"
	"github.com/jhoicas/Pedidos-api/internal/application/checkout"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	appsync "github.com/jhoicas/Pedidos-api/internal/application/sync"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TenantRepo repository.TenantRepository
	CheckoutUC *checkout.CheckoutUseCase
	Transition *orders.TransitionUseCase
	ArchiveUC  *archive.ArchiveUseCase
	Engine     *appsync.Engine
	Log        *logger.Logger
	JWTSecret  string
	JWTIssuer  string
	JWTExpMin  int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	streamHandler := NewStreamHandler(deps.Engine, deps.Log)

	// Rutas públicas del sitio del restaurante: el tenant se resuelve por hostname
	public := api.Group("/", TenantMiddleware(deps.TenantRepo))
	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC)
	public.Post("/checkout", checkoutHandler.Create)
	public.Get("/orders/stream", streamHandler.CustomerStream)

	// Consola admin
	adminHandler := NewAdminHandler(deps.TenantRepo, deps.Transition, deps.ArchiveUC, deps.JWTSecret, deps.JWTIssuer, deps.JWTExpMin)
	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)

	// Rutas protegidas (requieren Bearer Token con rol admin)
	protected := admin.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole("admin"))
	protected.Get("/orders", adminHandler.ListOrders)
	protected.Get("/orders/stream", streamHandler.AdminStream)
	protected.Post("/orders/sweep", adminHandler.Sweep)
	protected.Patch("/orders/:id/status", adminHandler.TransitionStatus)
	protected.Post("/orders/:id/archive", adminHandler.ArchiveOne)
	protected.Post("/streams/:id/ack", streamHandler.AckStream)
	protected.Get("/history", adminHandler.ListHistory)
	protected.Post("/history/:id/softdelete", adminHandler.ToggleSoftDelete)
}
