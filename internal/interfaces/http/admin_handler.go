package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pedidos-api/internal/application/archive"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/jwt"
)

// AdminHandler maneja la consola admin: login, tablero, transiciones,
// archivado y el histórico.
type AdminHandler struct {
	tenants    repository.TenantRepository
	transition *orders.TransitionUseCase
	archive    *archive.ArchiveUseCase
	jwtSecret  string
	jwtIssuer  string
	jwtExpMin  int
}

// NewAdminHandler construye el handler.
func NewAdminHandler(
	tenants repository.TenantRepository,
	transition *orders.TransitionUseCase,
	archiveUC *archive.ArchiveUseCase,
	jwtSecret, jwtIssuer string,
	jwtExpMin int,
) *AdminHandler {
	return &AdminHandler{
		tenants:    tenants,
		transition: transition,
		archive:    archiveUC,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		jwtExpMin:  jwtExpMin,
	}
}

type loginRequest struct {
	Hostname string `json:"hostname"`
	Password string `json:"password"`
}

// Login godoc
// @Summary      Login de la consola admin del restaurante
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "hostname del restaurante y contraseña admin"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/admin/login [post]
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.tenants.GetByHostname(c.Context(), in.Hostname)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if t == nil || bcrypt.CompareHashAndPassword([]byte(t.AdminPasswordHash), []byte(in.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	token, err := jwt.Generate(h.jwtSecret, t.ID, t.ID, "admin", h.jwtIssuer, h.jwtExpMin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"token": token})
}

// ListOrders godoc
// @Summary      Conjunto vivo de pedidos (tablero kanban)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/admin/orders [get]
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	live, err := h.transition.ListLive(c.Context(), tenantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.FromOrders(live))
}

type transitionRequest struct {
	Status string `json:"status"`
}

// TransitionStatus godoc
// @Summary      Mover un pedido de columna en el tablero
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del pedido"
// @Param        body  body  transitionRequest  true  "estado destino"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id}/status [patch]
func (h *AdminHandler) TransitionStatus(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in transitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	o, err := h.transition.Transition(c.Context(), tenantID, c.Params("id"), in.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
		case errors.Is(err, domain.ErrIllegalTransition):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ILLEGAL_TRANSITION", Message: "transición de estado no permitida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.FromOrder(*o))
}

// ArchiveOne godoc
// @Summary      Archivar un pedido listo (sale del tablero al histórico)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id}/archive [post]
func (h *AdminHandler) ArchiveOne(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	err := h.archive.ArchiveOne(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
		case errors.Is(err, domain.ErrIllegalTransition):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_READY", Message: "solo un pedido en lista puede archivarse"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "pedido archivado"})
}

type sweepRequest struct {
	DaysOld int `json:"days_old"`
}

// Sweep godoc
// @Summary      Archivar todo pedido anterior al corte, sin importar estado
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  sweepRequest  true  "antigüedad mínima en días"
// @Success      200   {object}  map[string]int
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/admin/orders/sweep [post]
func (h *AdminHandler) Sweep(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in sweepRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.DaysOld <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "days_old debe ser mayor que cero"})
	}
	cutoff, err := h.archive.CutoffAtMidnight(c.Context(), tenantID, in.DaysOld)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	moved, err := h.archive.SweepOlderThan(c.Context(), tenantID, cutoff)
	if err != nil {
		// Lo ya movido queda movido; el siguiente barrido retoma.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PARTIAL_SWEEP", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"archived": moved})
}

// ListHistory godoc
// @Summary      Histórico de pedidos de un año (incluye soft-deleted)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "año; por defecto el actual"
// @Success      200   {array}  dto.ArchivedOrderResponse
// @Router       /api/admin/history [get]
func (h *AdminHandler) ListHistory(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	year := c.QueryInt("year", time.Now().Year())
	archived, err := h.archive.ListHistory(c.Context(), tenantID, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ArchivedOrderResponse, 0, len(archived))
	for _, a := range archived {
		out = append(out, dto.FromArchivedOrder(a))
	}
	return c.JSON(out)
}

type softDeleteRequest struct {
	Secret string `json:"secret"`
}

// ToggleSoftDelete godoc
// @Summary      Invertir el borrado lógico de un pedido archivado
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del pedido archivado"
// @Param        body  body  softDeleteRequest  true  "secreto de borrado del restaurante"
// @Success      200   {object}  dto.ArchivedOrderResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/history/{id}/softdelete [post]
func (h *AdminHandler) ToggleSoftDelete(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in softDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	a, err := h.archive.ToggleSoftDelete(c.Context(), tenantID, c.Params("id"), in.Secret)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "WRONG_SECRET", Message: "secreto de borrado incorrecto"})
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrTenantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido archivado no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.FromArchivedOrder(*a))
}
