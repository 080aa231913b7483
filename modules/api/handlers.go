package api

import (
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	userdomain "github.com/VinniciusRRosario/PMCsoftware/domain/user"
	"github.com/VinniciusRRosario/PMCsoftware/modules/auth"
	"github.com/VinniciusRRosario/PMCsoftware/modules/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/modules/client"
	"github.com/VinniciusRRosario/PMCsoftware/modules/dashboard"
	"github.com/VinniciusRRosario/PMCsoftware/modules/order"
)

// Ports are the module APIs the HTTP layer drives.
type Ports struct {
	Auth      auth.AuthPort
	Catalog   catalog.CatalogPort
	Clients   client.ClientPort
	Orders    order.OrderPort
	Dashboard dashboard.DashboardPort
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	ports  Ports
	logger types.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ports Ports, logger types.Logger) *Handlers {
	return &Handlers{ports: ports, logger: logger}
}

func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	return writeError(c, h.logger, err)
}

// Auth

// SignIn handles POST /auth/sign-in.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// Refresh handles POST /auth/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}
	resp, err := h.ports.Auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// Session handles GET /auth/session.
func (h *Handlers) Session(c *fiber.Ctx) error {
	session, ok := c.Locals(UserContextKey).(*userdomain.Session)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "No session",
		})
	}
	return c.JSON(session)
}

// SignOut handles POST /auth/sign-out. It always succeeds.
func (h *Handlers) SignOut(c *fiber.Ctx) error {
	var req SignOutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}
	token, _ := c.Locals(TokenContextKey).(string)
	if err := h.ports.Auth.SignOut(c.UserContext(), token, req.RefreshToken); err != nil {
		h.logger.Warn("Sign-out failed", "error", err)
	}
	return c.JSON(fiber.Map{"signed_out": true})
}

// Products

// ListProducts handles GET /products.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	resp, err := h.ports.Catalog.ListProducts(c.UserContext(), c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// ListCategories handles GET /products/categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	resp, err := h.ports.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// GetProduct handles GET /products/:id.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	resp, err := h.ports.Catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// CreateProduct handles POST /products.
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	var req catalog.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Catalog.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateProduct handles PUT /products/:id.
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	var req catalog.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.ID = c.Params("id")
	resp, err := h.ports.Catalog.UpdateProduct(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// DeleteProduct handles DELETE /products/:id.
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	if err := h.ports.Catalog.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteProducts handles POST /products/bulk-delete.
func (h *Handlers) DeleteProducts(c *fiber.Ctx) error {
	var req IDsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Catalog.DeleteProducts(c.UserContext(), req.IDs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// AdjustStock handles POST /products/:id/stock.
func (h *Handlers) AdjustStock(c *fiber.Ctx) error {
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Catalog.AdjustStock(c.UserContext(), &catalog.AdjustStockRequest{
		ID:        c.Params("id"),
		Amount:    req.Amount,
		Direction: req.Direction,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// Clients

// ListClients handles GET /clients.
func (h *Handlers) ListClients(c *fiber.Ctx) error {
	resp, err := h.ports.Clients.ListClients(c.UserContext(), c.Query("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// GetClient handles GET /clients/:id.
func (h *Handlers) GetClient(c *fiber.Ctx) error {
	resp, err := h.ports.Clients.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// CreateClient handles POST /clients.
func (h *Handlers) CreateClient(c *fiber.Ctx) error {
	var req client.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Clients.CreateClient(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateClient handles PUT /clients/:id.
func (h *Handlers) UpdateClient(c *fiber.Ctx) error {
	var req client.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.ID = c.Params("id")
	resp, err := h.ports.Clients.UpdateClient(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// DeleteClient handles DELETE /clients/:id.
func (h *Handlers) DeleteClient(c *fiber.Ctx) error {
	if err := h.ports.Clients.DeleteClient(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Orders

// ListOrders handles GET /orders?view=active|history|all.
func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	resp, err := h.ports.Orders.ListOrders(c.UserContext(), c.Query("view"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// CreateOrder handles POST /orders.
func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	var req order.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Orders.CreateOrder(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// QuoteOrder handles POST /orders/quote.
func (h *Handlers) QuoteOrder(c *fiber.Ctx) error {
	var req order.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Orders.QuoteOrder(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// GetOrder handles GET /orders/:id.
func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	resp, err := h.ports.Orders.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// DeleteOrders handles POST /orders/bulk-delete.
func (h *Handlers) DeleteOrders(c *fiber.Ctx) error {
	var req IDsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Orders.DeleteOrders(c.UserContext(), req.IDs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// FinishOrder handles POST /orders/:id/finish.
func (h *Handlers) FinishOrder(c *fiber.Ctx) error {
	var req FinishRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Orders.FinishOrder(c.UserContext(), &order.FinishOrderRequest{
		ID:      c.Params("id"),
		Confirm: req.Confirm,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// ConfirmProduction handles POST /orders/items/:itemId/production.
func (h *Handlers) ConfirmProduction(c *fiber.Ctx) error {
	var req ProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.ports.Orders.ConfirmProduction(c.UserContext(), &order.ConfirmProductionRequest{
		ItemID:        c.Params("itemId"),
		Quantity:      req.Quantity,
		AllowOverflow: req.AllowOverflow,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// Dashboard handles GET /dashboard.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	resp, err := h.ports.Dashboard.GetDashboard(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}
