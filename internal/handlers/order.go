package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"github.com/andrevilar/romaneio-api/internal/middleware"
	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/andrevilar/romaneio-api/internal/rbac"
	"github.com/andrevilar/romaneio-api/internal/services"
	"github.com/andrevilar/romaneio-api/internal/view"
	"github.com/andrevilar/romaneio-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type OrderHandler struct {
	orderService  OrderServiceInterface
	schemaService SchemaServiceInterface
	userService   UserServiceInterface
	notifyService NotifyServiceInterface
	hub           HubInterface
}

func NewOrderHandler(
	orderService OrderServiceInterface,
	schemaService SchemaServiceInterface,
	userService UserServiceInterface,
	notifyService NotifyServiceInterface,
	hub HubInterface,
) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		schemaService: schemaService,
		userService:   userService,
		notifyService: notifyService,
		hub:           hub,
	}
}

func (h *OrderHandler) session(c *drift.Context) view.Session {
	return view.Session{
		UserID: middleware.GetUserID(c),
		Email:  middleware.GetUserEmail(c),
		Role:   middleware.GetUserRole(c),
	}
}

func (h *OrderHandler) actingUser(c *drift.Context) (*models.User, error) {
	return h.userService.GetByID(context.Background(), middleware.GetUserID(c))
}

// List composes the table the caller is entitled to see. Masters may
// narrow it to one account with ?account_id=.
func (h *OrderHandler) List(c *drift.Context) {
	ctx := context.Background()
	session := h.session(c)

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	orders, err := h.orderService.List(ctx, headers)
	if err != nil {
		c.InternalServerError("failed to load orders")
		return
	}

	if accountParam := c.QueryParam("account_id"); accountParam != "" {
		if session.Role != rbac.RoleMaster {
			c.Forbidden("insufficient permissions")
			return
		}
		accountID, err := uuid.Parse(accountParam)
		if err != nil {
			c.BadRequest("invalid account id")
			return
		}
		_ = c.JSON(200, view.ComposeForAccount(session, headers, orders, accountID))
		return
	}

	_ = c.JSON(200, view.Compose(session, headers, orders))
}

func (h *OrderHandler) Get(c *drift.Context) {
	ctx := context.Background()
	session := h.session(c)

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.BadRequest("invalid order id")
		return
	}

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	order, err := h.orderService.GetByID(ctx, orderID, headers)
	if err != nil {
		c.NotFound("order not found")
		return
	}

	// Clients may only observe their own rows; unresolved rows match no
	// client account.
	if !rbac.Can(session.Role, rbac.CapViewAllRows) {
		if order.OwnerID == "" || order.OwnerID != session.UserID.String() {
			c.NotFound("order not found")
			return
		}
	}

	_ = c.JSON(200, dto.NewOrderResponse(order))
}

func (h *OrderHandler) Create(c *drift.Context) {
	ctx := context.Background()

	var req dto.CreateOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	actingUser, err := h.actingUser(c)
	if err != nil {
		c.Unauthorized("not authenticated")
		return
	}

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	attachments, err := h.decodeUploads(req.Attachments)
	if err != nil {
		h.hub.SendToast(actingUser.ID, "Erro ao enviar documentos. Tente novamente.")
		c.BadRequest(err.Error())
		return
	}

	order, err := h.orderService.Create(ctx, req.Columns, attachments, headers, actingUser)
	if err != nil {
		c.InternalServerError("failed to create order")
		return
	}

	h.hub.BroadcastOrderEvent("order_created", order.ID, order.OwnerID, order.Status, actingUser.ID)

	_ = c.JSON(201, dto.NewOrderResponse(order))
}

func (h *OrderHandler) Update(c *drift.Context) {
	ctx := context.Background()

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.BadRequest("invalid order id")
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	actingUser, err := h.actingUser(c)
	if err != nil {
		c.Unauthorized("not authenticated")
		return
	}

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	status := req.Status
	if status == "" {
		current, err := h.orderService.GetByID(ctx, orderID, headers)
		if err != nil {
			c.NotFound("order not found")
			return
		}
		status = current.Status
	} else if !models.ValidStatus(status) {
		c.BadRequest("invalid status")
		return
	}

	order, err := h.orderService.UpdateRow(ctx, orderID, req.Columns, status, headers, actingUser)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.NotFound("order not found")
			return
		}
		c.InternalServerError("failed to update order")
		return
	}

	h.hub.BroadcastOrderEvent("order_updated", order.ID, order.OwnerID, order.Status, actingUser.ID)

	_ = c.JSON(200, dto.NewOrderResponse(order))
}

func (h *OrderHandler) WriteCell(c *drift.Context) {
	ctx := context.Background()

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.BadRequest("invalid order id")
		return
	}

	var req dto.WriteCellRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	actingUser, err := h.actingUser(c)
	if err != nil {
		c.Unauthorized("not authenticated")
		return
	}

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	order, err := h.orderService.WriteCell(ctx, orderID, req.ColIndex, req.Value, headers, actingUser)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.NotFound("order not found")
			return
		}
		c.BadRequest(err.Error())
		return
	}

	h.hub.BroadcastOrderEvent("order_updated", order.ID, order.OwnerID, order.Status, actingUser.ID)

	_ = c.JSON(200, dto.NewOrderResponse(order))
}

// SetStatus drives the status workflow. The service enqueues the
// templated mail on an actual delta; this handler additionally fires the
// direct notification channel and an ephemeral acknowledgment toast,
// neither of which is awaited.
func (h *OrderHandler) SetStatus(c *drift.Context) {
	ctx := context.Background()

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.BadRequest("invalid order id")
		return
	}

	var req dto.SetStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if !models.ValidStatus(req.Status) {
		c.BadRequest("invalid status")
		return
	}

	actingUserID := middleware.GetUserID(c)

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	order, err := h.orderService.SetStatus(ctx, orderID, req.Status, headers)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.NotFound("order not found")
			return
		}
		c.InternalServerError("failed to update status")
		return
	}

	go func(recipient, status, orderID string) {
		if err := h.notifyService.SendStatusNotification(context.Background(), recipient, status, orderID); err != nil {
			log.Printf("status notification failed for order %s: %v", orderID, err)
		}
	}(order.OwnerEmail, order.Status, order.ID.String())

	h.hub.SendToast(actingUserID, fmt.Sprintf(
		"Notificação de e-mail para %s: status atualizado para %s.", order.OwnerEmail, order.Status))
	h.hub.BroadcastOrderEvent("order_updated", order.ID, order.OwnerID, order.Status, actingUserID)

	_ = c.JSON(200, dto.NewOrderResponse(order))
}

func (h *OrderHandler) Delete(c *drift.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.BadRequest("invalid order id")
		return
	}

	if err := h.orderService.Delete(context.Background(), orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.NotFound("order not found")
			return
		}
		c.InternalServerError("failed to delete order")
		return
	}

	h.hub.BroadcastOrderEvent("order_deleted", orderID, "", "", middleware.GetUserID(c))

	_ = c.JSON(200, map[string]string{"message": "order deleted"})
}

// AppendAttachments adds documents to a row. Encoding failure aborts
// before any write: the stored attachment list is never partially
// updated.
func (h *OrderHandler) AppendAttachments(c *drift.Context) {
	ctx := context.Background()

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.BadRequest("invalid order id")
		return
	}

	var req dto.AppendAttachmentsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if len(req.Attachments) == 0 {
		c.BadRequest("attachments are required")
		return
	}

	actingUserID := middleware.GetUserID(c)

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	attachments, err := h.decodeUploads(req.Attachments)
	if err != nil {
		h.hub.SendToast(actingUserID, "Erro ao enviar documentos. Tente novamente.")
		c.BadRequest(err.Error())
		return
	}

	order, err := h.orderService.AppendAttachments(ctx, orderID, attachments, headers)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.NotFound("order not found")
			return
		}
		h.hub.SendToast(actingUserID, "Erro ao enviar documentos. Tente novamente.")
		c.InternalServerError("failed to append attachments")
		return
	}

	h.hub.BroadcastOrderEvent("order_updated", order.ID, order.OwnerID, order.Status, actingUserID)

	_ = c.JSON(200, dto.NewOrderResponse(order))
}

// Forward builds the master's share payloads for one row.
func (h *OrderHandler) Forward(c *drift.Context) {
	ctx := context.Background()

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.BadRequest("invalid order id")
		return
	}

	headers, err := h.schemaService.LoadOrInitialize(ctx)
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}

	order, err := h.orderService.GetByID(ctx, orderID, headers)
	if err != nil {
		c.NotFound("order not found")
		return
	}

	_ = c.JSON(200, view.ComposeForward(*order))
}

func (h *OrderHandler) decodeUploads(uploads []dto.AttachmentUpload) ([]models.Attachment, error) {
	files := make([]services.FileUpload, 0, len(uploads))
	for _, upload := range uploads {
		content, err := base64.StdEncoding.DecodeString(upload.ContentBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid file content for %q", upload.Name)
		}
		files = append(files, services.FileUpload{Name: upload.Name, Content: content})
	}
	return services.EncodeAttachments(files)
}
