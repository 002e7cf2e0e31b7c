package handlers

import (
	"context"

	"github.com/andrevilar/romaneio-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type SchemaHandler struct {
	schemaService SchemaServiceInterface
	hub           HubInterface
}

func NewSchemaHandler(schemaService SchemaServiceInterface, hub HubInterface) *SchemaHandler {
	return &SchemaHandler{schemaService: schemaService, hub: hub}
}

// Get returns the active headers, creating or migrating the stored
// schema as needed.
func (h *SchemaHandler) Get(c *drift.Context) {
	headers, err := h.schemaService.LoadOrInitialize(context.Background())
	if err != nil {
		c.InternalServerError("failed to load schema")
		return
	}
	_ = c.JSON(200, dto.SchemaResponse{Headers: headers})
}

// SetHeaders persists edited header labels. Index 0 stays "Email"
// whatever the request says.
func (h *SchemaHandler) SetHeaders(c *drift.Context) {
	var req dto.SetHeadersRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if len(req.Headers) == 0 {
		c.BadRequest("headers are required")
		return
	}

	headers, err := h.schemaService.SetHeaders(context.Background(), req.Headers)
	if err != nil {
		c.InternalServerError("failed to save headers")
		return
	}

	h.hub.BroadcastSchemaUpdate(headers)

	_ = c.JSON(200, dto.SchemaResponse{Headers: headers})
}
