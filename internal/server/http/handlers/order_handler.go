package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/dto"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

// OrderHandler manages checkout and order review endpoints.
type OrderHandler struct {
	facade    OrderFacade
	maxUpload int64
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, maxUpload int64) *OrderHandler {
	return &OrderHandler{facade: facade, maxUpload: maxUpload}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	principal := CurrentPrincipal(c)
	limitBody(c, h.maxUpload)

	slip, f, err := formFile(c, "slip")
	if err != nil {
		respondUploadError(c, err, internalErrorMessage)
		return
	}
	if f != nil {
		defer f.Close()
	}

	ids, ok := parseBookIDs(c.PostForm("items"))
	if !ok {
		badRequest(c, "items must be a JSON array of book ids")
		return
	}
	total, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("total")))
	if err != nil {
		badRequest(c, "total must be a decimal amount")
		return
	}

	order, err := h.facade.Checkout(c.Request.Context(), ids, usecase.CheckoutRequest{
		Buyer: model.Buyer{
			Name:  c.PostForm("name"),
			Email: principal.Email,
			Phone: c.PostForm("phone"),
		},
		Total: total,
		Slip:  slip,
	})
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Mine handles GET /api/user/orders.
func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.facade.BuyerOrders(c.Request.Context(), CurrentPrincipal(c).Email)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// List handles GET /api/admin/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentAdmin(c))
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/admin/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentAdmin(c), id)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Items handles GET /api/admin/orders/:id/items.
func (h *OrderHandler) Items(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.facade.OrderItems(c.Request.Context(), CurrentAdmin(c), id)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	response := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		item := dto.OrderItemResponse{
			ID:       it.ID.String(),
			BookID:   it.BookID.String(),
			Price:    it.Price.StringFixed(2),
			Title:    it.Title,
			Author:   it.Author,
			CoverKey: it.CoverKey,
		}
		if it.BookPrice != nil {
			p := it.BookPrice.StringFixed(2)
			item.BookPrice = &p
		}
		response = append(response, item)
	}
	c.JSON(http.StatusOK, response)
}

// Slip handles GET /api/admin/orders/:id/slip.
func (h *OrderHandler) Slip(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rc, info, err := h.facade.OrderSlip(c.Request.Context(), CurrentAdmin(c), id)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	streamObject(c, rc, info, privateHeaders(info.Key))
}

// Approve handles POST /api/admin/orders/:id/approve.
func (h *OrderHandler) Approve(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.ApproveOrder(c.Request.Context(), CurrentAdmin(c), id)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Reject handles POST /api/admin/orders/:id/reject.
func (h *OrderHandler) Reject(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	order, err := h.facade.RejectOrder(c.Request.Context(), CurrentAdmin(c), id, req.Reason)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func parseBookIDs(raw string) ([]uuid.UUID, bool) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, false
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:              o.ID.String(),
		CustomerName:    o.Buyer.Name,
		CustomerEmail:   o.Buyer.Email,
		CustomerPhone:   o.Buyer.Phone,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Status:          string(o.Status),
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
