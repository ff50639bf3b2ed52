package bookstoreserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

// OrdersAPI wires HTTP transport with the orders bounded context service and workflows.
type OrdersAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// OrderLine is the wire shape of one ordered position.
type OrderLine struct {
	BookID    int64 `json:"bookId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
	UnitPrice int64 `json:"unitPrice"`
}

// Order is the wire shape of an order.
type Order struct {
	ID              int64       `json:"id"`
	Status          string      `json:"status"`
	Lines           []OrderLine `json:"lines"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	PromotionID     *int64      `json:"promotionId,omitempty"`
	TotalAmount     int64       `json:"totalAmount"`
	DiscountAmount  int64       `json:"discountAmount"`
	FinalAmount     int64       `json:"finalAmount"`
}

// Invoice is the wire shape of a sales invoice submission.
type Invoice struct {
	CustomerName    string      `json:"customerName" binding:"required"`
	CustomerPhone   string      `json:"customerPhone"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod" binding:"required"`
	PromotionID     *int64      `json:"promotionId,omitempty"`
	Lines           []OrderLine `json:"lines" binding:"required"`
}

// ShipperAssignmentResponse is the wire shape of an assignment.
type ShipperAssignmentResponse struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"orderId"`
	ShipperID   int64  `json:"shipperId"`
	AssignedAt  string `json:"assignedAt"`
	CompletedAt string `json:"completedAt,omitempty"`
}

func fromOrder(order *ordersdomain.Order) Order {
	lines := make([]OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLine{BookID: line.BookID, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}
	return Order{
		ID:              order.ID,
		Status:          string(order.Status),
		Lines:           lines,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		PromotionID:     order.PromotionID,
		TotalAmount:     order.TotalAmount,
		DiscountAmount:  order.DiscountAmount,
		FinalAmount:     order.FinalAmount,
	}
}

func fromAssignment(a *ordersdomain.ShipperAssignment) ShipperAssignmentResponse {
	response := ShipperAssignmentResponse{
		ID:         a.ID,
		OrderID:    a.OrderID,
		ShipperID:  a.ShipperID,
		AssignedAt: a.AssignedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.CompletedAt != nil {
		response.CompletedAt = a.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return response
}

// Post /v2/invoices
// Record a sales invoice
func (api *OrdersAPI) CreateInvoice(c *gin.Context) {
	var payload Invoice
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	lines := make([]ordersports.InvoiceLine, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		lines = append(lines, ordersports.InvoiceLine{BookID: line.BookID, Quantity: line.Quantity})
	}
	input := ordersports.CreateInvoiceInput{
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		PromotionID:     payload.PromotionID,
		Lines:           lines,
	}
	order, err := api.createInvoice(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromOrder(order))
}

func (api *OrdersAPI) createInvoice(ctx context.Context, input ordersports.CreateInvoiceInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CreateInvoice(ctx, input)
	}
	return api.service.CreateInvoice(ctx, input)
}

// Patch /v2/orders/confirm
// Bulk-confirm pending orders
func (api *OrdersAPI) ConfirmOrders(c *gin.Context) {
	var payload struct {
		OrderIDs []int64 `json:"orderIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	confirmed, err := api.service.ConfirmOrders(c.Request.Context(), payload.OrderIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": confirmed})
}

// Post /v2/orders/:orderId/assign-shipper
// Hand a confirmed order to a shipper
func (api *OrdersAPI) AssignShipper(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload struct {
		ShipperID int64 `json:"shipperId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	assignment, err := api.service.AssignShipper(c.Request.Context(), orderID, payload.ShipperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAssignment(assignment))
}

// Post /v2/orders/:orderId/unassign-shipper
// Return a delivering order to confirmed and free its shipper
func (api *OrdersAPI) UnassignShipper(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.UnassignShipper(c.Request.Context(), orderID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Patch /v2/orders/:orderId/complete
// Confirm delivery
func (api *OrdersAPI) CompleteDelivery(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload struct {
		ShipperID int64 `json:"shipperId"`
	}
	// The body is optional: staff completions omit it.
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.CompleteDelivery(c.Request.Context(), orderID, payload.ShipperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

// Patch /v2/orders/:orderId/cancel
// Cancel a pending or confirmed order
func (api *OrdersAPI) CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

// Get /v2/orders/:orderId
// Find order by ID
func (api *OrdersAPI) GetOrderById(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

// Get /v2/orders
// List orders, optionally filtered by status
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.List(c.Request.Context(), ordersdomain.Status(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, fromOrder(order))
	}
	c.JSON(http.StatusOK, out)
}
