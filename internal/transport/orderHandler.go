package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tisport/tisport/internal/service"
)

type OrderHandler struct {
	orderService   service.OrderService
	voucherService service.VoucherService
}

func NewOrderHandler(orderService service.OrderService, voucherService service.VoucherService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		voucherService: voucherService,
	}
}

type AttachProofRequest struct {
	ProofURL string `json:"proof_url" binding:"required,url"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (h *OrderHandler) QuoteCheckout(c *gin.Context) {
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	quote, err := h.orderService.QuoteCheckout(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: quote})
}

func (h *OrderHandler) ListVouchers(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: h.voucherService.ListVouchers()})
}

func (h *OrderHandler) ListPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: h.orderService.ListPaymentMethods()})
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: order})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	details, err := h.orderService.GetOrderDetails(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: details})
}

func (h *OrderHandler) AttachProof(c *gin.Context) {
	var req AttachProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	order, err := h.orderService.GetOrderByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.orderService.AttachProof(c.Request.Context(), order.ID, req.ProofURL); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "payment proof attached"})
}

func (h *OrderHandler) SettleOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	settled, err := h.orderService.SettleOrder(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: settled})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	order, err := h.orderService.GetOrderByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), order.ID, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "order cancelled"})
}
