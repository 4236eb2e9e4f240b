package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/service"
)

// AdminHandler serves the back-office: event management, order review and
// platform reports.
type AdminHandler struct {
	eventService service.EventService
	orderService service.OrderService
	userService  service.UserService
}

func NewAdminHandler(eventService service.EventService, orderService service.OrderService, userService service.UserService) *AdminHandler {
	return &AdminHandler{
		eventService: eventService,
		orderService: orderService,
		userService:  userService,
	}
}

func (h *AdminHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: event})
}

func (h *AdminHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: event})
}

func (h *AdminHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "event deleted"})
}

func (h *AdminHandler) GetEventOrders(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.GetEventOrders(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: orders})
}

func (h *AdminHandler) GetEventStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stats, err := h.eventService.GetEventStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: stats})
}

func (h *AdminHandler) GetAllOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	total := len(orders)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	orders = orders[offset:end]

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: gin.H{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}})
}

func (h *AdminHandler) GetRecentOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	orders, err := h.orderService.GetRecentOrders(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: orders})
}

func (h *AdminHandler) GetOrdersByStatus(c *gin.Context) {
	status := entity.OrderStatus(c.Param("status"))
	switch status {
	case entity.OrderStatusPendingPayment, entity.OrderStatusInReview,
		entity.OrderStatusPaid, entity.OrderStatusExpired, entity.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid order status"})
		return
	}

	orders, err := h.orderService.GetOrdersByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: orders})
}

func (h *AdminHandler) ApproveOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.orderService.ApproveOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "order approved"})
}

func (h *AdminHandler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "order cancelled"})
}

type AdjustPointsRequest struct {
	Points int64  `json:"points" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	entry, err := h.userService.AdjustPoints(c.Request.Context(), id, req.Points, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: entry})
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: users})
}

func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.orderService.GetSystemStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: stats})
}
