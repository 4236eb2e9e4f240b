package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tisport/tisport/internal/onboarding"
	"github.com/tisport/tisport/internal/service"
)

type UserHandler struct {
	userService  service.UserService
	orderService service.OrderService
}

func NewUserHandler(userService service.UserService, orderService service.OrderService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		orderService: orderService,
	}
}

type LinkTelegramRequest struct {
	TelegramID string `json:"telegram_id" binding:"required"`
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: user})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: user})
}

func (h *UserHandler) LinkTelegram(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req LinkTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	if err := h.userService.LinkTelegram(c.Request.Context(), id, req.TelegramID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "telegram linked"})
}

func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var profile onboarding.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	breakdown, err := h.userService.CompleteOnboarding(c.Request.Context(), id, &profile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: breakdown})
}

func (h *UserHandler) GetRewards(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	balance, err := h.userService.GetRewardBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	history, err := h.userService.GetRewardHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: gin.H{
		"balance": balance,
		"history": history,
	}})
}

func (h *UserHandler) GetUserOrders(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.GetUserOrders(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: orders})
}
