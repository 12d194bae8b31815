package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"innoshop/internal/middleware"
	"innoshop/internal/user/model"
	"innoshop/internal/user/service"
	"innoshop/pkg/utils"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterAuthRoutes wires the public auth endpoints.
func (h *UserHandler) RegisterAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh-token", h.RefreshToken)
		auth.GET("/confirm-email", h.ConfirmEmail)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

// RegisterProtectedRoutes wires endpoints that require a valid access token.
func (h *UserHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/auth/send-confirmation-email", h.SendConfirmationEmail)
}

// RegisterInternalRoutes wires the status endpoint read by the Product
// service. Trusted network boundary, no auth.
func (h *UserHandler) RegisterInternalRoutes(router *gin.RouterGroup) {
	router.GET("/users/:id/status", h.GetStatus)
}

// RegisterAdminRoutes wires admin-only user management.
func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
	router.PATCH("/users/:id/activation", h.ChangeActivation)
}

func (h *UserHandler) Register(c *gin.Context) {
	var request model.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)
	request.Username = utils.SanitizeString(request.Username)
	request.FirstName = utils.SanitizeString(request.FirstName)
	request.LastName = utils.SanitizeString(request.LastName)

	res := h.service.Register(c.Request.Context(), &request)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", res.Value)
}

func (h *UserHandler) Login(c *gin.Context) {
	var request model.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.service.Login(c.Request.Context(), &request)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", res.Value)
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	var request model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.service.RefreshToken(c.Request.Context(), &request)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token refreshed successfully", res.Value)
}

func (h *UserHandler) SendConfirmationEmail(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	res := h.service.SendConfirmationEmail(c.Request.Context(), userID)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Confirmation email sent", nil)
}

func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "token query parameter is required")
		return
	}

	res := h.service.ConfirmEmail(c.Request.Context(), tokenString)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email confirmed successfully", nil)
}

func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var request model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	res := h.service.ForgotPassword(c.Request.Context(), &request)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "If the email exists, a reset link has been sent", nil)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var request model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.service.ResetPassword(c.Request.Context(), &request)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *UserHandler) GetStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	res := h.service.GetStatus(c.Request.Context(), id)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	c.JSON(http.StatusOK, res.Value)
}

func (h *UserHandler) ChangeActivation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var isActive bool
	if err := c.ShouldBindJSON(&isActive); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Request body must be a boolean")
		return
	}

	res := h.service.ChangeActiveStatus(c.Request.Context(), id, isActive)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User status updated", gin.H{
		"user_id":   id,
		"is_active": isActive,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	pageNumber, _ := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	res := h.service.GetPaged(c.Request.Context(), pageNumber, pageSize)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", res.Value)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}
