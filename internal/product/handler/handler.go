package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"innoshop/internal/middleware"
	"innoshop/internal/product/model"
	"innoshop/internal/product/service"
	"innoshop/pkg/utils"
)

type ProductHandler struct {
	service *service.ProductService
}

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterPublicRoutes wires the read endpoints. Listings are public: the
// repository already hides soft-deleted rows and inactive owners.
func (h *ProductHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("/all", h.GetAll)
		products.GET("/paged", h.GetPaged)
		products.GET("/owner/:ownerId", h.GetByOwner)
		products.GET("/:id", h.GetByID)
	}
}

// RegisterProtectedRoutes wires the mutation endpoints, which require a
// valid access token.
func (h *ProductHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.POST("", h.Create)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}

// RegisterInternalRoutes wires the owner-status sync endpoint called by the
// User service. Trusted network boundary, no auth.
func (h *ProductHandler) RegisterInternalRoutes(router *gin.RouterGroup) {
	router.PATCH("/products/internal/user-status/:userId", h.UpdateOwnerStatus)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	res := h.service.GetByID(c.Request.Context(), id)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", res.Value)
}

func (h *ProductHandler) GetAll(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res := h.service.GetAll(c.Request.Context(), filter)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", res.Value)
}

func (h *ProductHandler) GetPaged(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	pageNumber, _ := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	res := h.service.GetPaged(c.Request.Context(), pageNumber, pageSize, filter)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", res.Value)
}

func (h *ProductHandler) GetByOwner(c *gin.Context) {
	ownerID, err := parseUintParam(c, "ownerId")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid owner id")
		return
	}

	res := h.service.GetByOwner(c.Request.Context(), ownerID)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", res.Value)
}

func (h *ProductHandler) Create(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var request model.ProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.service.Create(c.Request.Context(), requesterID, &request)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Product created successfully", res.Value)
}

func (h *ProductHandler) Update(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	var request model.ProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.service.Update(c.Request.Context(), requesterID, id, &request)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product updated successfully", res.Value)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	res := h.service.Delete(c.Request.Context(), requesterID, id)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) UpdateOwnerStatus(c *gin.Context) {
	ownerID, err := parseUintParam(c, "userId")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var isActive bool
	if err := c.ShouldBindJSON(&isActive); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Request body must be a boolean")
		return
	}

	res := h.service.UpdateOwnerActiveStatus(c.Request.Context(), ownerID, isActive)
	if !res.IsSuccess() {
		utils.ErrorsResponse(c, res.Code.HTTPStatus(), res.Errors)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Owner status updated", nil)
}

func parseFilter(c *gin.Context) (*model.Filter, error) {
	filter := &model.Filter{}

	if v := c.Query("ownerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errInvalidQuery("ownerId")
		}
		owner := uint(id)
		filter.OwnerID = &owner
	}
	if v := c.Query("name"); v != "" {
		name := utils.SanitizeString(v)
		filter.NameContains = &name
	}
	if v := c.Query("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errInvalidQuery("minPrice")
		}
		filter.MinPrice = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errInvalidQuery("maxPrice")
		}
		filter.MaxPrice = &price
	}
	if v := c.Query("isAvailable"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errInvalidQuery("isAvailable")
		}
		filter.IsAvailable = &available
	}
	if v := c.Query("includeDeleted"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errInvalidQuery("includeDeleted")
		}
		filter.IncludeDeleted = include
	}
	if v := c.Query("includeInactiveOwners"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errInvalidQuery("includeInactiveOwners")
		}
		filter.IncludeInactiveOwners = include
	}

	return filter, nil
}

func errInvalidQuery(param string) error {
	return fmt.Errorf("Invalid %s query parameter", param)
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}
