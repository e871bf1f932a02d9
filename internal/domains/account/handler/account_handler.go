package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"person-registry/internal/domains/account"
	"person-registry/internal/shared/middleware"
	"person-registry/internal/shared/response"
	"person-registry/pkg/logger"
)

type AccountHandler struct {
	service account.Service
}

func NewAccountHandler(service account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register handles POST /auth/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req account.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "account registered successfully", res)
}

// Login handles POST /auth/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req account.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", res)
}

// OperatorToken handles POST /auth/token: the operator credential pair comes
// in the Username and Password headers.
func (h *AccountHandler) OperatorToken(c *gin.Context) {
	username := c.GetHeader("Username")
	password := c.GetHeader("Password")

	res, err := h.service.OperatorToken(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid credentials in headers")
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", res)
}

// UpdateMe handles PUT /account: the caller updates their own record.
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok || principal.UserID == 0 {
		response.Forbidden(c, "this operation requires an account token")
		return
	}

	var req account.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.UpdateSelf(c.Request.Context(), principal.UserID, req); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "account updated successfully", nil)
}

// DeleteMe handles DELETE /account: the caller deletes their own record.
func (h *AccountHandler) DeleteMe(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok || principal.UserID == 0 {
		response.Forbidden(c, "this operation requires an account token")
		return
	}

	if err := h.service.DeleteSelf(c.Request.Context(), principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "account deleted successfully", nil)
}

func (h *AccountHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
	case errors.Is(err, account.ErrNothingToUpdate):
		response.BadRequest(c, err.Error())
	case errors.Is(err, account.ErrEmailTaken):
		response.ErrorResponse(c, http.StatusBadRequest, "CONFLICT", err.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, account.ErrAccountNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("account operation failed", err)
		response.InternalServerError(c, "internal server error")
	}
}
