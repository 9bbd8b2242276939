package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-backend/internal/shared/response"
)

// Handler exposes staff login and account administration
type Handler struct {
	service Service
}

// NewHandler creates a new accounts handler instance
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		response.InternalServerError(c, "Login failed")
		return
	}

	response.Success(c, http.StatusOK, result)
}

type createAccountRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// CreateAccount handles POST /accounts
func (h *Handler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	account, err := h.service.CreateAccount(c.Request.Context(),
		req.Username, req.Email, req.DisplayName, req.Role, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			response.Conflict(c, "Username already taken")
		case errors.Is(err, ErrPasswordTooShort):
			response.BadRequest(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, account)
}

// ListAccounts handles GET /accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list accounts")
		return
	}

	response.Success(c, http.StatusOK, accounts)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole handles PATCH /accounts/:id/role
func (h *Handler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	if err := h.service.ChangeRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(c, "Account not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}
