package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/application"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
	"github.com/oksasatya/go-blog-clean-architecture/internal/interface/middleware"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/response"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookies *helpers.Manager) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,uname"`
	Password string `json:"password" binding:"required,pwd"`
	Email    string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updatePasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			resp := response.Error[any](c, http.StatusConflict, "username already taken", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "register failed", nil)
		c.JSON(resp.Status, resp)
		return
	}

	resp := response.Success(c, http.StatusCreated, userJSON(u), "registered", nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	token, u, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		c.JSON(resp.Status, resp)
		return
	}

	h.Cookies.SetSession(c, token)
	resp := response.Success(c, http.StatusOK, userJSON(u), "login successful", nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxTokenKey)
	if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
		h.Logger.WithError(err).Warn("logout failed")
	}
	h.Cookies.ClearSession(c)
	resp := response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetInt64(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, userJSON(u), "profile", nil)
	c.JSON(resp.Status, resp)
}

// UpdatePassword is the only self-update a user has; it also resynchronizes
// the session's cached principal.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	uid := c.GetInt64(middleware.CtxUserIDKey)
	token := c.GetString(middleware.CtxTokenKey)
	u, err := h.Svc.UpdatePassword(c.Request.Context(), token, uid, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.Logger.WithError(err).Error("password update failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "password update failed", nil)
		c.JSON(resp.Status, resp)
		return
	}

	resp := response.Success(c, http.StatusOK, userJSON(u), "password updated", nil)
	c.JSON(resp.Status, resp)
}
