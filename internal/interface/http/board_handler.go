package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/application"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
	"github.com/oksasatya/go-blog-clean-architecture/internal/interface/middleware"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/response"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/validation"
)

type BoardHandler struct {
	Svc    *application.BoardService
	Logger *logrus.Logger
}

func NewBoardHandler(svc *application.BoardService, logger *logrus.Logger) *BoardHandler {
	return &BoardHandler{Svc: svc, Logger: logger}
}

type boardRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

func boardJSON(b *entity.Board) gin.H {
	return gin.H{
		"id":         b.ID,
		"title":      b.Title,
		"content":    b.Content,
		"owner_id":   b.OwnerID,
		"created_at": b.CreatedAt,
	}
}

func boardID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid board id", nil)
		c.JSON(resp.Status, resp)
		return 0, false
	}
	return id, true
}

// writeBoardError maps the expected outcomes onto HTTP statuses; anything
// else is a backing-store failure and logs as a 500.
func (h *BoardHandler) writeBoardError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		resp := response.Error[any](c, http.StatusNotFound, "board not found", nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, apperr.ErrForbidden):
		resp := response.Error[any](c, http.StatusForbidden, "not the board owner", nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, apperr.ErrValidation):
		resp := response.Error[any](c, http.StatusBadRequest, "invalid request", nil)
		c.JSON(resp.Status, resp)
	default:
		h.Logger.WithError(err).Error(op + " failed")
		resp := response.Error[any](c, http.StatusInternalServerError, op+" failed", nil)
		c.JSON(resp.Status, resp)
	}
}

func (h *BoardHandler) List(c *gin.Context) {
	boards, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.writeBoardError(c, err, "list boards")
		return
	}
	out := make([]gin.H, 0, len(boards))
	for _, b := range boards {
		out = append(out, boardJSON(b))
	}
	resp := response.Success(c, http.StatusOK, out, "boards", gin.H{"count": len(out)})
	c.JSON(resp.Status, resp)
}

func (h *BoardHandler) Get(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	b, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeBoardError(c, err, "get board")
		return
	}
	resp := response.Success(c, http.StatusOK, boardJSON(b), "board", nil)
	c.JSON(resp.Status, resp)
}

func (h *BoardHandler) Create(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	uid := c.GetInt64(middleware.CtxUserIDKey)
	b, err := h.Svc.Create(c.Request.Context(), uid, application.CreateBoardInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.writeBoardError(c, err, "create board")
		return
	}
	resp := response.Success(c, http.StatusCreated, boardJSON(b), "board created", nil)
	c.JSON(resp.Status, resp)
}

func (h *BoardHandler) Update(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	uid := c.GetInt64(middleware.CtxUserIDKey)
	b, err := h.Svc.Update(c.Request.Context(), uid, id, application.UpdateBoardInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.writeBoardError(c, err, "update board")
		return
	}
	resp := response.Success(c, http.StatusOK, boardJSON(b), "board updated", nil)
	c.JSON(resp.Status, resp)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	uid := c.GetInt64(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, id); err != nil {
		h.writeBoardError(c, err, "delete board")
		return
	}
	resp := response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "board deleted", nil)
	c.JSON(resp.Status, resp)
}

func (h *BoardHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.writeBoardError(c, err, "search boards")
		return
	}
	resp := response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
	c.JSON(resp.Status, resp)
}

// UploadImage accepts a multipart file and stores it for the board, returning
// the public URL.
func (h *BoardHandler) UploadImage(c *gin.Context) {
	id, ok := boardID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		c.JSON(resp.Status, resp)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		c.JSON(resp.Status, resp)
		return
	}
	defer func() { _ = f.Close() }()

	uid := c.GetInt64(middleware.CtxUserIDKey)
	url, err := h.Svc.UploadImage(c.Request.Context(), uid, id, f, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.writeBoardError(c, err, "upload image")
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{"url": url}, "image uploaded", nil)
	c.JSON(resp.Status, resp)
}
