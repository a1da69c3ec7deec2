package interactions

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-chat/internal/shared/server/respond"
	"resume-chat/internal/shared/storage/object"
	"resume-chat/internal/shared/telemetry"
)

// Handler exposes recorded interactions for debugging.
type Handler struct {
	Repo  Repo
	Store object.ObjectStore
}

// NewHandler constructs a Handler. store holds archived backgrounds and may be nil.
func NewHandler(repo Repo, store object.ObjectStore) *Handler {
	return &Handler{Repo: repo, Store: store}
}

// RegisterRoutes attaches interaction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/interactions", h.list)
	rg.GET("/interactions/:id", h.get)
	rg.GET("/interactions/:id/image", h.image)
}

func (h *Handler) list(c *gin.Context) {
	limit, err := queryInt(c, "limit", DefaultListLimit)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer", nil)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be an integer", nil)
		return
	}
	limit, offset = ClampPage(limit, offset)

	items, err := h.Repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list interactions", nil)
		return
	}
	respond.OK(c, gin.H{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) get(c *gin.Context) {
	in, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "interaction not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load interaction", nil)
		return
	}
	respond.OK(c, in)
}

// image streams the archived background of an interaction.
func (h *Handler) image(c *gin.Context) {
	ctx := c.Request.Context()
	in, err := h.Repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.NotFound(c, "interaction not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load interaction", nil)
		return
	}
	if h.Store == nil || in.ImageKey == nil || *in.ImageKey == "" {
		respond.NotFound(c, "image not archived")
		return
	}

	rc, err := h.Store.Open(ctx, *in.ImageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.NotFound(c, "image not archived")
			return
		}
		telemetry.Error(ctx, "interactions.image_open_failed", zap.String("key", *in.ImageKey), zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read image", nil)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentTypeForKey(*in.ImageKey), rc, nil)
}

func contentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
