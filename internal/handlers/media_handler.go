package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/pixora/backend/internal/media"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// MediaHandler serves stored images and accepts uploads on behalf of the post and story handlers
type MediaHandler struct {
	store    media.Store
	maxBytes int64
}

func NewMediaHandler(store media.Store, maxBytes int64) *MediaHandler {
	return &MediaHandler{store: store, maxBytes: maxBytes}
}

// RegisterMediaRoutes registers the public image route
func (h *MediaHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET(media.URLPrefix+":ref", h.Serve)
}

func (h *MediaHandler) Serve(c echo.Context) error {
	obj, err := h.store.Open(c.Request().Context(), c.Param("ref"))
	if err != nil {
		return err
	}
	defer obj.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, obj.ContentType)
	res.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if obj.Size > 0 {
		res.Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}
	res.WriteHeader(http.StatusOK)
	_, err = io.Copy(res, obj)
	return err
}

// save stores one uploaded file and returns its public URL
func (h *MediaHandler) save(c echo.Context, fh *multipart.FileHeader) (string, error) {
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return "", models.NewValidationError("image exceeds the upload size limit")
	}
	f, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid upload")
	}
	defer f.Close()

	ref, err := h.store.Save(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return "", err
	}
	return media.URL(ref), nil
}

// discard removes images saved for a request that did not complete
func (h *MediaHandler) discard(c echo.Context, urls []string) {
	for _, u := range urls {
		if ref := strings.TrimPrefix(u, media.URLPrefix); ref != u {
			_ = h.store.Delete(c.Request().Context(), ref)
		}
	}
}

// uploadedFiles returns the multipart files under field, or nil for non-multipart requests
func uploadedFiles(c echo.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
