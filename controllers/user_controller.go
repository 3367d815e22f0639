package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"roomify-client/middleware"
	"roomify-client/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize caps uploads at 5 MiB.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type UserController struct {
	Backend *Backend
	log     *zap.Logger
}

func NewUserController(b *Backend, log *zap.Logger) *UserController {
	return &UserController{Backend: b, log: utils.OrNop(log)}
}

// ----------------------------------------------------
// Notifications
// ----------------------------------------------------

// GET /api/user/notifications
func (uc *UserController) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, uc.Backend.Notifications(middleware.CurrentUserID(c)))
}

// PUT /api/user/notifications/:id/read
func (uc *UserController) MarkNotificationRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONMessage(c, http.StatusBadRequest, "Notification ID is required")
		return
	}

	unread, err := uc.Backend.MarkNotificationRead(middleware.CurrentUserID(c), id)
	if errors.Is(err, ErrNotificationNotFound) {
		utils.JSONMessage(c, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Notification marked as read",
		"unread_count": unread,
	})
}

// ----------------------------------------------------
// Images
// ----------------------------------------------------

// POST /api/upload/image (multipart field "file")
func (uc *UserController) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		utils.JSONMessage(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		utils.JSONMessage(c, http.StatusBadRequest, "Unsupported image type")
		return
	}
	if fh.Size > MaxImageSize {
		utils.JSONMessage(c, http.StatusBadRequest, "Image is too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		utils.JSONMessage(c, http.StatusInternalServerError, err.Error())
		return
	}

	name := uuid.NewString() + ext
	uc.Backend.SaveImage(name, contentType, data)
	uc.log.Info("📷 image uploaded", zap.String("name", name), zap.Int("bytes", len(data)))

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Image uploaded successfully",
		"image_url": "/static/images/" + name,
		"filename":  name,
	})
}

// GET /static/images/:name
func (uc *UserController) ServeImage(c *gin.Context) {
	contentType, data, err := uc.Backend.Image(c.Param("name"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
