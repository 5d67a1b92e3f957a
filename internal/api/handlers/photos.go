package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/observability"
	"github.com/your-org/facetag/internal/queue"
	"github.com/your-org/facetag/pkg/dto"
)

// maxPhotoSize caps upload bodies at 20 MB, Telegram's own photo limit.
const maxPhotoSize = 20 << 20

type PhotoHandler struct {
	store       ObjectStore
	producer    *queue.Producer
	photoBucket string
}

func NewPhotoHandler(store ObjectStore, producer *queue.Producer, photoBucket string) *PhotoHandler {
	return &PhotoHandler{store: store, producer: producer, photoBucket: photoBucket}
}

// Upload stores a raw photo body and enqueues its detection trigger. A
// failed enqueue fails the upload: a stored photo nobody detects faces in
// would be silently lost to the workflow.
func (h *PhotoHandler) Upload(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPhotoSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return
	}
	if len(data) > maxPhotoSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}

	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}

	key := uuid.New().String() + ".jpg"
	if err := h.store.PutObject(c.Request.Context(), h.photoBucket, key, data, contentType, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	evt := models.PhotoStored{Bucket: h.photoBucket, Key: key}
	if err := h.producer.PublishPhotoStored(c.Request.Context(), evt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue detection: " + err.Error()})
		return
	}
	observability.PhotosIngested.Inc()

	c.JSON(http.StatusCreated, dto.UploadResponse{Key: key})
}

// Get serves the original photo bytes.
func (h *PhotoHandler) Get(c *gin.Context) {
	key := c.Param("key")

	data, err := h.store.GetObject(c.Request.Context(), h.photoBucket, key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}
