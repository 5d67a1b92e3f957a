package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/registry"
	"github.com/your-org/facetag/pkg/dto"
)

type FaceHandler struct {
	store      ObjectStore
	registry   *registry.FaceRegistry
	faceBucket string
}

func NewFaceHandler(store ObjectStore, reg *registry.FaceRegistry, faceBucket string) *FaceHandler {
	return &FaceHandler{store: store, registry: reg, faceBucket: faceBucket}
}

// List returns every face object with its decoded metadata. A full scan,
// like everything on the registry.
func (h *FaceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	keys, err := h.registry.Keys(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.FaceResponse, 0, len(keys))
	for _, key := range keys {
		meta, err := h.registry.Metadata(ctx, key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp = append(resp, dto.FaceResponse{
			Key:      key,
			Name:     meta[models.MetaName],
			Original: meta[models.MetaOriginal],
			URL:      "/v1/faces/" + key,
		})
	}

	c.JSON(http.StatusOK, dto.FaceListResponse{Faces: resp, Total: len(resp)})
}

// Get serves the face crop bytes. Telegram fetches this URL when the bot
// presents a face.
func (h *FaceHandler) Get(c *gin.Context) {
	key := c.Param("key")

	data, err := h.store.GetObject(c.Request.Context(), h.faceBucket, key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "face not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}
