package http

import (
	"net/http"
	"path/filepath"

	"feedstream/internal/usecase"

	"github.com/gin-gonic/gin"
)

// AssetURLRenderer turns a stored asset reference into its public URL.
type AssetURLRenderer interface {
	URL(key string) string
}

type ImageHandler struct {
	feedUseCase usecase.FeedUseCase
	assetURLs   AssetURLRenderer
}

func NewImageHandler(feedUseCase usecase.FeedUseCase, assetURLs AssetURLRenderer) *ImageHandler {
	return &ImageHandler{
		feedUseCase: feedUseCase,
		assetURLs:   assetURLs,
	}
}

// UploadImage godoc
// @Summary      Upload a post image
// @Description  Store an image asset and return its reference; an optional old_path form field names a superseded asset to reclaim
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file false "Image file (jpg/jpeg/png)"
// @Param        old_path formData string false "Previously stored asset reference to reclaim"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /post-image [put]
func (h *ImageHandler) UploadImage(c *gin.Context) {
	identity := identityFrom(c)
	oldKey := c.PostForm("old_path")

	file, err := c.FormFile("image")
	if err != nil {
		// No file is tolerated; the use case still applies the
		// authentication gate.
		if _, err := h.feedUseCase.UploadImage(identity, nil, "", "", oldKey); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "No image provided"})
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid image format. Only jpg, jpeg and png are allowed",
			"status":  http.StatusBadRequest,
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process file", "status": http.StatusInternalServerError})
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key, err := h.feedUseCase.UploadImage(identity, src, file.Filename, contentType, oldKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "File uploaded",
		"filePath": key,
		"fileUrl":  h.assetURLs.URL(key),
	})
}
