package http

import (
	"net/http"
	"strconv"

	"feedstream/internal/usecase"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUseCase usecase.FeedUseCase
}

func NewFeedHandler(feedUseCase usecase.FeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

type PostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageKey string `json:"image_key"`
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Create a post with a title, content and an optional image asset reference
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PostRequest true "Post data"
// @Success      201  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /posts [post]
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "status": http.StatusBadRequest})
		return
	}

	post, err := h.feedUseCase.CreatePost(identityFrom(c), req.Title, req.Content, req.ImageKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully!",
		"post":    post,
	})
}

// ListPosts godoc
// @Summary      List posts
// @Description  List posts ordered newest first, paginated by a fixed page size
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number (defaults to 1)"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /posts [get]
func (h *FeedHandler) ListPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	posts, total, err := h.feedUseCase.ListPosts(identityFrom(c), page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Posts fetched",
		"posts":      posts,
		"totalItems": total,
	})
}

// GetPost godoc
// @Summary      Fetch one post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /posts/{id} [get]
func (h *FeedHandler) GetPost(c *gin.Context) {
	post, err := h.feedUseCase.GetPost(identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post found",
		"post":    post,
	})
}

// UpdatePost godoc
// @Summary      Edit a post
// @Description  Edit a post's title, content and optionally replace its image asset
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post id"
// @Param        request body PostRequest true "Updated post data"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Router       /posts/{id} [put]
func (h *FeedHandler) UpdatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "status": http.StatusBadRequest})
		return
	}

	post, err := h.feedUseCase.UpdatePost(identityFrom(c), c.Param("id"), req.Title, req.Content, req.ImageKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Delete a post, unlink it from its creator and reclaim its image asset
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /posts/{id} [delete]
func (h *FeedHandler) DeletePost(c *gin.Context) {
	if err := h.feedUseCase.DeletePost(identityFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}
