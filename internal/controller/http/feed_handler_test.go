package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedstream/internal/apperr"
	"feedstream/internal/entity"
	"feedstream/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFeedUseCase is a mock implementation of FeedUseCase
type MockFeedUseCase struct {
	mock.Mock
}

func (m *MockFeedUseCase) CreatePost(identity policy.Identity, title, content, imageKey string) (*entity.Post, error) {
	args := m.Called(identity, title, content, imageKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockFeedUseCase) ListPosts(identity policy.Identity, page int) ([]*entity.Post, int64, error) {
	args := m.Called(identity, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeedUseCase) GetPost(identity policy.Identity, postID string) (*entity.Post, error) {
	args := m.Called(identity, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockFeedUseCase) UpdatePost(identity policy.Identity, postID, title, content, imageKey string) (*entity.Post, error) {
	args := m.Called(identity, postID, title, content, imageKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockFeedUseCase) DeletePost(identity policy.Identity, postID string) error {
	args := m.Called(identity, postID)
	return args.Error(0)
}

func (m *MockFeedUseCase) UploadImage(identity policy.Identity, body io.Reader, originalName, contentType, oldKey string) (string, error) {
	args := m.Called(identity, body, originalName, contentType, oldKey)
	return args.String(0), args.Error(1)
}

type fakeURLRenderer struct{}

func (fakeURLRenderer) URL(key string) string {
	if key == "" {
		return ""
	}
	return "https://assets.test/" + key
}

func setupFeedRouter(feedHandler *FeedHandler, imageHandler *ImageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authedContext("user-123", "a@test.com"))
	r.POST("/posts", feedHandler.CreatePost)
	r.GET("/posts", feedHandler.ListPosts)
	r.GET("/posts/:id", feedHandler.GetPost)
	r.PUT("/posts/:id", feedHandler.UpdatePost)
	r.DELETE("/posts/:id", feedHandler.DeletePost)
	if imageHandler != nil {
		r.PUT("/post-image", imageHandler.UploadImage)
	}
	return r
}

func TestCreatePostHandler(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("CreatePost", mock.Anything, "Hello World", "First post body", "images/cat-1.png").
		Return(&entity.Post{ID: "post-1", Title: "Hello World", Content: "First post body"}, nil)

	router := setupFeedRouter(NewFeedHandler(mockUC), nil)

	body, _ := json.Marshal(map[string]string{
		"title":     "Hello World",
		"content":   "First post body",
		"image_key": "images/cat-1.png",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Post created successfully!")
	mockUC.AssertExpectations(t)
}

func TestCreatePostHandler_Validation(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("CreatePost", mock.Anything, "Hi", "ok", "").
		Return(nil, apperr.Validation(
			apperr.FieldError{Field: "title", Message: "Title is invalid"},
			apperr.FieldError{Field: "content", Message: "Content is invalid"},
		))

	router := setupFeedRouter(NewFeedHandler(mockUC), nil)

	body, _ := json.Marshal(map[string]string{"title": "Hi", "content": "ok"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Title is invalid")
	assert.Contains(t, w.Body.String(), "Content is invalid")
}

func TestListPostsHandler(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("ListPosts", mock.Anything, 2).Return([]*entity.Post{
		{ID: "post-3", Title: "Third post"},
	}, int64(3), nil)

	router := setupFeedRouter(NewFeedHandler(mockUC), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts?page=2", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalItems":3`)
	assert.Contains(t, w.Body.String(), "Third post")
}

func TestListPostsHandler_DefaultPage(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("ListPosts", mock.Anything, 1).Return([]*entity.Post{}, int64(0), nil)

	router := setupFeedRouter(NewFeedHandler(mockUC), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUC.AssertCalled(t, "ListPosts", mock.Anything, 1)
}

func TestGetPostHandler_NotFound(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("GetPost", mock.Anything, "missing").Return(nil, apperr.NotFound("post missing not found"))

	router := setupFeedRouter(NewFeedHandler(mockUC), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/missing", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePostHandler_NonOwner(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("UpdatePost", mock.Anything, "post-1", "Hello Again", "Edited post body", "").
		Return(nil, apperr.NotAuthorized())

	router := setupFeedRouter(NewFeedHandler(mockUC), nil)

	body, _ := json.Marshal(map[string]string{"title": "Hello Again", "content": "Edited post body"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/posts/post-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeletePostHandler(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("DeletePost", mock.Anything, "post-1").Return(nil)

	router := setupFeedRouter(NewFeedHandler(mockUC), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-1", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post deleted successfully")
}

func TestDeletePostHandler_Unauthenticated(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("DeletePost", mock.Anything, "post-1").Return(apperr.NotAuthenticated())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/posts/:id", NewFeedHandler(mockUC).DeletePost)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-1", nil)

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadImageHandler(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("UploadImage", mock.Anything, mock.Anything, "cat.png", "image/png", "images/old.png").
		Return("images/cat-1700000000.png", nil)

	router := setupFeedRouter(NewFeedHandler(mockUC), NewImageHandler(mockUC, fakeURLRenderer{}))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="cat.png"`}
	header["Content-Type"] = []string{"image/png"}
	part, _ := writer.CreatePart(header)
	part.Write([]byte("png bytes"))
	writer.WriteField("old_path", "images/old.png")
	writer.Close()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/post-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "images/cat-1700000000.png")
	assert.Contains(t, w.Body.String(), "https://assets.test/images/cat-1700000000.png")
}

func TestUploadImageHandler_NoFile(t *testing.T) {
	mockUC := new(MockFeedUseCase)
	mockUC.On("UploadImage", mock.Anything, nil, "", "", "").Return("", nil)

	router := setupFeedRouter(NewFeedHandler(mockUC), NewImageHandler(mockUC, fakeURLRenderer{}))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/post-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	router.ServeHTTP(w, req)

	// A missing file is a benign no-op, not an error
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No image provided")
}

func TestUploadImageHandler_BadExtension(t *testing.T) {
	mockUC := new(MockFeedUseCase)

	router := setupFeedRouter(NewFeedHandler(mockUC), NewImageHandler(mockUC, fakeURLRenderer{}))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="malware.exe"`}
	part, _ := writer.CreatePart(header)
	part.Write([]byte("bytes"))
	writer.Close()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/post-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUC.AssertNotCalled(t, "UploadImage")
}
