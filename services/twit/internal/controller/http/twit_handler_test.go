package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"twitline/pkg/logger"
	"twitline/services/twit/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTwitUseCase is a mock implementation of usecase.TwitUseCase
type MockTwitUseCase struct {
	mock.Mock
}

func (m *MockTwitUseCase) CreateTwit(ctx context.Context, userID, content string, imageFiles []*multipart.FileHeader, videoFile *multipart.FileHeader) (*entity.Twit, error) {
	args := m.Called(ctx, userID, content, imageFiles, videoFile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Twit), args.Error(1)
}

func (m *MockTwitUseCase) CreateReply(ctx context.Context, parentID, userID, content string, imageFiles []*multipart.FileHeader) (*entity.Twit, error) {
	args := m.Called(ctx, parentID, userID, content, imageFiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Twit), args.Error(1)
}

func (m *MockTwitUseCase) ToggleRetwit(twitID, userID string) (*entity.Twit, error) {
	args := m.Called(twitID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Twit), args.Error(1)
}

func (m *MockTwitUseCase) ToggleLike(twitID, userID string) (*entity.Twit, error) {
	args := m.Called(twitID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Twit), args.Error(1)
}

func (m *MockTwitUseCase) GetTwit(twitID, viewerID string) (*entity.TwitView, error) {
	args := m.Called(twitID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TwitView), args.Error(1)
}

func (m *MockTwitUseCase) UpdateTwit(ctx context.Context, twitID, userID, content string, imageFiles []*multipart.FileHeader, videoFile *multipart.FileHeader) (*entity.TwitView, error) {
	args := m.Called(ctx, twitID, userID, content, imageFiles, videoFile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TwitView), args.Error(1)
}

func (m *MockTwitUseCase) DeleteTwit(twitID, userID string) error {
	args := m.Called(twitID, userID)
	return args.Error(0)
}

func (m *MockTwitUseCase) ListFeed(viewerID string) ([]*entity.TwitView, error) {
	args := m.Called(viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TwitView), args.Error(1)
}

func (m *MockTwitUseCase) ListUserTwits(targetUserID, viewerID string) ([]*entity.TwitView, error) {
	args := m.Called(targetUserID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TwitView), args.Error(1)
}

func (m *MockTwitUseCase) ListLikedTwits(targetUserID, viewerID string) ([]*entity.TwitView, error) {
	args := m.Called(targetUserID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TwitView), args.Error(1)
}

func (m *MockTwitUseCase) UploadFiles(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error) {
	args := m.Called(ctx, userID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func setupRouter(uc *MockTwitUseCase, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTwitHandler(uc, logger.New())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})

	router.POST("/twits", handler.CreateTwit)
	router.GET("/twits", handler.ListFeed)
	router.GET("/twits/:id", handler.GetTwit)
	router.PUT("/twits/:id", handler.UpdateTwit)
	router.DELETE("/twits/:id", handler.DeleteTwit)
	router.POST("/twits/:id/reply", handler.CreateReply)
	router.POST("/twits/:id/retwit", handler.ToggleRetwit)
	router.POST("/twits/:id/like", handler.ToggleLike)
	router.GET("/twits/user/:user_id", handler.ListUserTwits)
	router.GET("/twits/user/:user_id/likes", handler.ListLikedTwits)
	router.POST("/upload", handler.UploadFiles)
	return router
}

func formRequest(method, path string, fields map[string]string) *http.Request {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCreateTwitHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-1")

	twit := &entity.Twit{ID: "twit-1", AuthorID: "user-1", Content: "hello", IsTwit: true}
	uc.On("CreateTwit", mock.Anything, "user-1", "hello", mock.Anything, mock.Anything).Return(twit, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("POST", "/twits", map[string]string{"content": "hello"}))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp entity.TwitView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "twit-1", resp.ID)
	assert.True(t, resp.IsTwit)
	uc.AssertExpectations(t)
}

func TestCreateTwitHandler_MissingContent(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("POST", "/twits", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "CreateTwit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReplyHandler_ReturnsParent(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-b")

	parent := &entity.Twit{
		ID: "parent-1", AuthorID: "user-a", Content: "hello", IsTwit: true,
		Replies: []entity.Twit{{ID: "reply-1", AuthorID: "user-b", Content: "world", IsReply: true, ReplyForID: "parent-1"}},
	}
	uc.On("CreateReply", mock.Anything, "parent-1", "user-b", "world", mock.Anything).Return(parent, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("POST", "/twits/parent-1/reply", map[string]string{"content": "world"}))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.TwitView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "parent-1", resp.ID)
	assert.Equal(t, 1, resp.TotalReplies)
	uc.AssertExpectations(t)
}

func TestGetTwitHandler_NotFound(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-1")

	uc.On("GetTwit", "missing", "user-1").Return(nil, entity.ErrTwitNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/twits/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "twit not found")
}

func TestToggleLikeHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-b")

	twit := &entity.Twit{ID: "twit-1", AuthorID: "user-a", Content: "hi", IsTwit: true, LikedBy: []string{"user-b"}}
	uc.On("ToggleLike", "twit-1", "user-b").Return(twit, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/twits/twit-1/like", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.TwitView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Liked)
	assert.Equal(t, 1, resp.TotalLikes)
	uc.AssertExpectations(t)
}

func TestToggleRetwitHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-b")

	twit := &entity.Twit{ID: "twit-1", AuthorID: "user-a", Content: "hi", IsTwit: true, RetwittedBy: []string{"user-b"}}
	uc.On("ToggleRetwit", "twit-1", "user-b").Return(twit, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/twits/twit-1/retwit", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.TwitView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Retwitted)
	uc.AssertExpectations(t)
}

func TestUpdateTwitHandler_Forbidden(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-b")

	uc.On("UpdateTwit", mock.Anything, "twit-1", "user-b", "hacked", mock.Anything, mock.Anything).
		Return(nil, entity.ErrNotOwner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("PUT", "/twits/twit-1", map[string]string{"content": "hacked"}))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "your own twits")
}

func TestDeleteTwitHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-a")

	uc.On("DeleteTwit", "twit-1", "user-a").Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/twits/twit-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Twit deleted successfully")
	uc.AssertExpectations(t)
}

func TestDeleteTwitHandler_Forbidden(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-b")

	uc.On("DeleteTwit", "twit-1", "user-b").Return(entity.ErrNotOwner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/twits/twit-1", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListFeedHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "viewer")

	views := []*entity.TwitView{
		{ID: "newer", Content: "second"},
		{ID: "older", Content: "first"},
	}
	uc.On("ListFeed", "viewer").Return(views, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/twits", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Twits []entity.TwitView `json:"twits"`
		Count int               `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "newer", resp.Twits[0].ID)
	uc.AssertExpectations(t)
}

func TestListUserTwitsHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "viewer")

	uc.On("ListUserTwits", "target", "viewer").Return([]*entity.TwitView{{ID: "twit-1"}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/twits/user/target", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestListLikedTwitsHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "viewer")

	uc.On("ListLikedTwits", "target", "viewer").Return([]*entity.TwitView{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/twits/user/target/likes", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	uc.AssertExpectations(t)
}

func TestUploadFilesHandler(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-1")

	uc.On("UploadFiles", mock.Anything, "user-1", mock.Anything).
		Return([]string{"https://media.test/a.jpg"}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "a.jpg")
	assert.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://media.test/a.jpg")
	uc.AssertExpectations(t)
}

func TestUploadFilesHandler_NoFiles(t *testing.T) {
	uc := new(MockTwitUseCase)
	router := setupRouter(uc, "user-1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	assert.NoError(t, mw.WriteField("unused", "x"))
	assert.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "UploadFiles", mock.Anything, mock.Anything, mock.Anything)
}
