package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"twitline/pkg/logger"
	"twitline/pkg/media"
	"twitline/services/twit/internal/entity"
	"twitline/services/twit/internal/usecase"

	"github.com/gin-gonic/gin"
)

type TwitHandler struct {
	twitUseCase usecase.TwitUseCase
	logger      *logger.Logger
}

func NewTwitHandler(twitUseCase usecase.TwitUseCase, logger *logger.Logger) *TwitHandler {
	return &TwitHandler{
		twitUseCase: twitUseCase,
		logger:      logger,
	}
}

type TwitRequest struct {
	Content string `form:"content" binding:"required"`
}

func isValidationError(err error) bool {
	return errors.Is(err, entity.ErrEmptyContent) ||
		errors.Is(err, media.ErrTooManyImages) ||
		errors.Is(err, media.ErrTooManyVideos) ||
		errors.Is(err, media.ErrUnsupportedType) ||
		errors.Is(err, media.ErrVideoTooLarge) ||
		errors.Is(err, media.ErrEmptyFile)
}

func (h *TwitHandler) respondError(c *gin.Context, err error, logContext string) {
	switch {
	case errors.Is(err, entity.ErrTwitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("%s: %v", logContext, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": logContext})
	}
}

func (h *TwitHandler) attachments(c *gin.Context) ([]*multipart.FileHeader, *multipart.FileHeader) {
	var images []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		images = form.File["images"]
	}

	video, err := c.FormFile("video")
	if err != nil {
		video = nil
	}
	return images, video
}

// CreateTwit godoc
// @Summary      Create a new twit
// @Description  Create a top-level twit with optional image and video attachments (up to 3 images, 1 video)
// @Tags         twits
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        content formData string true "Twit content"
// @Param        images formData file false "Image attachments (jpg/png/gif, max 3)"
// @Param        video formData file false "Video attachment (mp4/mov, max 50MB, 30s)"
// @Success      201  {object}  entity.TwitView
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /twits [post]
func (h *TwitHandler) CreateTwit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req TwitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	images, video := h.attachments(c)

	twit, err := h.twitUseCase.CreateTwit(c.Request.Context(), userID, req.Content, images, video)
	if err != nil {
		h.respondError(c, err, "Failed to create twit")
		return
	}

	c.JSON(http.StatusCreated, twit.View(userID))
}

// CreateReply godoc
// @Summary      Reply to a twit
// @Description  Create a reply under a twit. Responds with the updated parent twit, replies included.
// @Tags         twits
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Parent twit ID"
// @Param        content formData string true "Reply content"
// @Param        images formData file false "Image attachments (jpg/png/gif, max 3)"
// @Success      200  {object}  entity.TwitView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /twits/{id}/reply [post]
func (h *TwitHandler) CreateReply(c *gin.Context) {
	parentID := c.Param("id")
	userID := c.GetString("user_id")

	var req TwitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	images, _ := h.attachments(c)

	parent, err := h.twitUseCase.CreateReply(c.Request.Context(), parentID, userID, req.Content, images)
	if err != nil {
		h.respondError(c, err, "Failed to create reply")
		return
	}

	c.JSON(http.StatusOK, parent.View(userID))
}

// ToggleRetwit godoc
// @Summary      Retwit or un-retwit
// @Description  Toggle the caller's retwit of a twit and return its new state
// @Tags         twits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Twit ID"
// @Success      200  {object}  entity.TwitView
// @Failure      404  {object}  map[string]string
// @Router       /twits/{id}/retwit [post]
func (h *TwitHandler) ToggleRetwit(c *gin.Context) {
	twitID := c.Param("id")
	userID := c.GetString("user_id")

	twit, err := h.twitUseCase.ToggleRetwit(twitID, userID)
	if err != nil {
		h.respondError(c, err, "Failed to toggle retwit")
		return
	}

	c.JSON(http.StatusOK, twit.View(userID))
}

// ToggleLike godoc
// @Summary      Like or unlike
// @Description  Toggle the caller's like of a twit and return its new state
// @Tags         twits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Twit ID"
// @Success      200  {object}  entity.TwitView
// @Failure      404  {object}  map[string]string
// @Router       /twits/{id}/like [post]
func (h *TwitHandler) ToggleLike(c *gin.Context) {
	twitID := c.Param("id")
	userID := c.GetString("user_id")

	twit, err := h.twitUseCase.ToggleLike(twitID, userID)
	if err != nil {
		h.respondError(c, err, "Failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, twit.View(userID))
}

// GetTwit godoc
// @Summary      Get twit by ID
// @Description  Get a twit with its replies, projected for the caller
// @Tags         twits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Twit ID"
// @Success      200  {object}  entity.TwitView
// @Failure      404  {object}  map[string]string
// @Router       /twits/{id} [get]
func (h *TwitHandler) GetTwit(c *gin.Context) {
	twitID := c.Param("id")
	userID := c.GetString("user_id")

	view, err := h.twitUseCase.GetTwit(twitID, userID)
	if err != nil {
		h.respondError(c, err, "Failed to get twit")
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateTwit godoc
// @Summary      Update twit
// @Description  Update content and optionally replace attachments. Only the author can update their own twits.
// @Tags         twits
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Twit ID"
// @Param        content formData string true "New content"
// @Param        images formData file false "Replacement images (omit to keep current)"
// @Param        video formData file false "Replacement video (omit to keep current)"
// @Success      200  {object}  entity.TwitView
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /twits/{id} [put]
func (h *TwitHandler) UpdateTwit(c *gin.Context) {
	twitID := c.Param("id")
	userID := c.GetString("user_id")

	var req TwitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	images, video := h.attachments(c)

	view, err := h.twitUseCase.UpdateTwit(c.Request.Context(), twitID, userID, req.Content, images, video)
	if err != nil {
		h.respondError(c, err, "Failed to update twit")
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteTwit godoc
// @Summary      Delete twit
// @Description  Delete a twit and its attachments. Only the author can delete their own twits.
// @Tags         twits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Twit ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /twits/{id} [delete]
func (h *TwitHandler) DeleteTwit(c *gin.Context) {
	twitID := c.Param("id")
	userID := c.GetString("user_id")

	if err := h.twitUseCase.DeleteTwit(twitID, userID); err != nil {
		h.respondError(c, err, "Failed to delete twit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Twit deleted successfully"})
}

// ListFeed godoc
// @Summary      List the feed
// @Description  All top-level twits, newest first, projected for the caller
// @Tags         twits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /twits [get]
func (h *TwitHandler) ListFeed(c *gin.Context) {
	userID := c.GetString("user_id")

	views, err := h.twitUseCase.ListFeed(userID)
	if err != nil {
		h.respondError(c, err, "Failed to fetch feed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"twits": views, "count": len(views)})
}

// ListUserTwits godoc
// @Summary      List a user's twits
// @Description  The user's own top-level twits plus everything they retwitted, newest first
// @Tags         twits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /twits/user/{user_id} [get]
func (h *TwitHandler) ListUserTwits(c *gin.Context) {
	targetID := c.Param("user_id")
	viewerID := c.GetString("user_id")

	views, err := h.twitUseCase.ListUserTwits(targetID, viewerID)
	if err != nil {
		h.respondError(c, err, "Failed to fetch user twits")
		return
	}

	c.JSON(http.StatusOK, gin.H{"twits": views, "count": len(views)})
}

// ListLikedTwits godoc
// @Summary      List twits a user liked
// @Tags         twits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /twits/user/{user_id}/likes [get]
func (h *TwitHandler) ListLikedTwits(c *gin.Context) {
	targetID := c.Param("user_id")
	viewerID := c.GetString("user_id")

	views, err := h.twitUseCase.ListLikedTwits(targetID, viewerID)
	if err != nil {
		h.respondError(c, err, "Failed to fetch liked twits")
		return
	}

	c.JSON(http.StatusOK, gin.H{"twits": views, "count": len(views)})
}

// UploadFiles godoc
// @Summary      Upload media files
// @Description  Upload a batch of attachments (max 3 images, 1 video) and get back their URLs
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        files formData file true "Files to upload"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /upload [post]
func (h *TwitHandler) UploadFiles(c *gin.Context) {
	userID := c.GetString("user_id")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one file is required"})
		return
	}

	urls, err := h.twitUseCase.UploadFiles(c.Request.Context(), userID, files)
	if err != nil {
		h.respondError(c, err, "Failed to upload files")
		return
	}

	c.JSON(http.StatusOK, gin.H{"urls": urls})
}
