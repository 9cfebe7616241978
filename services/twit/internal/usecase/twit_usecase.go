package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"twitline/pkg/logger"
	"twitline/pkg/media"
	"twitline/pkg/queue"
	"twitline/services/twit/internal/entity"
	"twitline/services/twit/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type TwitUseCase interface {
	CreateTwit(ctx context.Context, userID, content string, imageFiles []*multipart.FileHeader, videoFile *multipart.FileHeader) (*entity.Twit, error)
	CreateReply(ctx context.Context, parentID, userID, content string, imageFiles []*multipart.FileHeader) (*entity.Twit, error)
	ToggleRetwit(twitID, userID string) (*entity.Twit, error)
	ToggleLike(twitID, userID string) (*entity.Twit, error)
	GetTwit(twitID, viewerID string) (*entity.TwitView, error)
	UpdateTwit(ctx context.Context, twitID, userID, content string, imageFiles []*multipart.FileHeader, videoFile *multipart.FileHeader) (*entity.TwitView, error)
	DeleteTwit(twitID, userID string) error
	ListFeed(viewerID string) ([]*entity.TwitView, error)
	ListUserTwits(targetUserID, viewerID string) ([]*entity.TwitView, error)
	ListLikedTwits(targetUserID, viewerID string) ([]*entity.TwitView, error)
	UploadFiles(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error)
}

type twitUseCase struct {
	twitRepo    persistent.TwitRepository
	mediaStore  media.Store
	redisClient *redis.Client
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewTwitUseCase(
	twitRepo persistent.TwitRepository,
	mediaStore media.Store,
	redisClient *redis.Client,
	queueClient *queue.Client,
	logger *logger.Logger,
) TwitUseCase {
	return &twitUseCase{
		twitRepo:    twitRepo,
		mediaStore:  mediaStore,
		redisClient: redisClient,
		queueClient: queueClient,
		logger:      logger,
	}
}

func (uc *twitUseCase) CreateTwit(ctx context.Context, userID, content string, imageFiles []*multipart.FileHeader, videoFile *multipart.FileHeader) (*entity.Twit, error) {
	if strings.TrimSpace(content) == "" {
		return nil, entity.ErrEmptyContent
	}
	if err := media.ValidateAttachments(imageFiles, videoFile); err != nil {
		return nil, err
	}

	imageURLs, err := uc.uploadImages(ctx, userID, imageFiles)
	if err != nil {
		return nil, err
	}

	var videoURL string
	if videoFile != nil {
		videoURL, err = uc.uploadAttachment(ctx, userID, videoFile)
		if err != nil {
			return nil, err
		}
	}

	twit := &entity.Twit{
		AuthorID: userID,
		Content:  content,
		Images:   imageURLs,
		Video:    videoURL,
		IsTwit:   true,
		IsReply:  false,
	}

	if err := uc.twitRepo.Create(twit); err != nil {
		return nil, fmt.Errorf("failed to create twit: %w", err)
	}

	uc.cacheTwit(twit)
	uc.notify(map[string]interface{}{
		"type":      "new_twit",
		"twit_id":   twit.ID,
		"author_id": twit.AuthorID,
		"priority":  5,
	})

	return twit, nil
}

// CreateReply creates the reply row and hands back the refreshed parent,
// replies included. Callers that need the reply itself can find it at the
// tail of the parent's reply list.
func (uc *twitUseCase) CreateReply(ctx context.Context, parentID, userID, content string, imageFiles []*multipart.FileHeader) (*entity.Twit, error) {
	parent, err := uc.twitRepo.GetByID(parentID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, entity.ErrEmptyContent
	}
	if err := media.ValidateAttachments(imageFiles, nil); err != nil {
		return nil, err
	}

	imageURLs, err := uc.uploadImages(ctx, userID, imageFiles)
	if err != nil {
		return nil, err
	}

	reply := &entity.Twit{
		AuthorID:   userID,
		Content:    content,
		Images:     imageURLs,
		IsTwit:     false,
		IsReply:    true,
		ReplyForID: parent.ID,
	}

	if err := uc.twitRepo.Create(reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	uc.invalidateTwit(parent)
	if parent.AuthorID != userID {
		uc.notify(map[string]interface{}{
			"type":       "reply",
			"user_id":    parent.AuthorID,
			"replier_id": userID,
			"twit_id":    parent.ID,
			"priority":   3,
		})
	}

	return uc.twitRepo.GetByID(parent.ID)
}

func (uc *twitUseCase) ToggleRetwit(twitID, userID string) (*entity.Twit, error) {
	twit, err := uc.twitRepo.GetByID(twitID)
	if err != nil {
		return nil, err
	}

	isRetwitted, err := uc.twitRepo.IsRetwitted(userID, twitID)
	if err != nil {
		return nil, fmt.Errorf("failed to check retwit status: %w", err)
	}

	if isRetwitted {
		if err := uc.twitRepo.DeleteRetwit(userID, twitID); err != nil {
			return nil, fmt.Errorf("failed to remove retwit: %w", err)
		}
	} else {
		if err := uc.twitRepo.CreateRetwit(userID, twitID); err != nil {
			return nil, fmt.Errorf("failed to retwit: %w", err)
		}
		if twit.AuthorID != userID {
			uc.notify(map[string]interface{}{
				"type":        "retwit",
				"user_id":     twit.AuthorID,
				"retwiter_id": userID,
				"twit_id":     twitID,
				"priority":    3,
			})
		}
	}

	uc.invalidateTwit(twit)
	return uc.twitRepo.GetByID(twitID)
}

func (uc *twitUseCase) ToggleLike(twitID, userID string) (*entity.Twit, error) {
	twit, err := uc.twitRepo.GetByID(twitID)
	if err != nil {
		return nil, err
	}

	isLiked, err := uc.twitRepo.IsLiked(userID, twitID)
	if err != nil {
		return nil, fmt.Errorf("failed to check like status: %w", err)
	}

	if isLiked {
		if err := uc.twitRepo.DeleteLike(userID, twitID); err != nil {
			return nil, fmt.Errorf("failed to unlike twit: %w", err)
		}
	} else {
		if err := uc.twitRepo.CreateLike(userID, twitID); err != nil {
			return nil, fmt.Errorf("failed to like twit: %w", err)
		}
		if twit.AuthorID != userID {
			uc.notify(map[string]interface{}{
				"type":     "like",
				"user_id":  twit.AuthorID,
				"liker_id": userID,
				"twit_id":  twitID,
				"priority": 3,
			})
		}
	}

	uc.invalidateTwit(twit)
	return uc.twitRepo.GetByID(twitID)
}

func (uc *twitUseCase) GetTwit(twitID, viewerID string) (*entity.TwitView, error) {
	twit, err := uc.getTwitCached(twitID)
	if err != nil {
		return nil, err
	}
	return twit.View(viewerID), nil
}

func (uc *twitUseCase) UpdateTwit(ctx context.Context, twitID, userID, content string, imageFiles []*multipart.FileHeader, videoFile *multipart.FileHeader) (*entity.TwitView, error) {
	twit, err := uc.twitRepo.GetByID(twitID)
	if err != nil {
		return nil, err
	}
	if twit.AuthorID != userID {
		return nil, entity.ErrNotOwner
	}

	if err := media.ValidateAttachments(imageFiles, videoFile); err != nil {
		return nil, err
	}

	twit.Content = content

	// Replaced media is deleted best-effort after the row commits; omitted
	// fields keep their current value.
	var replaced []string

	if len(imageFiles) > 0 {
		imageURLs, err := uc.uploadImages(ctx, userID, imageFiles)
		if err != nil {
			return nil, err
		}
		replaced = append(replaced, twit.Images...)
		twit.Images = imageURLs
	}

	if videoFile != nil {
		videoURL, err := uc.uploadAttachment(ctx, userID, videoFile)
		if err != nil {
			return nil, err
		}
		if twit.Video != "" {
			replaced = append(replaced, twit.Video)
		}
		twit.Video = videoURL
	}

	if err := uc.twitRepo.Update(twit); err != nil {
		return nil, fmt.Errorf("failed to update twit: %w", err)
	}

	uc.invalidateTwit(twit)
	uc.deleteMediaURLs(replaced)

	updated, err := uc.twitRepo.GetByID(twitID)
	if err != nil {
		return nil, err
	}
	return updated.View(userID), nil
}

func (uc *twitUseCase) DeleteTwit(twitID, userID string) error {
	twit, err := uc.twitRepo.GetByID(twitID)
	if err != nil {
		return err
	}
	if twit.AuthorID != userID {
		return entity.ErrNotOwner
	}

	if err := uc.twitRepo.Delete(twitID); err != nil {
		return err
	}

	uc.invalidateTwit(twit)
	uc.deleteMediaURLs(twit.MediaURLs())
	return nil
}

func (uc *twitUseCase) ListFeed(viewerID string) ([]*entity.TwitView, error) {
	twits, err := uc.twitRepo.ListTimeline()
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline: %w", err)
	}
	return entity.ViewAll(twits, viewerID), nil
}

func (uc *twitUseCase) ListUserTwits(targetUserID, viewerID string) ([]*entity.TwitView, error) {
	twits, err := uc.twitRepo.ListForUser(targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user twits: %w", err)
	}
	return entity.ViewAll(twits, viewerID), nil
}

func (uc *twitUseCase) ListLikedTwits(targetUserID, viewerID string) ([]*entity.TwitView, error) {
	twits, err := uc.twitRepo.ListLikedBy(targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked twits: %w", err)
	}
	return entity.ViewAll(twits, viewerID), nil
}

// UploadFiles stores a mixed batch of attachments and returns their URLs.
// The whole batch is validated up front; nothing is uploaded on violation.
func (uc *twitUseCase) UploadFiles(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error) {
	if err := media.ValidateBatch(files); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := uc.uploadAttachment(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (uc *twitUseCase) uploadImages(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := uc.uploadAttachment(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (uc *twitUseCase) uploadAttachment(ctx context.Context, userID string, f *multipart.FileHeader) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	contentType := media.ContentType(f)
	key := fmt.Sprintf("twits/%s/%s%s", userID, uuid.New().String(), filepath.Ext(f.Filename))

	url, err := uc.mediaStore.Upload(ctx, key, src, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}
	return url, nil
}

// deleteMediaURLs is best-effort cleanup: failures are logged and never
// surfaced, the primary mutation has already committed.
func (uc *twitUseCase) deleteMediaURLs(urls []string) {
	if len(urls) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, url := range urls {
		if err := uc.mediaStore.Delete(ctx, url); err != nil {
			uc.logger.Error("Failed to delete media %s: %v", url, err)
		}
	}
}

func (uc *twitUseCase) getTwitCached(twitID string) (*entity.Twit, error) {
	if uc.redisClient != nil {
		ctx := context.Background()
		if data, err := uc.redisClient.Get(ctx, twitCacheKey(twitID)).Result(); err == nil {
			var twit entity.Twit
			if err := json.Unmarshal([]byte(data), &twit); err == nil {
				return &twit, nil
			}
		}
	}

	twit, err := uc.twitRepo.GetByID(twitID)
	if err != nil {
		return nil, err
	}
	uc.cacheTwit(twit)
	return twit, nil
}

func (uc *twitUseCase) cacheTwit(twit *entity.Twit) {
	if uc.redisClient == nil {
		return
	}

	data, err := json.Marshal(twit)
	if err != nil {
		return
	}
	uc.redisClient.Set(context.Background(), twitCacheKey(twit.ID), data, 24*time.Hour)
}

// invalidateTwit drops the cached entry for the twit along with every
// entry that embeds its state: the parent nesting it as a reply, and the
// replies nested under it.
func (uc *twitUseCase) invalidateTwit(twit *entity.Twit) {
	if uc.redisClient == nil || twit == nil {
		return
	}

	keys := []string{twitCacheKey(twit.ID)}
	if twit.ReplyForID != "" {
		keys = append(keys, twitCacheKey(twit.ReplyForID))
	}
	for i := range twit.Replies {
		keys = append(keys, twitCacheKey(twit.Replies[i].ID))
	}
	uc.redisClient.Del(context.Background(), keys...)
}

func twitCacheKey(twitID string) string {
	return fmt.Sprintf("twit:%s", twitID)
}

func (uc *twitUseCase) notify(task map[string]interface{}) {
	if uc.queueClient == nil {
		return
	}

	go func() {
		if err := uc.queueClient.PublishNotificationTask(task); err != nil {
			uc.logger.Error("Failed to publish %v notification: %v", task["type"], err)
		}
	}()
}
