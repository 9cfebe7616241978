package persistent

import (
	"sort"

	"twitline/services/twit/internal/entity"
	"twitline/services/twit/internal/model"
)

func ToTwitEntity(m *model.TwitModel) *entity.Twit {
	if m == nil {
		return nil
	}

	twit := &entity.Twit{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		Video:     m.Video,
		IsTwit:    m.IsTwit,
		IsReply:   m.IsReply,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.ReplyForID != nil {
		twit.ReplyForID = *m.ReplyForID
	}

	if len(m.Images) > 0 {
		images := make([]model.TwitImageModel, len(m.Images))
		copy(images, m.Images)
		sort.SliceStable(images, func(i, j int) bool {
			return images[i].Order < images[j].Order
		})
		twit.Images = make([]string, len(images))
		for i, img := range images {
			twit.Images[i] = img.ImageURL
		}
	}

	if len(m.Likes) > 0 {
		twit.LikedBy = make([]string, len(m.Likes))
		for i, l := range m.Likes {
			twit.LikedBy[i] = l.UserID
		}
	}

	if len(m.Retwits) > 0 {
		twit.RetwittedBy = make([]string, len(m.Retwits))
		for i, r := range m.Retwits {
			twit.RetwittedBy[i] = r.UserID
		}
	}

	if len(m.Replies) > 0 {
		twit.Replies = make([]entity.Twit, len(m.Replies))
		for i := range m.Replies {
			twit.Replies[i] = *ToTwitEntity(&m.Replies[i])
		}
	}

	return twit
}

func ToTwitModel(e *entity.Twit) *model.TwitModel {
	if e == nil {
		return nil
	}

	twit := &model.TwitModel{
		ID:        e.ID,
		AuthorID:  e.AuthorID,
		Content:   e.Content,
		Video:     e.Video,
		IsTwit:    e.IsTwit,
		IsReply:   e.IsReply,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	if e.ReplyForID != "" {
		replyFor := e.ReplyForID
		twit.ReplyForID = &replyFor
	}

	if len(e.Images) > 0 {
		twit.Images = make([]model.TwitImageModel, len(e.Images))
		for i, url := range e.Images {
			twit.Images[i] = model.TwitImageModel{
				ImageURL: url,
				Order:    i,
			}
		}
	}

	return twit
}

func ToTwitEntities(models []model.TwitModel) []*entity.Twit {
	twits := make([]*entity.Twit, len(models))
	for i := range models {
		twits[i] = ToTwitEntity(&models[i])
	}
	return twits
}
