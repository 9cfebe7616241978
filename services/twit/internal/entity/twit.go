package entity

import (
	"errors"
	"time"
)

var (
	ErrTwitNotFound = errors.New("twit not found")
	ErrNotOwner     = errors.New("you can only modify your own twits")
	ErrEmptyContent = errors.New("content is required")
)

// Twit is a post. A Twit is exactly one of a top-level twit or a reply;
// a retwit is not its own record, it is membership in RetwittedBy.
type Twit struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Content     string    `json:"content"`
	Images      []string  `json:"images"`
	Video       string    `json:"video,omitempty"`
	IsTwit      bool      `json:"is_twit"`
	IsReply     bool      `json:"is_reply"`
	ReplyForID  string    `json:"reply_for_id,omitempty"`
	LikedBy     []string  `json:"liked_by"`
	RetwittedBy []string  `json:"retwitted_by"`
	Replies     []Twit    `json:"replies,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Twit) IsLikedBy(userID string) bool {
	for _, id := range t.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

func (t *Twit) IsRetwittedBy(userID string) bool {
	for _, id := range t.RetwittedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MediaURLs returns every attachment URL the twit owns.
func (t *Twit) MediaURLs() []string {
	urls := make([]string, 0, len(t.Images)+1)
	urls = append(urls, t.Images...)
	if t.Video != "" {
		urls = append(urls, t.Video)
	}
	return urls
}

// TwitView is the viewer-relative read projection of a Twit. It is never
// stored; the viewer flags are recomputed on every request.
type TwitView struct {
	ID           string     `json:"id"`
	AuthorID     string     `json:"author_id"`
	Content      string     `json:"content"`
	Images       []string   `json:"images"`
	Video        string     `json:"video,omitempty"`
	IsTwit       bool       `json:"is_twit"`
	IsReply      bool       `json:"is_reply"`
	ReplyForID   string     `json:"reply_for_id,omitempty"`
	TotalLikes   int        `json:"total_likes"`
	TotalRetwits int        `json:"total_retwits"`
	TotalReplies int        `json:"total_replies"`
	Liked        bool       `json:"liked"`
	Retwitted    bool       `json:"retwitted"`
	Replies      []TwitView `json:"replies,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// View projects the twit for one viewer. Replies are projected for the
// same viewer, preserving their stored order.
func (t *Twit) View(viewerID string) *TwitView {
	view := &TwitView{
		ID:           t.ID,
		AuthorID:     t.AuthorID,
		Content:      t.Content,
		Images:       t.Images,
		Video:        t.Video,
		IsTwit:       t.IsTwit,
		IsReply:      t.IsReply,
		ReplyForID:   t.ReplyForID,
		TotalLikes:   len(t.LikedBy),
		TotalRetwits: len(t.RetwittedBy),
		TotalReplies: len(t.Replies),
		Liked:        t.IsLikedBy(viewerID),
		Retwitted:    t.IsRetwittedBy(viewerID),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}

	if len(t.Replies) > 0 {
		view.Replies = make([]TwitView, len(t.Replies))
		for i := range t.Replies {
			view.Replies[i] = *t.Replies[i].View(viewerID)
		}
	}
	return view
}

// ViewAll projects a list, preserving input order.
func ViewAll(twits []*Twit, viewerID string) []*TwitView {
	views := make([]*TwitView, len(twits))
	for i, t := range twits {
		views[i] = t.View(viewerID)
	}
	return views
}
