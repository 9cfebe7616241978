package persistent

import (
	"errors"

	"twitline/services/twit/internal/entity"
	"twitline/services/twit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TwitRepository interface {
	Create(twit *entity.Twit) error
	GetByID(id string) (*entity.Twit, error)
	Update(twit *entity.Twit) error
	Delete(id string) error

	ListTimeline() ([]*entity.Twit, error)
	ListForUser(userID string) ([]*entity.Twit, error)
	ListLikedBy(userID string) ([]*entity.Twit, error)

	CreateLike(userID, twitID string) error
	DeleteLike(userID, twitID string) error
	IsLiked(userID, twitID string) (bool, error)

	CreateRetwit(userID, twitID string) error
	DeleteRetwit(userID, twitID string) error
	IsRetwitted(userID, twitID string) (bool, error)
}

type twitRepository struct {
	db *gorm.DB
}

func NewTwitRepository(db *gorm.DB) TwitRepository {
	return &twitRepository{db: db}
}

// withAssociations preloads everything a Twit aggregates: its ordered
// images, like/retwit membership, and one level of replies.
func (r *twitRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order(`twit_images."order" ASC`)
		}).
		Preload("Likes").
		Preload("Retwits").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("twits.created_at ASC, twits.id ASC")
		}).
		Preload("Replies.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order(`twit_images."order" ASC`)
		}).
		Preload("Replies.Likes").
		Preload("Replies.Retwits")
}

func (r *twitRepository) Create(twit *entity.Twit) error {
	twitModel := ToTwitModel(twit)
	if twitModel.ID == "" {
		twitModel.ID = uuid.New().String()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		images := twitModel.Images
		twitModel.Images = nil

		if err := tx.Create(twitModel).Error; err != nil {
			return err
		}

		for i := range images {
			images[i].TwitID = twitModel.ID
			if images[i].ID == "" {
				images[i].ID = uuid.New().String()
			}
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}
		twitModel.Images = images

		*twit = *ToTwitEntity(twitModel)
		return nil
	})
}

func (r *twitRepository) GetByID(id string) (*entity.Twit, error) {
	var twitModel model.TwitModel
	err := r.withAssociations(r.db).Where("id = ?", id).First(&twitModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrTwitNotFound
		}
		return nil, err
	}
	return ToTwitEntity(&twitModel), nil
}

// Update persists the mutable fields only: content, video and the image
// list. Author, timestamps and classification are never touched.
func (r *twitRepository) Update(twit *entity.Twit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TwitModel{}).Where("id = ?", twit.ID).Updates(map[string]interface{}{
			"content": twit.Content,
			"video":   twit.Video,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrTwitNotFound
		}

		if err := tx.Where("twit_id = ?", twit.ID).Delete(&model.TwitImageModel{}).Error; err != nil {
			return err
		}
		for i, url := range twit.Images {
			img := model.TwitImageModel{
				ID:       uuid.New().String(),
				TwitID:   twit.ID,
				ImageURL: url,
				Order:    i,
			}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *twitRepository) Delete(id string) error {
	res := r.db.Delete(&model.TwitModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrTwitNotFound
	}
	return nil
}

func (r *twitRepository) ListTimeline() ([]*entity.Twit, error) {
	var twitModels []model.TwitModel
	err := r.withAssociations(r.db).
		Where("is_twit = ?", true).
		Order("created_at DESC, id ASC").
		Find(&twitModels).Error
	if err != nil {
		return nil, err
	}
	return ToTwitEntities(twitModels), nil
}

// ListForUser returns the user's own top-level twits plus anything they
// retwitted. The retwitted leg deliberately has no is_twit filter, so a
// retwitted reply shows up here too.
func (r *twitRepository) ListForUser(userID string) ([]*entity.Twit, error) {
	var twitModels []model.TwitModel
	err := r.withAssociations(r.db).
		Joins("LEFT JOIN retwits ON retwits.twit_id = twits.id AND retwits.user_id = ?", userID).
		Where("(twits.author_id = ? AND twits.is_twit = ?) OR retwits.id IS NOT NULL", userID, true).
		Order("twits.created_at DESC, twits.id ASC").
		Find(&twitModels).Error
	if err != nil {
		return nil, err
	}
	return ToTwitEntities(twitModels), nil
}

func (r *twitRepository) ListLikedBy(userID string) ([]*entity.Twit, error) {
	var twitModels []model.TwitModel
	err := r.withAssociations(r.db).
		Joins("INNER JOIN likes ON likes.twit_id = twits.id").
		Where("likes.user_id = ?", userID).
		Order("twits.created_at DESC, twits.id ASC").
		Find(&twitModels).Error
	if err != nil {
		return nil, err
	}
	return ToTwitEntities(twitModels), nil
}

// Like and retwit toggles lean on the unique (user_id, twit_id) index:
// a concurrent duplicate insert is swallowed by ON CONFLICT, a concurrent
// duplicate delete simply affects zero rows.

func (r *twitRepository) CreateLike(userID, twitID string) error {
	like := model.LikeModel{
		ID:     uuid.New().String(),
		UserID: userID,
		TwitID: twitID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "twit_id"}},
		DoNothing: true,
	}).Create(&like).Error
}

func (r *twitRepository) DeleteLike(userID, twitID string) error {
	return r.db.Where("user_id = ? AND twit_id = ?", userID, twitID).Delete(&model.LikeModel{}).Error
}

func (r *twitRepository) IsLiked(userID, twitID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.LikeModel{}).Where("user_id = ? AND twit_id = ?", userID, twitID).Count(&count).Error
	return count > 0, err
}

func (r *twitRepository) CreateRetwit(userID, twitID string) error {
	retwit := model.RetwitModel{
		ID:     uuid.New().String(),
		UserID: userID,
		TwitID: twitID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "twit_id"}},
		DoNothing: true,
	}).Create(&retwit).Error
}

func (r *twitRepository) DeleteRetwit(userID, twitID string) error {
	return r.db.Where("user_id = ? AND twit_id = ?", userID, twitID).Delete(&model.RetwitModel{}).Error
}

func (r *twitRepository) IsRetwitted(userID, twitID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.RetwitModel{}).Where("user_id = ? AND twit_id = ?", userID, twitID).Count(&count).Error
	return count > 0, err
}
