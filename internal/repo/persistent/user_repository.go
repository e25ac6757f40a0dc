package persistent

import (
	"errors"

	"feedstream/internal/apperr"
	"feedstream/internal/entity"
	"feedstream/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	Update(user *entity.User) error
	AppendPost(userID, postID string) error
	RemovePost(userID, postID string) error
	GetPostIDs(userID string) ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}
	if err := r.db.Create(userModel).Error; err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("email = ?", email).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user with email %s not found", email)
		}
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByID(id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", id).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) Update(user *entity.User) error {
	userModel := ToUserModel(user)
	return r.db.Save(userModel).Error
}

// AppendPost links a post into the user's back-reference set. Re-linking an
// already linked post is a no-op.
func (r *userRepository) AppendPost(userID, postID string) error {
	link := &model.UserPostModel{UserID: userID, PostID: postID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error
}

func (r *userRepository) RemovePost(userID, postID string) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.UserPostModel{}).Error
}

func (r *userRepository) GetPostIDs(userID string) ([]string, error) {
	var links []model.UserPostModel
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&links).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(links))
	for i := range links {
		ids[i] = links[i].PostID
	}
	return ids, nil
}
