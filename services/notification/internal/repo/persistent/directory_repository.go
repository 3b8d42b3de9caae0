package persistent

import (
	"context"
	"errors"

	"recipe-share/services/notification/internal/entity"
	"recipe-share/services/notification/internal/model"

	"gorm.io/gorm"
)

// DirectoryRepository reads identities and the follower relation owned by the
// platform's account service.
type DirectoryRepository interface {
	FindUser(ctx context.Context, userID string) (*entity.UserSummary, error)
	ListUserIDs(ctx context.Context, excludeID string) ([]string, error)
	ListFollowerIDs(ctx context.Context, followingID string) ([]string, error)
}

type directoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) FindUser(ctx context.Context, userID string) (*entity.UserSummary, error) {
	var userModel model.UserModel
	err := r.db.WithContext(ctx).
		Select("id", "username", "profile_picture").
		Where("id = ?", userID).
		First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToUserSummary(&userModel), nil
}

func (r *directoryRepository) ListUserIDs(ctx context.Context, excludeID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id <> ?", excludeID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *directoryRepository) ListFollowerIDs(ctx context.Context, followingID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.FollowerModel{}).
		Joins("JOIN users ON users.id = followers.follower_id AND users.deleted_at IS NULL").
		Where("followers.following_id = ?", followingID).
		Order("followers.follower_id").
		Pluck("followers.follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
