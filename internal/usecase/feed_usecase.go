package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"feedstream/internal/apperr"
	"feedstream/internal/entity"
	"feedstream/internal/notifier"
	"feedstream/internal/policy"
	"feedstream/internal/repo/persistent"
	"feedstream/pkg/logger"
	"feedstream/pkg/queue"

	"github.com/redis/go-redis/v9"
)

const minPostFieldLength = 5

const postCacheTTL = 24 * time.Hour

// AssetManager is the slice of the asset lifecycle the feed needs.
type AssetManager interface {
	Store(body io.Reader, originalName, contentType string) (string, error)
	Reclaim(key string)
}

type FeedUseCase interface {
	CreatePost(identity policy.Identity, title, content, imageKey string) (*entity.Post, error)
	ListPosts(identity policy.Identity, page int) ([]*entity.Post, int64, error)
	GetPost(identity policy.Identity, postID string) (*entity.Post, error)
	UpdatePost(identity policy.Identity, postID, title, content, imageKey string) (*entity.Post, error)
	DeletePost(identity policy.Identity, postID string) error
	UploadImage(identity policy.Identity, body io.Reader, originalName, contentType, oldKey string) (string, error)
}

type feedUseCase struct {
	postRepo    persistent.PostRepository
	userRepo    persistent.UserRepository
	assets      AssetManager
	hub         *notifier.Hub
	queueClient *queue.Client
	redisClient *redis.Client
	pageSize    int
	logger      *logger.Logger
}

func NewFeedUseCase(
	postRepo persistent.PostRepository,
	userRepo persistent.UserRepository,
	assets AssetManager,
	hub *notifier.Hub,
	queueClient *queue.Client,
	redisClient *redis.Client,
	pageSize int,
	log *logger.Logger,
) FeedUseCase {
	return &feedUseCase{
		postRepo:    postRepo,
		userRepo:    userRepo,
		assets:      assets,
		hub:         hub,
		queueClient: queueClient,
		redisClient: redisClient,
		pageSize:    pageSize,
		logger:      log,
	}
}

func validatePostInput(title, content string) error {
	var fields []apperr.FieldError
	if len(strings.TrimSpace(title)) < minPostFieldLength {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "Title is invalid"})
	}
	if len(strings.TrimSpace(content)) < minPostFieldLength {
		fields = append(fields, apperr.FieldError{Field: "content", Message: "Content is invalid"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

func (uc *feedUseCase) CreatePost(identity policy.Identity, title, content, imageKey string) (*entity.Post, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	if err := validatePostInput(title, content); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(identity.UserID)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return nil, apperr.NotAuthenticated()
		}
		return nil, err
	}

	post := &entity.Post{
		CreatorID: user.ID,
		Title:     title,
		Content:   content,
		ImageKey:  imageKey,
	}

	if err := uc.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	// Linking the post into the creator's set is a second write with no
	// transaction around the pair; a failure here leaves the post without a
	// back-reference and is surfaced as-is.
	if err := uc.userRepo.AppendPost(user.ID, post.ID); err != nil {
		return nil, fmt.Errorf("failed to link post to creator: %w", err)
	}

	post.Creator = &entity.Creator{ID: user.ID, Name: user.Name}
	uc.cachePost(post)
	uc.publishEvent(notifier.Event{Action: notifier.ActionCreate, Post: post})

	return post, nil
}

func (uc *feedUseCase) ListPosts(identity policy.Identity, page int) ([]*entity.Post, int64, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * uc.pageSize

	// Count and slice are separate queries; under concurrent writes they
	// may disagree, which is accepted.
	total, err := uc.postRepo.Count()
	if err != nil {
		return nil, 0, err
	}

	posts, err := uc.postRepo.List(uc.pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	uc.resolveCreators(posts)
	return posts, total, nil
}

func (uc *feedUseCase) GetPost(identity policy.Identity, postID string) (*entity.Post, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, err
	}

	if cached := uc.cachedPost(postID); cached != nil {
		return cached, nil
	}

	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	uc.resolveCreators([]*entity.Post{post})
	uc.cachePost(post)
	return post, nil
}

func (uc *feedUseCase) UpdatePost(identity policy.Identity, postID, title, content, imageKey string) (*entity.Post, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, err
	}

	// Ownership is checked against the row loaded in this operation, never
	// against a cached copy.
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwnership(identity, post.CreatorID); err != nil {
		return nil, err
	}
	if err := validatePostInput(title, content); err != nil {
		return nil, err
	}

	oldKey := post.ImageKey
	replaced := imageKey != "" && imageKey != oldKey

	post.Title = title
	post.Content = content
	if replaced {
		post.ImageKey = imageKey
	}

	if err := uc.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	// Reclaim the superseded asset only after the new reference is
	// persisted, and never as part of the response path.
	if replaced {
		go uc.assets.Reclaim(oldKey)
	}

	uc.resolveCreators([]*entity.Post{post})
	uc.cachePost(post)
	uc.publishEvent(notifier.Event{Action: notifier.ActionUpdate, Post: post})

	return post, nil
}

func (uc *feedUseCase) DeletePost(identity policy.Identity, postID string) error {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return err
	}

	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if err := policy.RequireOwnership(identity, post.CreatorID); err != nil {
		return err
	}

	// Best-effort cleanup before the record goes away; Reclaim swallows
	// its own failures.
	uc.assets.Reclaim(post.ImageKey)

	if err := uc.postRepo.Delete(postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if err := uc.userRepo.RemovePost(post.CreatorID, postID); err != nil {
		return fmt.Errorf("failed to unlink post from creator: %w", err)
	}

	uc.purgeCachedPost(postID)
	uc.publishEvent(notifier.Event{Action: notifier.ActionDelete, PostID: postID})

	return nil
}

func (uc *feedUseCase) UploadImage(identity policy.Identity, body io.Reader, originalName, contentType, oldKey string) (string, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return "", err
	}

	// A request without a file is tolerated as a no-op; the empty key tells
	// the caller nothing was stored. The old asset stays untouched.
	if body == nil {
		return "", nil
	}

	key, err := uc.assets.Store(body, originalName, contentType)
	if err != nil {
		return "", err
	}

	if oldKey != "" {
		go uc.assets.Reclaim(oldKey)
	}

	return key, nil
}

// resolveCreators attaches the denormalized creator to each post with an
// explicit lookup, memoized per call.
func (uc *feedUseCase) resolveCreators(posts []*entity.Post) {
	creators := make(map[string]*entity.Creator)
	for _, post := range posts {
		creator, ok := creators[post.CreatorID]
		if !ok {
			user, err := uc.userRepo.GetByID(post.CreatorID)
			if err != nil {
				uc.logger.Warn("Failed to resolve creator %s: %v", post.CreatorID, err)
				continue
			}
			creator = &entity.Creator{ID: user.ID, Name: user.Name}
			creators[post.CreatorID] = creator
		}
		post.Creator = creator
	}
}

func (uc *feedUseCase) publishEvent(event notifier.Event) {
	uc.hub.Publish(event)

	if uc.queueClient != nil {
		go func() {
			if err := uc.queueClient.PublishFeedEvent(string(event.Action), event); err != nil {
				uc.logger.Error("Failed to publish %s event to queue: %v", event.Action, err)
			}
		}()
	}
}

func (uc *feedUseCase) cachePost(post *entity.Post) {
	if uc.redisClient == nil {
		return
	}
	data, err := json.Marshal(post)
	if err != nil {
		return
	}
	ctx := context.Background()
	if err := uc.redisClient.Set(ctx, postCacheKey(post.ID), data, postCacheTTL).Err(); err != nil {
		uc.logger.Warn("Failed to cache post %s: %v", post.ID, err)
	}
}

func (uc *feedUseCase) cachedPost(postID string) *entity.Post {
	if uc.redisClient == nil {
		return nil
	}
	data, err := uc.redisClient.Get(context.Background(), postCacheKey(postID)).Bytes()
	if err != nil {
		return nil
	}
	var post entity.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil
	}
	return &post
}

func (uc *feedUseCase) purgeCachedPost(postID string) {
	if uc.redisClient == nil {
		return
	}
	if err := uc.redisClient.Del(context.Background(), postCacheKey(postID)).Err(); err != nil {
		uc.logger.Warn("Failed to purge cached post %s: %v", postID, err)
	}
}

func postCacheKey(postID string) string {
	return "post:" + postID
}
