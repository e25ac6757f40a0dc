package usecase

import (
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"feedstream/internal/apperr"
	"feedstream/internal/entity"

	"github.com/google/uuid"
)

// In-memory fakes of the repository and asset interfaces, used instead of
// testify mocks because the use cases exercise multi-step flows where state
// between calls matters.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	links map[string][]string

	failAppend     bool
	failGetByEmail error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[string]*entity.User{},
		links: map[string][]string{},
	}
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGetByEmail != nil {
		return nil, r.failGetByEmail
	}
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("user with email %s not found", email)
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) Update(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) AppendPost(userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAppend {
		return errors.New("append failed")
	}
	for _, id := range r.links[userID] {
		if id == postID {
			return nil
		}
	}
	r.links[userID] = append(r.links[userID], postID)
	return nil
}

func (r *fakeUserRepo) RemovePost(userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.links[userID]
	for i, id := range ids {
		if id == postID {
			r.links[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeUserRepo) GetPostIDs(userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.links[userID]...), nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*entity.Post
	seq   int

	failCreate bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*entity.Post{}}
}

func (r *fakePostRepo) Create(post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("create failed")
	}
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	// Strictly increasing timestamps keep createdAt ordering deterministic
	r.seq++
	post.CreatedAt = time.Unix(int64(r.seq), 0)
	post.UpdatedAt = post.CreatedAt
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetByID(id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperr.NotFound("post %s not found", id)
	}
	clone := *p
	clone.Creator = nil
	return &clone, nil
}

func (r *fakePostRepo) List(limit, offset int) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		clone := *p
		clone.Creator = nil
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakePostRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

func (r *fakePostRepo) Update(post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return apperr.NotFound("post %s not found", post.ID)
	}
	post.UpdatedAt = time.Now()
	clone := *post
	clone.Creator = nil
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type fakeAssets struct {
	mu        sync.Mutex
	seq       int
	stored    []string
	reclaimed []string

	failStore bool
}

func (a *fakeAssets) Store(body io.Reader, originalName, contentType string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failStore {
		return "", errors.New("store failed")
	}
	io.Copy(io.Discard, body)
	a.seq++
	key := "images/" + originalName
	a.stored = append(a.stored, key)
	return key, nil
}

func (a *fakeAssets) Reclaim(key string) {
	if key == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reclaimed = append(a.reclaimed, key)
}

func (a *fakeAssets) reclaimedKeys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.reclaimed...)
}
