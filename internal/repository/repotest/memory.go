// Package repotest provides in-memory repositories with the same error
// behaviour as the mongo ones, for service and handler tests.
package repotest

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sociopedia/internal/model"
	"sociopedia/internal/repository"
)

// UserStore is an in-memory repository.UserRepository.
type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
}

var _ repository.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]*model.User)}
}

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.ErrEmailExists
		}
	}

	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Friends == nil {
		u.Friends = []string{}
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[oid]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *UserStore) GetByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	out := []model.User{}
	for _, id := range ids {
		u, err := s.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *UserStore) SetFriendship(ctx context.Context, userID, friendID string, friends bool) error {
	a, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.ErrInvalidID
	}
	b, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return model.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ua, ok := s.users[a]
	if !ok {
		return model.ErrUserNotFound
	}
	ub, ok := s.users[b]
	if !ok {
		return model.ErrUserNotFound
	}
	ua.Friends = setMember(ua.Friends, friendID, friends)
	ub.Friends = setMember(ub.Friends, userID, friends)
	return nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[oid]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.Occupation != nil {
		u.Occupation = *req.Occupation
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (s *UserStore) IncrementViewedProfile(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[oid]; ok {
		u.ViewedProfile++
	}
	return nil
}

// PostStore is an in-memory repository.PostRepository. Posts are kept in
// insertion order.
type PostStore struct {
	mu    sync.Mutex
	posts []*model.Post
}

var _ repository.PostRepository = (*PostStore)(nil)

func NewPostStore() *PostStore {
	return &PostStore{}
}

// Len is the number of stored posts.
func (s *PostStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func (s *PostStore) Create(ctx context.Context, p *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Likes == nil {
		p.Likes = map[string]bool{}
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}
	s.posts = append(s.posts, clonePost(p))
	return nil
}

func (s *PostStore) find(id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrInvalidID
	}
	for _, p := range s.posts {
		if p.ID == oid {
			return p, nil
		}
	}
	return nil, model.ErrPostNotFound
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return clonePost(p), nil
}

func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	return s.filter(func(*model.Post) bool { return true }), nil
}

func (s *PostStore) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	return s.filter(func(p *model.Post) bool { return p.UserID == userID }), nil
}

func (s *PostStore) filter(keep func(*model.Post) bool) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, *clonePost(p))
		}
	}
	return out
}

func (s *PostStore) SetLike(ctx context.Context, postID, userID string, liked bool) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.find(postID)
	if err != nil {
		return nil, err
	}
	if !primitive.IsValidObjectID(userID) {
		return nil, model.ErrInvalidID
	}
	if liked {
		p.Likes[userID] = true
	} else {
		delete(p.Likes, userID)
	}
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func setMember(set []string, id string, present bool) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, v := range set {
		if v == id {
			found = true
			if !present {
				continue
			}
		}
		out = append(out, v)
	}
	if present && !found {
		out = append(out, id)
	}
	return out
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Friends = append([]string{}, u.Friends...)
	return &c
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Likes = make(map[string]bool, len(p.Likes))
	for k, v := range p.Likes {
		c.Likes[k] = v
	}
	c.Comments = append([]string{}, p.Comments...)
	return &c
}
