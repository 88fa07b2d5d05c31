package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"sociopedia/internal/model"
	"sociopedia/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// Create stores a post for authorID. The author's name, location and
// picture are copied into the post now and are not refreshed when the
// author later edits their profile.
func (s *PostService) Create(ctx context.Context, authorID string, req model.CreatePostRequest) (*model.Post, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := model.Validate(req); err != nil {
		return nil, err
	}
	if req.Description == "" && req.PicturePath == "" {
		return nil, model.ErrEmptyPost
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:          authorID,
		FirstName:       author.FirstName,
		LastName:        author.LastName,
		Location:        author.Location,
		Description:     req.Description,
		PicturePath:     req.PicturePath,
		UserPicturePath: author.PicturePath,
		Likes:           map[string]bool{},
		Comments:        []string{},
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	log.Printf("[PostService] User %s created post %s", authorID, post.ID.Hex())
	return post, nil
}

// Feed returns every post in insertion order.
func (s *PostService) Feed(ctx context.Context) ([]model.Post, error) {
	return s.postRepo.List(ctx)
}

// FeedByUser returns the posts written by authorID in insertion order.
func (s *PostService) FeedByUser(ctx context.Context, authorID string) ([]model.Post, error) {
	return s.postRepo.ListByUser(ctx, authorID)
}

func (s *PostService) GetByID(ctx context.Context, postID string) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// ToggleLike adds userID to the post's likes, or removes it if present.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked := !post.IsLikedBy(userID)
	updated, err := s.postRepo.SetLike(ctx, postID, userID, liked)
	if err != nil {
		return nil, err
	}

	log.Printf("[PostService] User %s liked=%t post %s", userID, liked, postID)
	return updated, nil
}
