package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sociopedia/internal/model"
	"sociopedia/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user account with an optional picture filename.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)

	if err := model.Validate(req); err != nil {
		return nil, err
	}

	// Check if email already exists. The unique index still catches a
	// concurrent registration that slips between this check and the insert.
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	// bcrypt only takes 72 bytes; multi-byte runes can pass the tag and still exceed it
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", model.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    string(hashedPassword),
		PicturePath: req.PicturePath,
		Friends:     []string{},
		Location:    strings.TrimSpace(req.Location),
		Occupation:  strings.TrimSpace(req.Occupation),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			log.Printf("[UserService] Login lookup failed: %v", err)
		}
		// Don't reveal whether the email exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile retrieves a user and counts the view when someone other than
// the owner is looking. Counting is best-effort.
func (s *UserService) GetProfile(ctx context.Context, id, viewerID string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerID != "" && viewerID != id {
		if err := s.repo.IncrementViewedProfile(ctx, id); err != nil {
			log.Printf("[UserService] Failed to count profile view: user=%s err=%v", id, err)
		} else {
			user.ViewedProfile++
		}
	}

	return user, nil
}

// GetFriends resolves the user's friend set in set order. Ids that no
// longer resolve to a user are skipped.
func (s *UserService) GetFriends(ctx context.Context, id string) ([]model.FriendSummary, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	friends, err := s.repo.GetByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}

	out := make([]model.FriendSummary, 0, len(friends))
	for i := range friends {
		out = append(out, friends[i].Summary())
	}
	return out, nil
}

// ToggleFriend flips the friendship between id and friendID on both sides.
// callerID must be id. The state is read from the caller's friend set; the
// two writes are not isolated from a concurrent toggle unless the
// repository runs them in a transaction.
func (s *UserService) ToggleFriend(ctx context.Context, callerID, id, friendID string) (*model.FriendPair, error) {
	if callerID != id {
		return nil, model.ErrNotResourceOwner
	}
	if id == friendID {
		return nil, model.ErrCannotFriendSelf
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, friendID); err != nil {
		return nil, err
	}

	add := !user.HasFriend(friendID)
	if err := s.repo.SetFriendship(ctx, id, friendID, add); err != nil {
		return nil, err
	}

	updatedUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updatedFriend, err := s.repo.GetByID(ctx, friendID)
	if err != nil {
		return nil, err
	}

	return &model.FriendPair{
		User:    updatedUser,
		Friend:  updatedFriend,
		Friends: add,
	}, nil
}

// UpdateProfile edits location and occupation of the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, id string, req model.UpdateProfileRequest) (*model.User, error) {
	if callerID != id {
		return nil, model.ErrNotResourceOwner
	}
	if req.Location != nil {
		v := strings.TrimSpace(*req.Location)
		req.Location = &v
	}
	if req.Occupation != nil {
		v := strings.TrimSpace(*req.Occupation)
		req.Occupation = &v
	}
	if err := model.Validate(req); err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, id, req)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
