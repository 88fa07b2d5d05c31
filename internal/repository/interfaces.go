package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sociopedia/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// GetByIDs returns the users in the order of ids, skipping unknown ids.
	GetByIDs(ctx context.Context, ids []string) ([]model.User, error)
	// SetFriendship adds or removes each user from the other's friend set.
	SetFriendship(ctx context.Context, userID, friendID string, friends bool) error
	UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error)
	IncrementViewedProfile(ctx context.Context, id string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// List returns every post in insertion order.
	List(ctx context.Context) ([]model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]model.Post, error)
	// SetLike sets or clears likes[userID] and returns the updated post.
	SetLike(ctx context.Context, postID, userID string, liked bool) (*model.Post, error)
}

// parseID converts a hex path id into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, model.ErrInvalidID
	}
	return oid, nil
}
