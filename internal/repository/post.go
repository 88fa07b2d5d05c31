package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sociopedia/internal/database"
	"sociopedia/internal/model"
)

type postRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{coll: db.Collection(database.PostsCollection)}
}

// Create inserts a post. The caller has already copied the author fields.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Likes == nil {
		p.Likes = map[string]bool{}
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		p.ID = primitive.NilObjectID
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var p model.Post
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// find returns matching posts ordered by _id, which is insertion order for
// driver-generated ObjectIDs.
func (r *postRepository) find(ctx context.Context, filter bson.M) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// SetLike writes likes.<userID>=true or removes the key entirely; a false
// value is never stored.
func (r *postRepository) SetLike(ctx context.Context, postID, userID string, liked bool) (*model.Post, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	// userID becomes part of a field path
	if !primitive.IsValidObjectID(userID) {
		return nil, model.ErrInvalidID
	}

	field := "likes." + userID
	now := time.Now().UTC()
	var update bson.M
	if liked {
		update = bson.M{"$set": bson.M{field: true, "updatedAt": now}}
	} else {
		update = bson.M{"$unset": bson.M{field: ""}, "$set": bson.M{"updatedAt": now}}
	}

	var p model.Post
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set like: %w", err)
	}
	return &p, nil
}
