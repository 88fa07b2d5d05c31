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

// userRepository implements UserRepository on a mongo collection
type userRepository struct {
	coll *mongo.Collection
	// useTransactions runs both sides of a friendship update in one
	// session transaction. Requires a replica set.
	useTransactions bool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *mongo.Database, useTransactions bool) UserRepository {
	return &userRepository{
		coll:            db.Collection(database.UsersCollection),
		useTransactions: useTransactions,
	}
}

// Create inserts a new user and sets its generated ID
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Friends == nil {
		u.Friends = []string{}
	}

	_, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		u.ID = primitive.NilObjectID
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrEmailExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "id")
}

// GetByEmail retrieves a user by their email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email")
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M, by string) (*model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", by, err)
	}
	return &u, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return n > 0, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []model.User{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	var found []model.User
	if err := cur.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	// $in does not preserve order; re-order to match the friend set
	byID := make(map[primitive.ObjectID]model.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	ordered := make([]model.User, 0, len(oids))
	for _, oid := range oids {
		if u, ok := byID[oid]; ok {
			ordered = append(ordered, u)
		}
	}

	return ordered, nil
}

// SetFriendship applies both directions of the relation. Without
// transactions the two writes are sequential and a concurrent toggle from
// the other side is last-write-wins per document.
func (r *userRepository) SetFriendship(ctx context.Context, userID, friendID string, friends bool) error {
	a, err := parseID(userID)
	if err != nil {
		return err
	}
	b, err := parseID(friendID)
	if err != nil {
		return err
	}

	apply := func(ctx context.Context) error {
		if err := r.updateFriends(ctx, a, friendID, friends); err != nil {
			return err
		}
		return r.updateFriends(ctx, b, userID, friends)
	}

	if !r.useTransactions {
		return apply(ctx)
	}

	session, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, apply(sessCtx)
	})
	return err
}

func (r *userRepository) updateFriends(ctx context.Context, id primitive.ObjectID, other string, add bool) error {
	op := "$pull"
	if add {
		op = "$addToSet"
	}
	update := bson.M{
		op:     bson.M{"friends": other},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update friends of %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Occupation != nil {
		set["occupation"] = *req.Occupation
	}

	var u model.User
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &u, nil
}

func (r *userRepository) IncrementViewedProfile(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"viewedProfile": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment viewed profile: %w", err)
	}
	return nil
}
