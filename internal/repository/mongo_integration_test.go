package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sociopedia/internal/database"
	"sociopedia/internal/model"
)

// These tests talk to a real mongod. Set MONGO_TEST_URL to run them, e.g.
// MONGO_TEST_URL=mongodb://localhost:27017 go test ./internal/repository/...
func testDB(t *testing.T) *mongo.Database {
	t.Helper()

	url := os.Getenv("MONGO_TEST_URL")
	if url == "" {
		t.Skip("MONGO_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	db := client.Database(fmt.Sprintf("sociopedia_test_%d", time.Now().UnixNano()))
	if err := database.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func newUser(email string) *model.User {
	return &model.User{FirstName: "Test", LastName: "User", Email: email, Password: "hash"}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db, false)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("alice@x.com")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := repo.Create(ctx, newUser("bob@x.com")); err != nil {
		t.Fatalf("distinct email: %v", err)
	}

	err := repo.Create(ctx, newUser("alice@x.com"))
	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
}

func TestUserRepository_SetFriendship(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db, false)
	ctx := context.Background()

	alice, bob := newUser("alice@x.com"), newUser("bob@x.com")
	if err := repo.Create(ctx, alice); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, bob); err != nil {
		t.Fatal(err)
	}
	a, b := alice.ID.Hex(), bob.ID.Hex()

	if err := repo.SetFriendship(ctx, a, b, true); err != nil {
		t.Fatalf("add: %v", err)
	}
	// $addToSet keeps the set free of duplicates
	if err := repo.SetFriendship(ctx, a, b, true); err != nil {
		t.Fatalf("add again: %v", err)
	}

	gotA, _ := repo.GetByID(ctx, a)
	gotB, _ := repo.GetByID(ctx, b)
	if len(gotA.Friends) != 1 || gotA.Friends[0] != b {
		t.Errorf("alice friends = %v, want [%s]", gotA.Friends, b)
	}
	if len(gotB.Friends) != 1 || gotB.Friends[0] != a {
		t.Errorf("bob friends = %v, want [%s]", gotB.Friends, a)
	}

	friends, err := repo.GetByIDs(ctx, gotA.Friends)
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 1 || friends[0].Email != "bob@x.com" {
		t.Errorf("GetByIDs = %+v", friends)
	}

	if err := repo.SetFriendship(ctx, a, b, false); err != nil {
		t.Fatalf("remove: %v", err)
	}
	gotA, _ = repo.GetByID(ctx, a)
	gotB, _ = repo.GetByID(ctx, b)
	if len(gotA.Friends) != 0 || len(gotB.Friends) != 0 {
		t.Errorf("friends after removal: alice=%v bob=%v", gotA.Friends, gotB.Friends)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db, false)

	_, err := repo.GetByID(context.Background(), "64b000000000000000000000")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}

	_, err = repo.GetByID(context.Background(), "not-an-id")
	if !errors.Is(err, model.ErrInvalidID) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidID)
	}
}

func TestPostRepository_LikeToggleAndOrder(t *testing.T) {
	db := testDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := "64b000000000000000000001"
	liker := "64b000000000000000000002"

	first := &model.Post{UserID: author, Description: "hello"}
	second := &model.Post{UserID: "64b000000000000000000003", Description: "world"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatal(err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Errorf("List order wrong: %+v", all)
	}

	mine, err := repo.ListByUser(ctx, author)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Errorf("ListByUser = %+v", mine)
	}

	liked, err := repo.SetLike(ctx, first.ID.Hex(), liker, true)
	if err != nil {
		t.Fatal(err)
	}
	if !liked.Likes[liker] {
		t.Errorf("likes = %v, want %s:true", liked.Likes, liker)
	}

	unliked, err := repo.SetLike(ctx, first.ID.Hex(), liker, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := unliked.Likes[liker]; ok {
		t.Errorf("likes = %v, want key removed", unliked.Likes)
	}

	_, err = repo.SetLike(ctx, "64b0000000000000000000ff", liker, true)
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}
