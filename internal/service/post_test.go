package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sociopedia/internal/model"
	"sociopedia/internal/repository/repotest"
)

func newPostFixture(t *testing.T) (*PostService, *UserService, *model.User, *model.User) {
	t.Helper()
	users := repotest.NewUserStore()
	userSvc := NewUserService(users)
	postSvc := NewPostService(repotest.NewPostStore(), users)

	alice := mustRegister(t, userSvc, "alice@x.com")
	bob := mustRegister(t, userSvc, "bob@x.com")
	return postSvc, userSvc, alice, bob
}

func TestPostService_Create_DenormalizesAuthor(t *testing.T) {
	postSvc, userSvc, alice, _ := newPostFixture(t)
	ctx := context.Background()
	u1 := alice.ID.Hex()

	post, err := postSvc.Create(ctx, u1, model.CreatePostRequest{Description: "hello", PicturePath: "p1.jpeg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.UserID != u1 || post.FirstName != "Alice" || post.Location != "Paris" {
		t.Errorf("author fields not copied: %+v", post)
	}
	if post.Likes == nil || len(post.Likes) != 0 {
		t.Errorf("likes = %v, want empty map", post.Likes)
	}

	// Later profile edits do not reach existing posts
	loc := "Rome"
	if _, err := userSvc.UpdateProfile(ctx, u1, u1, model.UpdateProfileRequest{Location: &loc}); err != nil {
		t.Fatal(err)
	}
	stored, err := postSvc.GetByID(ctx, post.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if stored.Location != "Paris" {
		t.Errorf("location = %q, want snapshot Paris", stored.Location)
	}
}

func TestPostService_Create_Errors(t *testing.T) {
	postSvc, _, alice, _ := newPostFixture(t)

	tests := []struct {
		name    string
		author  string
		req     model.CreatePostRequest
		wantErr error
	}{
		{name: "empty post", author: alice.ID.Hex(), req: model.CreatePostRequest{Description: "   "}, wantErr: model.ErrEmptyPost},
		{name: "too long", author: alice.ID.Hex(), req: model.CreatePostRequest{Description: strings.Repeat("a", 5001)}, wantErr: model.ErrValidation},
		{name: "unknown author", author: "64b000000000000000000009", req: model.CreatePostRequest{Description: "hi"}, wantErr: model.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := postSvc.Create(context.Background(), tt.author, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPostService_Create_PictureOnly(t *testing.T) {
	postSvc, _, alice, _ := newPostFixture(t)

	post, err := postSvc.Create(context.Background(), alice.ID.Hex(), model.CreatePostRequest{PicturePath: "only.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Description != "" || post.PicturePath != "only.png" {
		t.Errorf("post = %+v", post)
	}
}

func TestPostService_FeedOrderAndFilter(t *testing.T) {
	postSvc, _, alice, bob := newPostFixture(t)
	ctx := context.Background()

	texts := []struct {
		author string
		text   string
	}{
		{alice.ID.Hex(), "one"},
		{bob.ID.Hex(), "two"},
		{alice.ID.Hex(), "three"},
	}
	for _, p := range texts {
		if _, err := postSvc.Create(ctx, p.author, model.CreatePostRequest{Description: p.text}); err != nil {
			t.Fatal(err)
		}
	}

	feed, err := postSvc.Feed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 3 || feed[0].Description != "one" || feed[1].Description != "two" || feed[2].Description != "three" {
		t.Errorf("feed order wrong: %+v", feed)
	}

	mine, err := postSvc.FeedByUser(ctx, alice.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].Description != "one" || mine[1].Description != "three" {
		t.Errorf("feed by user wrong: %+v", mine)
	}
}

func TestPostService_ToggleLike_PairRestoresLikes(t *testing.T) {
	postSvc, _, alice, bob := newPostFixture(t)
	ctx := context.Background()
	u2 := bob.ID.Hex()

	p1, err := postSvc.Create(ctx, alice.ID.Hex(), model.CreatePostRequest{Description: "hello"})
	if err != nil {
		t.Fatal(err)
	}

	liked, err := postSvc.ToggleLike(ctx, p1.ID.Hex(), u2)
	if err != nil {
		t.Fatal(err)
	}
	if !liked.Likes[u2] {
		t.Errorf("likes = %v, want %s:true", liked.Likes, u2)
	}

	fetched, err := postSvc.GetByID(ctx, p1.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if !fetched.IsLikedBy(u2) {
		t.Error("fetched post should be liked by U2")
	}

	unliked, err := postSvc.ToggleLike(ctx, p1.ID.Hex(), u2)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := unliked.Likes[u2]; ok {
		t.Errorf("likes = %v, want U2 removed rather than set false", unliked.Likes)
	}
	if len(unliked.Likes) != len(p1.Likes) {
		t.Errorf("likes = %v, want unchanged from %v", unliked.Likes, p1.Likes)
	}
}

func TestPostService_ToggleLike_NotFound(t *testing.T) {
	postSvc, _, _, bob := newPostFixture(t)

	_, err := postSvc.ToggleLike(context.Background(), "64b000000000000000000009", bob.ID.Hex())
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}
