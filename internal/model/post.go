package model

import (
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the document stored in the posts collection.
//
// FirstName, LastName, Location and UserPicturePath are copied from the
// author when the post is created and are not kept in sync afterwards.
type Post struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          string             `bson:"userId" json:"userId"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName" json:"lastName"`
	Location        string             `bson:"location" json:"location"`
	Description     string             `bson:"description" json:"description"`
	PicturePath     string             `bson:"picturePath" json:"picturePath"`
	UserPicturePath string             `bson:"userPicturePath" json:"userPicturePath"`
	Likes           map[string]bool    `bson:"likes" json:"likes"`
	Comments        []string           `bson:"comments" json:"comments"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsLikedBy reports whether userID is present in the likes map.
func (p *Post) IsLikedBy(userID string) bool {
	_, ok := p.Likes[userID]
	return ok
}

// MarshalJSON adds the derived like and comment counters.
func (p Post) MarshalJSON() ([]byte, error) {
	type alias Post
	likes := p.Likes
	if likes == nil {
		likes = map[string]bool{}
	}
	comments := p.Comments
	if comments == nil {
		comments = []string{}
	}
	a := alias(p)
	a.Likes = likes
	a.Comments = comments
	return json.Marshal(struct {
		alias
		LikeCount    int `json:"likeCount"`
		CommentCount int `json:"commentCount"`
	}{
		alias:        a,
		LikeCount:    len(likes),
		CommentCount: len(comments),
	})
}

// CreatePostRequest carries the multipart post fields. UserID comes from
// the credential, never from the body.
type CreatePostRequest struct {
	Description string `validate:"max=5000"`
	PicturePath string
}

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyPost    = errors.New("post needs a description or a picture")
)
