package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the document stored in the users collection.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	LastName      string             `bson:"lastName" json:"lastName"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	PicturePath   string             `bson:"picturePath" json:"picturePath"`
	Friends       []string           `bson:"friends" json:"friends"`
	Location      string             `bson:"location" json:"location"`
	Occupation    string             `bson:"occupation" json:"occupation"`
	ViewedProfile int                `bson:"viewedProfile" json:"viewedProfile"`
	Impressions   int                `bson:"impressions" json:"impressions"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasFriend reports whether id is in the user's friend set.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// FriendSummary is the trimmed view of a user returned in friend lists.
type FriendSummary struct {
	ID          string `json:"_id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Occupation  string `json:"occupation"`
	Location    string `json:"location"`
	PicturePath string `json:"picturePath"`
}

// Summary projects the user down to its friend-list form.
func (u *User) Summary() FriendSummary {
	return FriendSummary{
		ID:          u.ID.Hex(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Occupation:  u.Occupation,
		Location:    u.Location,
		PicturePath: u.PicturePath,
	}
}

// RegisterRequest carries the multipart registration fields.
type RegisterRequest struct {
	FirstName   string `validate:"required,max=50"`
	LastName    string `validate:"required,max=50"`
	Email       string `validate:"required,email,max=50"`
	Password    string `validate:"required,min=5,max=72"`
	Location    string `validate:"max=100"`
	Occupation  string `validate:"max=100"`
	PicturePath string
}

// LoginRequest is the JSON body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse pairs the authenticated user with a fresh credential.
type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// UpdateProfileRequest is the JSON body of PATCH /users/{id}.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Location   *string `json:"location" validate:"omitempty,max=100"`
	Occupation *string `json:"occupation" validate:"omitempty,max=100"`
}

// FriendPair is the result of a friend toggle: both sides after the update.
type FriendPair struct {
	User   *User `json:"user"`
	Friend *User `json:"friend"`
	// Friends reports the relation after the toggle.
	Friends bool `json:"friends"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when attempting to register a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrCannotFriendSelf = errors.New("cannot add yourself as a friend")
	ErrNotResourceOwner = errors.New("not the owner of this resource")
)
