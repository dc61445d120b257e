package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user may hold. Admins are created by seeding or by another
// admin; self-registration only accepts user and publisher.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User is an account document. Password and the reset token fields never
// serialize to JSON.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role" json:"role"`

	Password string `bson:"password" json:"-"`

	Active  bool   `bson:"active" json:"active"`
	Bio     string `bson:"bio,omitempty" json:"bio,omitempty"`
	Website string `bson:"website,omitempty" json:"website,omitempty"`

	ResetPasswordToken  string    `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire time.Time `bson:"resetPasswordExpire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanModify reports whether the user may write a resource owned by
// ownerID. Admins may write anything; everyone else only their own.
func (u *User) CanModify(ownerID primitive.ObjectID) bool {
	return u.IsAdmin() || u.ID == ownerID
}

// NewResetToken mints a password reset credential. The plaintext goes out
// by email; only the digest is persisted, so a database leak does not
// expose usable tokens.
func NewResetToken() (plain, digest string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a plaintext token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries a partial profile update; nil fields are
// left untouched. An empty string clears bio or website.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Bio     *string `json:"bio"`
	Website *string `json:"website"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
