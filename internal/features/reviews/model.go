package reviews

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxTitleLength = 100

	MinRating = 1
	MaxRating = 10
)

// Review is a user's rating of a bootcamp. The unique (bootcamp, user)
// index enforces at most one review per pair.
type Review struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Text   string             `bson:"text" json:"text"`
	Rating int                `bson:"rating" json:"rating"`

	BootcampID primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User       primitive.ObjectID `bson:"user" json:"user"`

	// Populated on reads; never stored.
	Bootcamp *BootcampRef `bson:"-" json:"bootcampInfo,omitempty"`

	// Always written on insert: the partial unique index only covers
	// documents whose deleted field equals false.
	Deleted bool `bson:"deleted" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BootcampRef is the display join of a review's bootcamp.
type BootcampRef struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
}

// DeletedTitle is the mangled title written on soft delete.
func DeletedTitle(id primitive.ObjectID) string {
	return id.Hex() + "__DELETED"
}

type CreateRequest struct {
	Title  string `json:"title" binding:"required"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required"`
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}
