package bootcamps

import (
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrailhq/devtrail/internal/pkg/geocoder"
)

const (
	MaxNameLength        = 70
	MaxDescriptionLength = 500

	DefaultPhoto = "no-photo.jpg"
)

// Careers a bootcamp may teach. Filter values outside this set are
// rejected at validation time.
var ValidCareers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Machine Learning",
	"Other",
}

// Bootcamp is a directory entry. Address is accepted on create only and
// replaced by the geocoded location; it is never persisted.
type Bootcamp struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`

	Location geocoder.Location `bson:"location" json:"location"`
	Careers  []string          `bson:"careers" json:"careers"`

	AverageRating float64 `bson:"averageRating,omitempty" json:"averageRating,omitempty"`
	AverageCost   float64 `bson:"averageCost,omitempty" json:"averageCost,omitempty"`

	Photo string `bson:"photo" json:"photo"`

	Housing       bool `bson:"housing" json:"housing"`
	JobAssistance bool `bson:"jobAssistance" json:"jobAssistance"`
	JobGuarantee  bool `bson:"jobGuarantee" json:"jobGuarantee"`
	AcceptGI      bool `bson:"acceptGi" json:"acceptGi"`

	User primitive.ObjectID `bson:"user" json:"user"`

	// Populated on listings from the courses feature; never stored.
	Courses interface{} `bson:"-" json:"courses,omitempty"`

	Deleted bool `bson:"deleted,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Slugify derives the URL slug stored alongside the name.
func Slugify(name string) string {
	return slug.Make(name)
}

// DeletedName is the mangled name written on soft delete. Mangling with
// the id frees the unique name index for a future bootcamp.
func DeletedName(id primitive.ObjectID) string {
	return id.Hex() + "__DELETED"
}

type CreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Website       string   `json:"website"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address" binding:"required"`
	Careers       []string `json:"careers" binding:"required"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGI      bool     `json:"acceptGi"`
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGI      *bool     `json:"acceptGi"`
}
