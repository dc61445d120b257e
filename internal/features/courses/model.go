package courses

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Skill levels a course may require.
var ValidMinimumSkills = []string{"beginner", "intermediate", "advanced"}

// Course is a single offering inside a bootcamp.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Weeks       string             `bson:"weeks" json:"weeks"`
	Tuition     float64            `bson:"tuition" json:"tuition"`

	MinimumSkill         string `bson:"minimumSkill" json:"minimumSkill"`
	ScholarshipAvailable bool   `bson:"scholarshipAvailable" json:"scholarshipAvailable"`

	BootcampID primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User       primitive.ObjectID `bson:"user" json:"user"`

	// Populated on single-course reads; never stored.
	Bootcamp *BootcampRef `bson:"-" json:"bootcampInfo,omitempty"`

	Deleted bool `bson:"deleted,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BootcampRef is the display join of a course's owning bootcamp.
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
	Title                string  `json:"title" binding:"required"`
	Description          string  `json:"description" binding:"required"`
	Weeks                string  `json:"weeks" binding:"required"`
	Tuition              float64 `json:"tuition" binding:"required"`
	MinimumSkill         string  `json:"minimumSkill" binding:"required"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Weeks                *string  `json:"weeks"`
	Tuition              *float64 `json:"tuition"`
	MinimumSkill         *string  `json:"minimumSkill"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}
