package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrailhq/devtrail/internal/pkg/pagination"
	"github.com/devtrailhq/devtrail/internal/pkg/query"
	"github.com/devtrailhq/devtrail/pkg/apperror"
)

// Repository handles database interactions for user accounts. The admin
// user management feature shares it.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "resetPasswordToken", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// Create inserts a new user. Duplicate email surfaces as a duplicate key
// error from the driver.
func (r *Repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = RoleUser
	}
	user.Active = true

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByEmail finds a user by email. Not found returns (nil, nil).
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID finds a user by hex id. Not found returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, userID string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid user id of %s", userID)
	}

	var user User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByResetToken finds the user whose stored reset digest matches and
// whose credential has not expired.
func (r *Repository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{
		"resetPasswordToken":  digest,
		"resetPasswordExpire": bson.M{"$gt": now},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List runs a translated query descriptor against the users collection and
// returns the page plus the total match count.
func (r *Repository) List(ctx context.Context, d *query.Descriptor) ([]User, int64, error) {
	total, err := r.collection.CountDocuments(ctx, d.Filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(d.Sort).
		SetSkip(pagination.Offset(d.Page, d.Limit)).
		SetLimit(int64(d.Limit))
	if d.Projection != nil {
		opts.SetProjection(d.Projection)
	}

	cursor, err := r.collection.Find(ctx, d.Filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateFields sets specific fields of a user document.
func (r *Repository) UpdateFields(ctx context.Context, userID primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("User not found with id of %s", userID.Hex())
	}
	return nil
}

// SetResetToken stores the reset digest and its expiry on the user.
func (r *Repository) SetResetToken(ctx context.Context, userID primitive.ObjectID, digest string, expire time.Time) error {
	return r.UpdateFields(ctx, userID, bson.M{
		"resetPasswordToken":  digest,
		"resetPasswordExpire": expire,
	})
}

// ClearResetToken removes the reset credential from the user.
func (r *Repository) ClearResetToken(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
	return err
}

// Delete removes a user document entirely. Accounts are not soft-deleted.
func (r *Repository) Delete(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperror.NotFound("User not found with id of %s", userID.Hex())
	}
	return nil
}
