package reviews

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

// Repository handles database interactions for reviews. It also owns the
// averageRating recompute, which writes the derived value back onto the
// bootcamps collection.
type Repository struct {
	collection *mongo.Collection
	bootcamps  *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reviews")

	_, _ = collection.Indexes().CreateMany(context.Background(), reviewIndexes())

	return &Repository{
		collection: collection,
		bootcamps:  db.Collection("bootcamps"),
	}
}

// reviewIndexes builds the collection indexes. One review per user per
// bootcamp among live documents: the partial filter leaves soft-deleted
// reviews out of the unique index so the author may review again.
func reviewIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"deleted": bson.M{"$eq": false}}),
		},
	}
}

func notDeleted(filter bson.M) bson.M {
	filter["deleted"] = bson.M{"$ne": true}
	return filter
}

// Create inserts a new review. A second review for the same (bootcamp,
// user) pair surfaces as a duplicate key error from the driver.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}
	return nil
}

// FindByID finds a live review by hex id. Not found returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id string) (*Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest("Invalid review id of %s", id)
	}

	var review Review
	err = r.collection.FindOne(ctx, notDeleted(bson.M{"_id": oid})).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// List runs a translated query descriptor and returns the page plus the
// total match count.
func (r *Repository) List(ctx context.Context, d *query.Descriptor) ([]Review, int64, error) {
	filter := notDeleted(d.Filter)

	total, err := r.collection.CountDocuments(ctx, filter)
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

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reviews := []Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListByBootcamp returns every live review of one bootcamp, unpaginated.
func (r *Repository) ListByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]Review, error) {
	cursor, err := r.collection.Find(ctx, notDeleted(bson.M{"bootcamp": bootcampID}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateFields sets specific fields of a review document.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("No review found with the id of %s", id.Hex())
	}
	return nil
}

// SoftDelete marks the review deleted and mangles its title with the id.
// Idempotent: matching on id alone rewrites the same terminal state.
func (r *Repository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"deleted":   true,
		"title":     DeletedTitle(id),
		"updatedAt": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("No review found with the id of %s", id.Hex())
	}
	return nil
}

// CascadeDeleteByBootcamp marks every review of a bootcamp deleted.
func (r *Repository) CascadeDeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"bootcamp": bootcampID},
		bson.M{"$set": bson.M{"deleted": true, "updatedAt": time.Now()}})
	return err
}

// RecalculateAverageRating recomputes the bootcamp's average rating
// across its live reviews and writes it back. With no reviews left the
// derived field is removed.
func (r *Repository) RecalculateAverageRating(ctx context.Context, bootcampID primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: notDeleted(bson.M{"bootcamp": bootcampID})}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$bootcamp",
			"averageRating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var results []struct {
		AverageRating float64 `bson:"averageRating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	if len(results) == 0 {
		_, err = r.bootcamps.UpdateOne(ctx,
			bson.M{"_id": bootcampID},
			bson.M{"$unset": bson.M{"averageRating": ""}})
		return err
	}

	_, err = r.bootcamps.UpdateOne(ctx,
		bson.M{"_id": bootcampID},
		bson.M{"$set": bson.M{"averageRating": results[0].AverageRating}})
	return err
}
