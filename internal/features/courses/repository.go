package courses

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrailhq/devtrail/internal/pkg/pagination"
	"github.com/devtrailhq/devtrail/internal/pkg/query"
	"github.com/devtrailhq/devtrail/pkg/apperror"
)

// Repository handles database interactions for courses. It also owns the
// averageCost recompute, which writes the derived value back onto the
// bootcamps collection.
type Repository struct {
	collection *mongo.Collection
	bootcamps  *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("courses")

	_, _ = collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "bootcamp", Value: 1}},
	})

	return &Repository{
		collection: collection,
		bootcamps:  db.Collection("bootcamps"),
	}
}

func notDeleted(filter bson.M) bson.M {
	filter["deleted"] = bson.M{"$ne": true}
	return filter
}

// Create inserts a new course.
func (r *Repository) Create(ctx context.Context, course *Course) error {
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		course.ID = oid
	}
	return nil
}

// FindByID finds a live course by hex id. Not found returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id string) (*Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest("Invalid course id of %s", id)
	}

	var course Course
	err = r.collection.FindOne(ctx, notDeleted(bson.M{"_id": oid})).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

// List runs a translated query descriptor and returns the page plus the
// total match count.
func (r *Repository) List(ctx context.Context, d *query.Descriptor) ([]Course, int64, error) {
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

	courses := []Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListByBootcamp returns every live course of one bootcamp, unpaginated.
func (r *Repository) ListByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]Course, error) {
	cursor, err := r.collection.Find(ctx, notDeleted(bson.M{"bootcamp": bootcampID}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListByBootcamps batches the course lookup for a page of bootcamps,
// keyed by bootcamp id. The interface{} values satisfy the bootcamp
// feature's lister port.
func (r *Repository) ListByBootcamps(ctx context.Context, bootcampIDs []primitive.ObjectID) (map[primitive.ObjectID]interface{}, error) {
	cursor, err := r.collection.Find(ctx, notDeleted(bson.M{"bootcamp": bson.M{"$in": bootcampIDs}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}

	grouped := map[primitive.ObjectID][]Course{}
	for _, course := range courses {
		grouped[course.BootcampID] = append(grouped[course.BootcampID], course)
	}

	out := make(map[primitive.ObjectID]interface{}, len(grouped))
	for id, list := range grouped {
		out[id] = list
	}
	return out, nil
}

// UpdateFields sets specific fields of a course document.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("No course with the id of %s", id.Hex())
	}
	return nil
}

// SoftDelete marks the course deleted and mangles its title with the id.
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
		return apperror.NotFound("No course with the id of %s", id.Hex())
	}
	return nil
}

// CascadeDeleteByBootcamp marks every course of a bootcamp deleted.
func (r *Repository) CascadeDeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"bootcamp": bootcampID},
		bson.M{"$set": bson.M{"deleted": true, "updatedAt": time.Now()}})
	return err
}

// RecalculateAverageCost recomputes the bootcamp's average tuition across
// its live courses and writes it back, rounded up to the nearest ten.
// With no courses left the derived field is removed.
func (r *Repository) RecalculateAverageCost(ctx context.Context, bootcampID primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: notDeleted(bson.M{"bootcamp": bootcampID})}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$bootcamp",
			"averageCost": bson.M{"$avg": "$tuition"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var results []struct {
		AverageCost float64 `bson:"averageCost"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	if len(results) == 0 {
		_, err = r.bootcamps.UpdateOne(ctx,
			bson.M{"_id": bootcampID},
			bson.M{"$unset": bson.M{"averageCost": ""}})
		return err
	}

	_, err = r.bootcamps.UpdateOne(ctx,
		bson.M{"_id": bootcampID},
		bson.M{"$set": bson.M{"averageCost": ceilToTen(results[0].AverageCost)}})
	return err
}

// ceilToTen rounds a cost up to the nearest multiple of ten.
func ceilToTen(v float64) float64 {
	return math.Ceil(v/10) * 10
}
