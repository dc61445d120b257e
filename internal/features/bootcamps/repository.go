package bootcamps

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

// Repository handles database interactions for bootcamps.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("bootcamps")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
	})

	return &Repository{collection: collection}
}

// notDeleted merges the soft-delete guard into a filter. Reads never
// surface deleted documents.
func notDeleted(filter bson.M) bson.M {
	filter["deleted"] = bson.M{"$ne": true}
	return filter
}

// Create inserts a new bootcamp. Duplicate name surfaces as a duplicate
// key error from the driver.
func (r *Repository) Create(ctx context.Context, b *Bootcamp) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Photo == "" {
		b.Photo = DefaultPhoto
	}

	result, err := r.collection.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return nil
}

// FindByID finds a live bootcamp by hex id. Not found returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id string) (*Bootcamp, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest("Invalid bootcamp id of %s", id)
	}

	var b Bootcamp
	err = r.collection.FindOne(ctx, notDeleted(bson.M{"_id": oid})).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// List runs a translated query descriptor and returns the page plus the
// total match count.
func (r *Repository) List(ctx context.Context, d *query.Descriptor) ([]Bootcamp, int64, error) {
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

	bootcamps := []Bootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		return nil, 0, err
	}
	return bootcamps, total, nil
}

// FindByIDs returns the live bootcamps matching ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Bootcamp, error) {
	cursor, err := r.collection.Find(ctx, notDeleted(bson.M{"_id": bson.M{"$in": ids}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bootcamps := []Bootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		return nil, err
	}
	return bootcamps, nil
}

// FindWithinRadius returns live bootcamps whose location falls inside the
// spherical cap centered on [lng, lat] with the given angular radius.
func (r *Repository) FindWithinRadius(ctx context.Context, lng, lat, radians float64) ([]Bootcamp, error) {
	filter := notDeleted(bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radians},
			},
		},
	})

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bootcamps := []Bootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		return nil, err
	}
	return bootcamps, nil
}

// CountByOwner counts live bootcamps published by a user.
func (r *Repository) CountByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, notDeleted(bson.M{"user": userID}))
}

// UpdateFields sets specific fields of a bootcamp document.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("Bootcamp not found with id of %s", id.Hex())
	}
	return nil
}

// SoftDelete marks the bootcamp deleted and mangles its name with the id
// so the unique name index frees up. Matching on id alone makes the
// operation idempotent: repeating it rewrites the same terminal state.
func (r *Repository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	mangled := DeletedName(id)
	update := bson.M{"$set": bson.M{
		"deleted":   true,
		"name":      mangled,
		"slug":      Slugify(mangled),
		"updatedAt": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("Bootcamp not found with id of %s", id.Hex())
	}
	return nil
}
