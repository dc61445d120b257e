// Loads the JSON fixtures under _data into MongoDB, or wipes the seeded
// collections. Run with -import or -delete.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/devtrailhq/devtrail/internal/config"
	"github.com/devtrailhq/devtrail/internal/database"
	"github.com/devtrailhq/devtrail/internal/features/bootcamps"
	"github.com/devtrailhq/devtrail/internal/pkg/logger"
)

var collections = []string{"users", "bootcamps", "courses", "reviews"}

// refFields are fixture keys holding hex ObjectId strings.
var refFields = map[string]bool{"_id": true, "bootcamp": true, "user": true}

func main() {
	importData := flag.Bool("import", false, "load the JSON fixtures")
	deleteData := flag.Bool("delete", false, "remove all seeded data")
	dataDir := flag.String("data", "_data", "fixture directory")
	flag.Parse()

	cfg := config.Load()
	logger.Setup(cfg.AppEnv)

	if *importData == *deleteData {
		logger.L.Fatal().Msg("pass exactly one of -import or -delete")
	}

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *deleteData {
		for _, name := range collections {
			if _, err := db.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
				logger.L.Fatal().Err(err).Str("collection", name).Msg("failed to destroy data")
			}
			logger.L.Info().Str("collection", name).Msg("destroyed")
		}
		return
	}

	for _, name := range collections {
		path := filepath.Join(*dataDir, name+".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.L.Warn().Str("file", path).Msg("fixture missing, skipped")
			continue
		}

		var docs []map[string]interface{}
		if err := json.Unmarshal(raw, &docs); err != nil {
			logger.L.Fatal().Err(err).Str("file", path).Msg("invalid fixture")
		}

		batch := make([]interface{}, 0, len(docs))
		for _, doc := range docs {
			normalized := normalize(doc)
			fixup(name, normalized)
			batch = append(batch, normalized)
		}
		if len(batch) == 0 {
			continue
		}

		if _, err := db.Database.Collection(name).InsertMany(ctx, batch); err != nil {
			logger.L.Fatal().Err(err).Str("collection", name).Msg("failed to import")
		}
		logger.L.Info().Int("count", len(batch)).Str("collection", name).Msg("imported")
	}
}

// normalize converts hex reference strings to ObjectIds and stamps
// timestamps so the fixtures look like documents the API itself wrote.
func normalize(doc map[string]interface{}) bson.M {
	out := bson.M{}
	for key, value := range doc {
		if refFields[key] {
			if s, ok := value.(string); ok {
				if oid, err := primitive.ObjectIDFromHex(s); err == nil {
					out[key] = oid
					continue
				}
			}
		}
		out[key] = value
	}

	now := time.Now()
	if _, ok := out["createdAt"]; !ok {
		out["createdAt"] = now
	}
	out["updatedAt"] = now
	return out
}

// fixup applies the per-collection derivations the API performs on write:
// bootcamp slugs, review delete markers for the partial unique index,
// hashed passwords and the active flag on accounts.
func fixup(collection string, doc bson.M) {
	switch collection {
	case "bootcamps":
		if name, ok := doc["name"].(string); ok {
			doc["slug"] = bootcamps.Slugify(name)
		}
	case "reviews":
		if _, ok := doc["deleted"]; !ok {
			doc["deleted"] = false
		}
	case "users":
		if plain, ok := doc["password"].(string); ok {
			if hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost); err == nil {
				doc["password"] = string(hashed)
			}
		}
		if _, ok := doc["active"]; !ok {
			doc["active"] = true
		}
	}
}
