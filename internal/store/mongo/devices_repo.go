package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notifycsc/notify-csc/internal/core"
)

type DeviceTokenRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewDeviceTokenRepo(db *mongodrv.Database, opTimeout time.Duration) *DeviceTokenRepoMongo {
	return &DeviceTokenRepoMongo{
		coll:      db.Collection(ColDeviceTokens),
		opTimeout: opTimeout,
	}
}

func (repo *DeviceTokenRepoMongo) Upsert(ctx context.Context, d core.DeviceToken) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	update := bson.M{
		"$set":         bson.M{"platform": d.Platform, "updatedAt": d.UpdatedAt},
		"$setOnInsert": bson.M{"createdAt": d.CreatedAt},
	}
	_, err := repo.coll.UpdateOne(ctx, bson.M{"_id": d.Token}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("device_tokens.upsert: %w", err)
	}
	return nil
}

func (repo *DeviceTokenRepoMongo) AllTokens(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("device_tokens.find: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []string
	for cursor.Next(ctx) {
		var doc DeviceTokenDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("device_tokens.decode: %w", err)
		}
		tokens = append(tokens, doc.Token)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("device_tokens.cursor: %w", err)
	}
	return tokens, nil
}

func (repo *DeviceTokenRepoMongo) Delete(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": tokens}}); err != nil {
		return fmt.Errorf("device_tokens.delete: %w", err)
	}
	return nil
}
