package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notifycsc/notify-csc/internal/core"
)

type UserRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewUserRepo(db *mongodrv.Database, opTimeout time.Duration) *UserRepoMongo {
	return &UserRepoMongo{
		coll:      db.Collection(ColUsers),
		opTimeout: opTimeout,
	}
}

func (repo *UserRepoMongo) Create(ctx context.Context, u core.User) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toUserDoc(u)); err != nil {
		if isDuplicateKey(err) {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("users.insert: %w", err)
	}
	return nil
}

func (repo *UserRepoMongo) Get(ctx context.Context, id string) (core.User, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

func (repo *UserRepoMongo) GetByEmail(ctx context.Context, email string) (core.User, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *UserRepoMongo) findOne(ctx context.Context, filter bson.M) (core.User, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc UserDoc
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.User{}, core.ErrUserNotFound
		}
		return core.User{}, fmt.Errorf("users.findOne: %w", err)
	}
	return fromUserDoc(doc), nil
}

func (repo *UserRepoMongo) List(ctx context.Context, f core.UserFilter) ([]core.User, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Role != "" {
		filter["role"] = string(f.Role)
	}

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("users.find: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []UserDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("users.decode: %w", err)
	}
	users := make([]core.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, fromUserDoc(d))
	}
	return users, nil
}

func (repo *UserRepoMongo) UpdateStatus(ctx context.Context, id string, status core.UserStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": at}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("users.updateStatus: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

func (repo *UserRepoMongo) Names(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("users.names: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID   string `bson:"_id"`
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("users.decode: %w", err)
		}
		names[doc.ID] = doc.Name
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("users.cursor: %w", err)
	}
	return names, nil
}
