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

type AnnouncementRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewAnnouncementRepo(db *mongodrv.Database, opTimeout time.Duration) *AnnouncementRepoMongo {
	return &AnnouncementRepoMongo{
		coll:      db.Collection(ColAnnouncements),
		opTimeout: opTimeout,
	}
}

func (repo *AnnouncementRepoMongo) Create(ctx context.Context, a core.Announcement) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toAnnouncementDoc(a)); err != nil {
		return fmt.Errorf("announcements.insert: %w", err)
	}
	return nil
}

func (repo *AnnouncementRepoMongo) Get(ctx context.Context, id string) (core.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc AnnouncementDoc
	err := repo.coll.FindOne(ctx, bson.M{"$and": bson.A{bson.M{"_id": id}, notDeleted}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Announcement{}, core.ErrAnnouncementNotFound
		}
		return core.Announcement{}, fmt.Errorf("announcements.findOne: %w", err)
	}
	return fromAnnouncementDoc(doc), nil
}

func (repo *AnnouncementRepoMongo) List(ctx context.Context, publishedOnly bool, skip, limit int64) ([]core.Announcement, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	and := bson.A{notDeleted}
	if publishedOnly {
		and = append(and, bson.M{"published": true})
	}
	filter := bson.M{"$and": and}

	total, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("announcements.count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("announcements.find: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []AnnouncementDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("announcements.decode: %w", err)
	}
	out := make([]core.Announcement, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromAnnouncementDoc(d))
	}
	return out, total, nil
}

func (repo *AnnouncementRepoMongo) Update(ctx context.Context, a core.Announcement) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx,
		bson.M{"$and": bson.A{bson.M{"_id": a.ID}, notDeleted}},
		toAnnouncementDoc(a))
	if err != nil {
		return fmt.Errorf("announcements.replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrAnnouncementNotFound
	}
	return nil
}

func (repo *AnnouncementRepoMongo) SoftDelete(ctx context.Context, id, userID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"isDeleted": true, "deletedAt": at, "deletedBy": userID}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("announcements.softDelete: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrAnnouncementNotFound
	}
	return nil
}

func (repo *AnnouncementRepoMongo) FindPendingPush(ctx context.Context, limit int) ([]core.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	filter := bson.M{"$and": bson.A{
		notDeleted,
		bson.M{"published": true},
		bson.M{"pushStatus": string(core.PushStatusPending)},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("announcements.findPending: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []AnnouncementDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("announcements.decode: %w", err)
	}
	out := make([]core.Announcement, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromAnnouncementDoc(d))
	}
	return out, nil
}

func (repo *AnnouncementRepoMongo) UpdatePushResult(ctx context.Context, id string, status core.PushStatus, sent, failed int, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"pushStatus": string(status),
		"pushSent":   sent,
		"pushFailed": failed,
		"updatedAt":  at,
	}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("announcements.updatePush: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrAnnouncementNotFound
	}
	return nil
}
