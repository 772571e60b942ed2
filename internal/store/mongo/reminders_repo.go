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

// ReminderRepoMongo is insert-only; there is deliberately no update or delete.
type ReminderRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewReminderRepo(db *mongodrv.Database, opTimeout time.Duration) *ReminderRepoMongo {
	return &ReminderRepoMongo{
		coll:      db.Collection(ColReminders),
		opTimeout: opTimeout,
	}
}

func (repo *ReminderRepoMongo) Create(ctx context.Context, r core.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toReminderDoc(r)); err != nil {
		return fmt.Errorf("reminders.insert: %w", err)
	}
	return nil
}

func (repo *ReminderRepoMongo) ListByInsurance(ctx context.Context, insuranceID string) ([]core.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx,
		bson.M{"insuranceId": insuranceID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("reminders.find: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []ReminderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reminders.decode: %w", err)
	}
	out := make([]core.Reminder, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromReminderDoc(d))
	}
	return out, nil
}
