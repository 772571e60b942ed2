package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := ensureInsurancesIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure insurances indexes: %w", err)
	}
	if err := ensureRemindersIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure reminders indexes: %w", err)
	}
	if err := ensureUsersIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure users indexes: %w", err)
	}
	if err := ensureAnnouncementsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure announcements indexes: %w", err)
	}
	return nil
}

func ensureInsurancesIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColInsurances)
	models := []mongo.IndexModel{
		newIndex("registrationNumber", 1, "ins_registration_number", false),
		newIndex("mobileNumber", 1, "ins_mobile_number", false),
		newIndex("alternateMobileNumber", 1, "ins_alternate_mobile_number", false),
		{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "policyExpiryDate", Value: 1}},
			Options: options.Index().SetName("ins_deleted_expiry"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureRemindersIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColReminders)
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "insuranceId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("reminders_insurance_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureUsersIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColUsers)
	models := []mongo.IndexModel{
		newIndex("email", 1, "users_email_unique", true),
		newIndex("status", 1, "users_status", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureAnnouncementsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColAnnouncements)
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("ann_published_created"),
		},
		newIndex("pushStatus", 1, "ann_push_status", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func newIndex(field string, asc int32, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts = opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: asc}},
		Options: opts,
	}
}
