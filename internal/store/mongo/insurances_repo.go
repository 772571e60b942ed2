package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notifycsc/notify-csc/internal/core"
)

// notDeleted is merged into every read so soft-deleted records stay invisible.
var notDeleted = bson.M{"isDeleted": bson.M{"$ne": true}}

type InsuranceRepoMongo struct {
	coll      *mongodrv.Collection
	users     *UserRepoMongo
	opTimeout time.Duration
}

func NewInsuranceRepo(db *mongodrv.Database, users *UserRepoMongo, opTimeout time.Duration) *InsuranceRepoMongo {
	return &InsuranceRepoMongo{
		coll:      db.Collection(ColInsurances),
		users:     users,
		opTimeout: opTimeout,
	}
}

func (repo *InsuranceRepoMongo) Create(ctx context.Context, ins core.Insurance) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toInsuranceDoc(ins)); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: insurance %s already exists", core.ErrConflict, ins.ID)
		}
		return fmt.Errorf("insurances.insert: %w", err)
	}
	return nil
}

func (repo *InsuranceRepoMongo) Find(ctx context.Context, f core.InsuranceFilter, opts core.InsuranceListOptions) ([]core.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	findOpts := options.Find().SetSort(insuranceSort(opts.Sort))
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := repo.coll.Find(ctx, compileInsuranceFilter(f), findOpts)
	if err != nil {
		return nil, fmt.Errorf("insurances.find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.Insurance
	for cursor.Next(ctx) {
		var doc InsuranceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("insurances.decode: %w", err)
		}
		out = append(out, fromInsuranceDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("insurances.cursor: %w", err)
	}

	if opts.Populate {
		if err := repo.populate(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (repo *InsuranceRepoMongo) Count(ctx context.Context, f core.InsuranceFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	n, err := repo.coll.CountDocuments(ctx, compileInsuranceFilter(f))
	if err != nil {
		return 0, fmt.Errorf("insurances.count: %w", err)
	}
	return n, nil
}

func (repo *InsuranceRepoMongo) FindOne(ctx context.Context, f core.InsuranceFilter, sort core.InsuranceSort) (core.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc InsuranceDoc
	err := repo.coll.FindOne(ctx, compileInsuranceFilter(f),
		options.FindOne().SetSort(insuranceSort(sort))).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Insurance{}, core.ErrInsuranceNotFound
		}
		return core.Insurance{}, fmt.Errorf("insurances.findOne: %w", err)
	}
	return fromInsuranceDoc(doc), nil
}

func (repo *InsuranceRepoMongo) Get(ctx context.Context, id string, populate bool) (core.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc InsuranceDoc
	err := repo.coll.FindOne(ctx, bson.M{"$and": bson.A{bson.M{"_id": id}, notDeleted}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Insurance{}, core.ErrInsuranceNotFound
		}
		return core.Insurance{}, fmt.Errorf("insurances.findById: %w", err)
	}

	out := []core.Insurance{fromInsuranceDoc(doc)}
	if populate {
		if err := repo.populate(ctx, out); err != nil {
			return core.Insurance{}, err
		}
	}
	return out[0], nil
}

func (repo *InsuranceRepoMongo) SoftDelete(ctx context.Context, id, userID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"isDeleted": true,
		"deletedAt": at,
		"deletedBy": userID,
	}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("insurances.softDelete: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrInsuranceNotFound
	}
	return nil
}

func (repo *InsuranceRepoMongo) Update(ctx context.Context, id string, patch core.InsurancePatch, at time.Time) (core.Insurance, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	set := patchSet(patch)
	set["updatedAt"] = at

	var doc InsuranceDoc
	err := repo.coll.FindOneAndUpdate(ctx,
		bson.M{"$and": bson.A{bson.M{"_id": id}, notDeleted}},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Insurance{}, core.ErrInsuranceNotFound
		}
		return core.Insurance{}, fmt.Errorf("insurances.update: %w", err)
	}
	return fromInsuranceDoc(doc), nil
}

// populate fills CreatedByName from the users collection.
func (repo *InsuranceRepoMongo) populate(ctx context.Context, records []core.Insurance) error {
	if len(records) == 0 || repo.users == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(records))
	var userIDs []string
	for _, r := range records {
		if _, ok := seen[r.CreatedBy]; ok || r.CreatedBy == "" {
			continue
		}
		seen[r.CreatedBy] = struct{}{}
		userIDs = append(userIDs, r.CreatedBy)
	}

	names, err := repo.users.Names(ctx, userIDs)
	if err != nil {
		return err
	}
	for i := range records {
		records[i].CreatedByName = names[records[i].CreatedBy]
	}
	return nil
}

// compileInsuranceFilter turns the typed filter into one $and of predicates.
func compileInsuranceFilter(f core.InsuranceFilter) bson.M {
	and := bson.A{notDeleted}

	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"customerName": rx},
			bson.M{"registrationNumber": rx},
			bson.M{"mobileNumber": rx},
			bson.M{"vehicleType": rx},
		}})
	}
	if f.RegistrationNumber != "" {
		and = append(and, bson.M{"registrationNumber": f.RegistrationNumber})
	}
	if f.Mobile != "" {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"mobileNumber": f.Mobile},
			bson.M{"alternateMobileNumber": f.Mobile},
		}})
	}
	for _, r := range f.ExpiryRanges {
		cond := bson.M{}
		if r.From != nil {
			cond["$gte"] = *r.From
		}
		if r.Before != nil {
			cond["$lt"] = *r.Before
		}
		if len(cond) > 0 {
			and = append(and, bson.M{"policyExpiryDate": cond})
		}
	}

	return bson.M{"$and": and}
}

func insuranceSort(s core.InsuranceSort) bson.D {
	switch s {
	case core.SortByExpiryDesc:
		return bson.D{{Key: "policyExpiryDate", Value: -1}, {Key: "_id", Value: 1}}
	case core.SortByCreatedDesc:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "policyExpiryDate", Value: 1}, {Key: "_id", Value: 1}}
	}
}

func patchSet(p core.InsurancePatch) bson.M {
	set := bson.M{}
	if p.RegistrationNumber != nil {
		set["registrationNumber"] = *p.RegistrationNumber
	}
	if p.CustomerName != nil {
		set["customerName"] = *p.CustomerName
	}
	if p.MobileNumber != nil {
		set["mobileNumber"] = *p.MobileNumber
	}
	if p.AlternateMobileNumber != nil {
		set["alternateMobileNumber"] = *p.AlternateMobileNumber
	}
	if p.VehicleType != nil {
		set["vehicleType"] = string(*p.VehicleType)
	}
	if p.InsuranceType != nil {
		set["insuranceType"] = string(*p.InsuranceType)
	}
	if p.PolicyStartDate != nil {
		set["policyStartDate"] = *p.PolicyStartDate
	}
	if p.PolicyExpiryDate != nil {
		set["policyExpiryDate"] = *p.PolicyExpiryDate
	}
	if p.Remarks != nil {
		set["remarks"] = *p.Remarks
	}
	return set
}

func isDuplicateKey(err error) bool {
	return mongodrv.IsDuplicateKeyError(err)
}
