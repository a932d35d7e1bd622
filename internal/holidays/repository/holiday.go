package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	holidayserrors "holidayplanner/internal/holidays/errors"
	"holidayplanner/pkg/config"
	mongotx "holidayplanner/pkg/db/mongo"
	"holidayplanner/pkg/model"
)

const (
	CollectionName = "Holidays"
)

type HolidayRepository interface {
	Create(ctx context.Context, h *model.Holiday) error
	FindByID(ctx context.Context, id string) (*model.Holiday, error)
	FindByOwner(ctx context.Context, ownerID string, sort SortStrategy) ([]*model.Holiday, error)
	// Update applies only the supplied fields of u and returns the stored
	// record after the write.
	Update(ctx context.Context, id string, u *model.HolidayUpdate) (*model.Holiday, error)
	Delete(ctx context.Context, id string) error

	// AddSubscriber appends userID atomically and returns the updated record.
	AddSubscriber(ctx context.Context, id string, userID string) (*model.Holiday, error)
	// CloneFrom reads the source and inserts its clone in one transaction.
	CloneFrom(ctx context.Context, id string) (*model.Holiday, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoHolidayRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoHolidayRepository(cfg *config.Config) HolidayRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHolidayRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds ctx by timeout unless ctx is a SessionContext, which
// cannot be wrapped without leaving the transaction.
func (r *mongoHolidayRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", holidayserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoHolidayRepository) Create(ctx context.Context, h *model.Holiday) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	return r.insert(ctx, h)
}

func (r *mongoHolidayRepository) insert(ctx context.Context, h *model.Holiday) error {
	h.ID = ""
	h.CreatedAt = now()
	h.UpdatedAt = h.CreatedAt
	if h.Subscribers == nil {
		h.Subscribers = []string{}
	}

	result, err := r.collection.InsertOne(ctx, h)
	if err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		h.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHolidayRepository) FindByID(ctx context.Context, id string) (*model.Holiday, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var h model.Holiday
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&h)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", holidayserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find holiday: %w", err)
	}
	return &h, nil
}

func (r *mongoHolidayRepository) FindByOwner(ctx context.Context, ownerID string, sort SortStrategy) ([]*model.Holiday, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(sort.Fields))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer cursor.Close(ctx)

	holidays := []*model.Holiday{}
	if err = cursor.All(ctx, &holidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}

	return holidays, nil
}

// updateDocument builds a $set/$unset document touching only the fields
// present in u, so concurrent patches to other fields survive. Dates in u
// must already be validated.
func updateDocument(u *model.HolidayUpdate, at time.Time) (bson.M, error) {
	set := bson.M{"updated_at": at}
	unset := bson.M{}

	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Destination != nil {
		set["destination"] = *u.Destination
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.BudgetLimit != nil {
		set["budget_limit"] = *u.BudgetLimit
	}
	if u.StartDate != nil {
		d, err := model.ParseCalendarDate(*u.StartDate)
		if err != nil {
			return nil, err
		}
		set["start_date"] = d
	}
	if u.EndDate != nil {
		d, err := model.ParseCalendarDate(*u.EndDate)
		if err != nil {
			return nil, err
		}
		set["end_date"] = d
	}
	if u.ExpectedWeather != nil {
		if *u.ExpectedWeather == "" {
			unset["expected_weather"] = ""
		} else {
			set["expected_weather"] = *u.ExpectedWeather
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

// Update never touches owner, subscribers or provenance.
func (r *mongoHolidayRepository) Update(ctx context.Context, id string, u *model.HolidayUpdate) (*model.Holiday, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	update, err := updateDocument(u, now())
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var h model.Holiday
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&h)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", holidayserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update holiday: %w", err)
	}

	return &h, nil
}

func (r *mongoHolidayRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", holidayserrors.ErrNotFound, id)
	}

	return nil
}

// AddSubscriber matches only documents that do not yet contain userID, so two
// concurrent calls for the same user cannot both succeed.
func (r *mongoHolidayRepository) AddSubscriber(ctx context.Context, id string, userID string) (*model.Holiday, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid, "subscribers": bson.M{"$ne": userID}}
	update := bson.M{
		"$addToSet": bson.M{"subscribers": userID},
		"$set":      bson.M{"updated_at": now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var h model.Holiday
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&h)
	if err == nil {
		return &h, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to subscribe to holiday: %w", err)
	}

	// No match: either the holiday is gone or the user is already in the set.
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", holidayserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find holiday: %w", err)
	}
	return nil, fmt.Errorf("%w: %s", holidayserrors.ErrAlreadySubscribed, id)
}

func (r *mongoHolidayRepository) CloneFrom(ctx context.Context, id string) (*model.Holiday, error) {
	var clone *model.Holiday

	err := r.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		source, err := r.FindByID(sessCtx, id)
		if err != nil {
			return err
		}
		clone = source.Clone()
		return r.insert(sessCtx, clone)
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

func (r *mongoHolidayRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	return r.txManager.ExecuteTransaction(ctx, fn)
}
