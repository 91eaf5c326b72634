package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/pkg/metrics"
)

type orderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a repository over the orders collection.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{
		collection: db.Collection(entity.OrdersCollection),
	}
}

// GetAll returns every order.
func (r *orderRepository) GetAll(ctx context.Context) ([]entity.Order, error) {
	done := instrument(metrics.DbOpFind, entity.OrdersCollection)

	orders := make([]entity.Order, 0)
	if err := done(findAll(ctx, r.collection, bson.M{}, &orders)); err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}

// GetByEmail uses a membership test so that documents storing email as an
// array match as well as those storing a plain string.
func (r *orderRepository) GetByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	done := instrument(metrics.DbOpFind, entity.OrdersCollection)

	filter := bson.M{"email": bson.M{"$in": bson.A{email}}}

	orders := make([]entity.Order, 0)
	if err := done(findAll(ctx, r.collection, filter, &orders)); err != nil {
		return nil, fmt.Errorf("failed to find orders by email: %w", err)
	}

	return orders, nil
}

// GetByID finds an order by its hex ObjectID.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	done := instrument(metrics.DbOpFind, entity.OrdersCollection)

	var order entity.Order
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if done(err) != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// Create inserts the order and sets its ID from the insert result.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	done := instrument(metrics.DbOpInsert, entity.OrdersCollection)

	result, err := r.collection.InsertOne(ctx, order)
	if done(err) != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = insertedObjectID(result)
	return nil
}

// Delete removes an order and reports how many documents went away.
func (r *orderRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}

	done := instrument(metrics.DbOpDelete, entity.OrdersCollection)

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if done(err) != nil {
		return 0, fmt.Errorf("failed to delete order: %w", err)
	}

	return result.DeletedCount, nil
}

// Upsert overwrites the five order fields, creating the order under the
// given id when it does not exist yet.
func (r *orderRepository) Upsert(ctx context.Context, id string, fields entity.OrderFields) (*entity.UpdateResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	done := instrument(metrics.DbOpUpdate, entity.OrdersCollection)

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if done(err) != nil {
		return nil, fmt.Errorf("failed to upsert order: %w", err)
	}

	return toUpdateResult(result), nil
}
