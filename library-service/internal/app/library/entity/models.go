package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names inside the library database.
const (
	BooksCollection   = "books"
	ReviewsCollection = "reviews"
	OrdersCollection  = "orders"
	UsersCollection   = "users"
)

// Collections lists every collection the service owns.
var Collections = []string{BooksCollection, ReviewsCollection, OrdersCollection, UsersCollection}

// RoleAdmin is the only role the service interprets.
const RoleAdmin = "admin"

// OrderStatusPending is assigned to orders placed without a status.
const OrderStatusPending = "pending"

// The id is serialized as "_id" to keep the document shape clients already read.
type Book struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Author      string             `json:"author,omitempty" bson:"author,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Publisher   string             `json:"publisher,omitempty" bson:"publisher,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
}

type Review struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name   string             `json:"name" bson:"name"`
	Email  string             `json:"email,omitempty" bson:"email,omitempty"`
	Text   string             `json:"review" bson:"review"`
	Rating float64            `json:"rating" bson:"rating"`
	Image  string             `json:"image,omitempty" bson:"image,omitempty"`
}

// Order.Email conventionally matches a User's email; nothing enforces it.
type Order struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Address     string             `json:"address" bson:"address"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	OrderStatus string             `json:"order_status" bson:"order_status"`
	Service     string             `json:"service" bson:"service"`
	BookID      string             `json:"book_id,omitempty" bson:"book_id,omitempty"`
	Price       float64            `json:"price,omitempty" bson:"price,omitempty"`
	Date        *time.Time         `json:"date,omitempty" bson:"date,omitempty"`
}

// OrderFields is the subset of an order that PUT /orders/:id may overwrite.
type OrderFields struct {
	Name        string `bson:"name"`
	Email       string `bson:"email"`
	Address     string `bson:"address"`
	OrderStatus string `bson:"order_status"`
	Service     string `bson:"service"`
}

// User.Email is the natural key; the store id is never exposed to callers as a lookup key.
type User struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	DisplayName string             `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Role        string             `json:"role,omitempty" bson:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UpdateResult mirrors the store's acknowledgement of an update, replace or upsert.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    *primitive.ObjectID
}

// LibraryEvent is published to Kafka after every successful write.
type LibraryEvent struct {
	EventType  string    `json:"event_type"`
	Collection string    `json:"collection"`
	DocumentID string    `json:"document_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventBookAdded    = "BOOK_ADDED"
	EventBookDeleted  = "BOOK_DELETED"
	EventReviewAdded  = "REVIEW_ADDED"
	EventOrderCreated = "ORDER_CREATED"
	EventOrderUpdated = "ORDER_UPDATED"
	EventOrderDeleted = "ORDER_DELETED"
	EventUserCreated  = "USER_CREATED"
	EventUserUpserted = "USER_UPSERTED"
	EventUserPromoted = "USER_PROMOTED"
)
