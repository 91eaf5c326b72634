package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Author      string  `json:"author" validate:"max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Image       string  `json:"image" validate:"omitempty,url"`
	Price       float64 `json:"price" validate:"gte=0"`
	Publisher   string  `json:"publisher" validate:"max=200"`
	Category    string  `json:"category" validate:"max=100"`
}

type CreateReviewRequest struct {
	Name   string  `json:"name" validate:"required,max=100"`
	Email  string  `json:"email" validate:"omitempty,email"`
	Text   string  `json:"review" validate:"required,max=2000"`
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
	Image  string  `json:"image" validate:"omitempty,url"`
}

type CreateOrderRequest struct {
	Name        string  `json:"name" validate:"max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Address     string  `json:"address" validate:"max=500"`
	Phone       string  `json:"phone" validate:"max=30"`
	OrderStatus string  `json:"order_status" validate:"max=50"`
	Service     string  `json:"service" validate:"max=300"`
	BookID      string  `json:"book_id" validate:"omitempty,hexadecimal,len=24"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// UpdateOrderRequest carries the five overwritable fields; anything else in
// the body is dropped during binding.
type UpdateOrderRequest struct {
	Name        string `json:"name" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address" validate:"max=500"`
	OrderStatus string `json:"order_status" validate:"max=50"`
	Service     string `json:"service" validate:"max=300"`
}

type UserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"max=100"`
	Role        string `json:"role" validate:"omitempty,oneof=user admin"`
}

// PromoteAdminRequest names the user to promote; the requester comes from the path.
type PromoteAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// InsertResponse, DeleteResponse and UpdateResponse keep the acknowledgement
// shape the store reports, so existing clients can read insertedId and friends.
type InsertResponse struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

type DeleteResponse struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type UpdateResponse struct {
	Acknowledged  bool                `json:"acknowledged"`
	MatchedCount  int64               `json:"matchedCount"`
	ModifiedCount int64               `json:"modifiedCount"`
	UpsertedCount int64               `json:"upsertedCount"`
	UpsertedID    *primitive.ObjectID `json:"upsertedId"`
}

func NewUpdateResponse(res *UpdateResult) UpdateResponse {
	return UpdateResponse{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
