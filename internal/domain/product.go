package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product carries only the display fields used to enrich cart and order
// responses; the catalog itself is owned elsewhere.
type Product struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title          string             `json:"title" bson:"title"`
	Price          float64            `json:"price" bson:"price"`
	ProductImage   string             `json:"productImage" bson:"productImage"`
	IsFreeShipping bool               `json:"isFreeShipping" bson:"isFreeShipping"`
}
