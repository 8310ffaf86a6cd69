package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AddressPart struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	Pincode string `json:"pincode" bson:"pincode"`
}

type Address struct {
	Shipping AddressPart `json:"shipping" bson:"shipping"`
	Billing  AddressPart `json:"billing" bson:"billing"`
}

type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Fname        string             `json:"fname" bson:"fname"`
	Lname        string             `json:"lname" bson:"lname"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone" bson:"phone"`
	Password     string             `json:"-" bson:"password"`
	ProfileImage string             `json:"profileImage" bson:"profileImage"`
	Address      Address            `json:"address" bson:"address"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
