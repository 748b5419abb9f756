package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreditAccount là số dư credit dùng chung của một người dùng.
// Mỗi người dùng có đúng một tài khoản credit.
type CreditAccount struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"unique"` // Người sở hữu tài khoản
	Balance float64            `json:"balance" bson:"balance"`                // Số dư hiện tại

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
