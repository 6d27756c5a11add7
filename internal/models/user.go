package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

const (
	StatusActive   = "Active"
	StatusPending  = "Pending"
	StatusVerified = "Verified"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"fullName" json:"fullName"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"` // Hide from JSON responses
	Phone          string             `bson:"phone" json:"phone"`
	Role           string             `bson:"role" json:"role"`
	Status         string             `bson:"status" json:"status"` // patients are Active; doctors start Pending
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	DegreePath     string             `bson:"degreePath,omitempty" json:"degree_path,omitempty"`
	ResetTokenID   string             `bson:"resetTokenId,omitempty" json:"-"` // jti of the outstanding reset token
}
