package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ScanPending   = "Pending"
	ScanProcessed = "Processed" // terminal, no re-analysis
)

type Scan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientName string             `bson:"patientName" json:"patientName"`
	DoctorID    string             `bson:"doctorId" json:"doctorId"` // assigned doctor's display name
	ImagePath   string             `bson:"imagePath" json:"imagePath"`
	Status      string             `bson:"status" json:"status"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

// Report is written exactly once when a scan is processed and never mutated.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScanID        string             `bson:"scanId" json:"scanId"`
	PatientName   string             `bson:"patientName" json:"patientName"`
	DoctorID      string             `bson:"doctorId" json:"doctorId"`
	ImagePath     string             `bson:"imagePath" json:"imagePath"`
	BaldnessStage string             `bson:"baldnessStage" json:"baldnessStage"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
