package models

import "time"

// AudienceAll targets a notice at every user type.
const AudienceAll = "All"

type Notice struct {
	ID             string    `bson:"_id" json:"_id"`
	Title          string    `bson:"title" json:"title"`
	Category       string    `bson:"category" json:"category"`
	Description    string    `bson:"description" json:"description"`
	Image          string    `bson:"image,omitempty" json:"image,omitempty"`
	Date           string    `bson:"date,omitempty" json:"date,omitempty"`
	TargetAudience string    `bson:"targetAudience" json:"targetAudience"`
	Department     string    `bson:"department,omitempty" json:"department,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
