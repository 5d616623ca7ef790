package models

import "time"

type Event struct {
	ID        string    `bson:"_id" json:"_id"`
	Name      string    `bson:"name" json:"name"`
	Date      string    `bson:"date" json:"date"`
	Time      string    `bson:"time,omitempty" json:"time,omitempty"`
	Venue     string    `bson:"venue,omitempty" json:"venue,omitempty"`
	Details   string    `bson:"details,omitempty" json:"details,omitempty"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
