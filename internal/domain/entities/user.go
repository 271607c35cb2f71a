package entities

import "time"

// Coordinates holds the resolved geographic position of a birth place.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Timezone  string  `json:"timezone" bson:"timezone"`
	City      string  `json:"city" bson:"city"`
	Country   string  `json:"country" bson:"country"`
}

// BirthDetails is the raw birth data submitted by the user together with
// the resolved coordinates. It is the input of every astrology data fetch.
type BirthDetails struct {
	Date        string      `json:"date" bson:"date"`
	Time        string      `json:"time" bson:"time"`
	Place       string      `json:"place" bson:"place"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// UserProfile is immutable after creation. Submitting new birth data
// creates a new profile with a new ID.
type UserProfile struct {
	ID        string       `json:"id" bson:"_id"`
	FullName  string       `json:"full_name" bson:"full_name"`
	Gender    string       `json:"gender" bson:"gender"`
	Birth     BirthDetails `json:"birth" bson:"birth"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}
