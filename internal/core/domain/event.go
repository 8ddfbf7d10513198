package domain

import (
	"strconv"
	"time"
)

// EventStatus is the lifecycle state of an event on the backend.
type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

// Event is an event record as the backend returns it.
type Event struct {
	ID                  string      `json:"id"`
	Title               string      `json:"title"`
	ImageURL            string      `json:"imageUrl,omitempty"`
	Category            string      `json:"category,omitempty"`
	CategoryID          string      `json:"categoryId,omitempty"`
	DateTime            time.Time   `json:"dateTime"`
	Venue               string      `json:"venue"`
	Price               float64     `json:"price"`
	Status              EventStatus `json:"status,omitempty"`
	AcceptingVolunteers bool        `json:"acceptingVolunteers,omitempty"`
	InterestedCount     int         `json:"interestedCount"`
}

// Ended reports whether the event's start time is in the past.
func (e Event) Ended(now time.Time) bool {
	return !e.DateTime.IsZero() && e.DateTime.Before(now)
}

// InterestedEvent is a bookmarked event in the display shape the UI consumes.
// The collection it belongs to is keyed by event id.
type InterestedEvent struct {
	EventID         string  `json:"id"`
	Title           string  `json:"title"`
	ImageURL        string  `json:"image"`
	Category        string  `json:"category"`
	Month           string  `json:"month"`
	Day             string  `json:"day"`
	Venue           string  `json:"venue"`
	Time            string  `json:"time"`
	Price           float64 `json:"price"`
	InterestedCount int     `json:"interestedCount"`
}

// ToInterested converts a backend event into the bookmark display shape:
// month abbreviation plus day number, a formatted wall-clock time, and a
// price defaulted to zero when the backend omits it.
func (e Event) ToInterested() InterestedEvent {
	ie := InterestedEvent{
		EventID:         e.ID,
		Title:           e.Title,
		ImageURL:        e.ImageURL,
		Category:        e.Category,
		Venue:           e.Venue,
		Price:           e.Price,
		InterestedCount: e.InterestedCount,
	}
	if !e.DateTime.IsZero() {
		ie.Month = e.DateTime.Format("Jan")
		ie.Day = strconv.Itoa(e.DateTime.Day())
		ie.Time = e.DateTime.Format("3:04 PM")
	}
	return ie
}

// EventFilter carries the optional query parameters for listing events.
type EventFilter struct {
	Status              string
	CategoryID          string
	AcceptingVolunteers *bool
}
