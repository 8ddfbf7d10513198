package domain

import "time"

// CommentRating is a single attendee review of an ended event.
type CommentRating struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserHandle string    `json:"userHandle,omitempty"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// RatingStats are the aggregate numbers derived from an event's reviews.
// They are always recomputed by the backend, never client-side, so that
// the displayed aggregate cannot drift from the stored records.
type RatingStats struct {
	Average      float64     `json:"averageRating"`
	Total        int         `json:"totalRatings"`
	Distribution map[int]int `json:"distribution,omitempty"`
}

// AttendanceStatus is the state of a user's attendance record for an event.
type AttendanceStatus string

const (
	AttendanceJoined    AttendanceStatus = "JOINED"
	AttendanceCheckedIn AttendanceStatus = "CHECKED_IN"
	AttendanceCancelled AttendanceStatus = "CANCELLED"
)

// Attendance is the backend's answer to an attendance check.
type Attendance struct {
	HasAttended bool             `json:"hasAttended"`
	Status      AttendanceStatus `json:"attendanceStatus,omitempty"`
	CheckedInAt time.Time        `json:"checkedInAt,omitzero"`
	EventStatus EventStatus      `json:"eventStatus,omitempty"`
}
