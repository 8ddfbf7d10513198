package handler

import "github.com/eventura/client-gateway/internal/core/domain"

// addInterestRequest carries the event already in display shape: the UI
// has the card on screen when the user bookmarks it.
type addInterestRequest struct {
	ID              string  `json:"id"       validate:"required"`
	Title           string  `json:"title"    validate:"required"`
	Image           string  `json:"image"`
	Category        string  `json:"category"`
	Month           string  `json:"month"`
	Day             string  `json:"day"`
	Venue           string  `json:"venue"`
	Time            string  `json:"time"`
	Price           float64 `json:"price"    validate:"gte=0"`
	InterestedCount int     `json:"interestedCount"`
}

func (r addInterestRequest) toDomain() domain.InterestedEvent {
	return domain.InterestedEvent{
		EventID:         r.ID,
		Title:           r.Title,
		ImageURL:        r.Image,
		Category:        r.Category,
		Month:           r.Month,
		Day:             r.Day,
		Venue:           r.Venue,
		Time:            r.Time,
		Price:           r.Price,
		InterestedCount: r.InterestedCount,
	}
}

type interestListResponse struct {
	Items []domain.InterestedEvent `json:"items"`
	Count int                      `json:"count"`
}

type interestStateResponse struct {
	EventID    string `json:"eventId"`
	Interested bool   `json:"interested"`
}
