package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

var _ ports.EventAPI = (*EventAPI)(nil)

// EventAPI implements ports.EventAPI against the backend event catalogue.
type EventAPI struct {
	client *Client
}

func NewEventAPI(client *Client) *EventAPI {
	return &EventAPI{client: client}
}

func (a *EventAPI) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.CategoryID != "" {
		query.Set("categoryId", filter.CategoryID)
	}
	if filter.AcceptingVolunteers != nil {
		query.Set("acceptingVolunteers", strconv.FormatBool(*filter.AcceptingVolunteers))
	}

	path := "/events"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var events []domain.Event
	if err := a.client.Get(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (a *EventAPI) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	var event domain.Event
	if err := a.client.Get(ctx, "/events/"+url.PathEscape(eventID), &event); err != nil {
		return nil, err
	}
	return &event, nil
}
