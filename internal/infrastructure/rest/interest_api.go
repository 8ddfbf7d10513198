package rest

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

var _ ports.InterestAPI = (*InterestAPI)(nil)

// InterestAPI implements ports.InterestAPI against the backend interest
// endpoints.
type InterestAPI struct {
	client *Client
}

func NewInterestAPI(client *Client) *InterestAPI {
	return &InterestAPI{client: client}
}

// interestState is the backend's answer to check/toggle calls.
type interestState struct {
	Interested bool `json:"interested"`
}

func (a *InterestAPI) Check(ctx context.Context, eventID string) (bool, error) {
	var state interestState
	if err := a.client.Get(ctx, "/interests/check/"+url.PathEscape(eventID), &state); err != nil {
		return false, err
	}
	return state.Interested, nil
}

// Add marks interest. The returned flag is the membership the backend
// reports after the call; the sync engine treats false as a disagreement
// with intent and rolls back.
func (a *InterestAPI) Add(ctx context.Context, eventID string) (bool, error) {
	body := map[string]string{"eventId": eventID}
	if err := a.client.Post(ctx, "/interests", body, nil); err != nil {
		return false, err
	}
	return a.Check(ctx, eventID)
}

// Remove clears interest and reports the resulting membership.
func (a *InterestAPI) Remove(ctx context.Context, eventID string) (bool, error) {
	if err := a.client.Delete(ctx, "/interests/event/"+url.PathEscape(eventID), nil); err != nil {
		return false, err
	}
	return a.Check(ctx, eventID)
}

// Mine lists the user's interested events. The backend returns either a
// bare event list or a list of {event} wrappers; both shapes are accepted.
func (a *InterestAPI) Mine(ctx context.Context) ([]domain.Event, error) {
	var raw json.RawMessage
	if err := a.client.Get(ctx, "/interests/my-interests", &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var wrapped []struct {
		Event domain.Event `json:"event"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped) > 0 && wrapped[0].Event.ID != "" {
		events := make([]domain.Event, 0, len(wrapped))
		for _, w := range wrapped {
			events = append(events, w.Event)
		}
		return events, nil
	}

	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, domain.ErrMalformedResponse
	}
	return events, nil
}
