package rest

import (
	"context"
	"net/url"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

var _ ports.AttendanceAPI = (*AttendanceAPI)(nil)

// AttendanceAPI implements ports.AttendanceAPI.
type AttendanceAPI struct {
	client *Client
}

func NewAttendanceAPI(client *Client) *AttendanceAPI {
	return &AttendanceAPI{client: client}
}

func (a *AttendanceAPI) Check(ctx context.Context, eventID string) (*domain.Attendance, error) {
	var att domain.Attendance
	if err := a.client.Get(ctx, "/attendance/check/"+url.PathEscape(eventID), &att); err != nil {
		return nil, err
	}
	return &att, nil
}

func (a *AttendanceAPI) Join(ctx context.Context, userID, eventID string, status domain.AttendanceStatus) error {
	body := map[string]string{
		"userId":  userID,
		"eventId": eventID,
		"status":  string(status),
	}
	return a.client.Post(ctx, "/attendance", body, nil)
}

func (a *AttendanceAPI) Cancel(ctx context.Context, userID, eventID string) error {
	path := "/attendance/" + url.PathEscape(userID) + "/" + url.PathEscape(eventID)
	return a.client.Delete(ctx, path, nil)
}
