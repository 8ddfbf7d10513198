package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

type stubViewer struct {
	state domain.AuthState
	user  *domain.User
}

func (v *stubViewer) State() domain.AuthState { return v.state }
func (v *stubViewer) Current() *domain.User   { return v.user }

type stubCommentAPI struct {
	list    []domain.CommentRating
	listErr error
	stats   domain.RatingStats

	createErr error
	updateErr error
	deleteErr error

	listCalls  int
	statsCalls int
	nextID     int
}

func (a *stubCommentAPI) List(_ context.Context, _ string) ([]domain.CommentRating, error) {
	a.listCalls++
	if a.listErr != nil {
		return nil, a.listErr
	}
	out := make([]domain.CommentRating, len(a.list))
	copy(out, a.list)
	return out, nil
}

func (a *stubCommentAPI) Stats(_ context.Context, _ string) (*domain.RatingStats, error) {
	a.statsCalls++
	stats := a.stats
	return &stats, nil
}

func (a *stubCommentAPI) Create(_ context.Context, in ports.CommentInput) (*domain.CommentRating, error) {
	if a.createErr != nil {
		return nil, a.createErr
	}
	a.nextID++
	created := domain.CommentRating{
		ID:      fmt.Sprintf("new-%d", a.nextID),
		EventID: in.EventID,
		UserID:  "u1",
		Comment: in.Comment,
		Rating:  in.Rating,
	}
	a.list = append([]domain.CommentRating{created}, a.list...)
	return &created, nil
}

func (a *stubCommentAPI) Update(_ context.Context, id string, in ports.CommentInput) (*domain.CommentRating, error) {
	if a.updateErr != nil {
		return nil, a.updateErr
	}
	return &domain.CommentRating{ID: id, UserID: "u1", Comment: in.Comment, Rating: in.Rating}, nil
}

func (a *stubCommentAPI) Delete(_ context.Context, id string) error {
	if a.deleteErr != nil {
		return a.deleteErr
	}
	for i, c := range a.list {
		if c.ID == id {
			a.list = append(a.list[:i], a.list[i+1:]...)
			break
		}
	}
	return nil
}

type stubAttendanceAPI struct {
	attendance *domain.Attendance
	err        error
	checkCalls int
}

func (a *stubAttendanceAPI) Check(_ context.Context, _ string) (*domain.Attendance, error) {
	a.checkCalls++
	return a.attendance, a.err
}

func (a *stubAttendanceAPI) Join(_ context.Context, _, _ string, _ domain.AttendanceStatus) error {
	return nil
}

func (a *stubAttendanceAPI) Cancel(_ context.Context, _, _ string) error { return nil }

type stubEventAPI struct {
	event *domain.Event
	err   error
}

func (a *stubEventAPI) List(_ context.Context, _ domain.EventFilter) ([]domain.Event, error) {
	return nil, nil
}

func (a *stubEventAPI) Get(_ context.Context, _ string) (*domain.Event, error) {
	return a.event, a.err
}

func reviews(n int) []domain.CommentRating {
	out := make([]domain.CommentRating, n)
	for i := range out {
		out[i] = domain.CommentRating{
			ID:      fmt.Sprintf("c%d", i+1),
			UserID:  fmt.Sprintf("author%d", i+1),
			Comment: "great event",
			Rating:  4,
		}
	}
	return out
}

func endedEvent() *domain.Event {
	return &domain.Event{
		ID:       "e1",
		Title:    "Conference",
		DateTime: time.Now().Add(-48 * time.Hour),
		Status:   domain.EventCompleted,
	}
}

func newFeedFixture(comments *stubCommentAPI, attendance *stubAttendanceAPI, events *stubEventAPI, viewer *stubViewer) *CommentFeed {
	return NewCommentFeed("e1", comments, attendance, events, viewer, zerolog.Nop())
}

func attendedViewer() (*stubAttendanceAPI, *stubViewer) {
	att := &stubAttendanceAPI{attendance: &domain.Attendance{HasAttended: true, Status: domain.AttendanceCheckedIn}}
	viewer := &stubViewer{state: domain.AuthAuthenticated, user: &domain.User{ID: "u1", CurrentRole: domain.RoleAttendee}}
	return att, viewer
}

func TestCommentFeed_Load_Pagination(t *testing.T) {
	comments := &stubCommentAPI{list: reviews(25), stats: domain.RatingStats{Average: 4, Total: 25}}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	page, err := feed.Load(context.Background(), 3)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if page.Page != 3 || page.TotalPages != 3 || page.Total != 25 {
		t.Fatalf("unexpected paging: page=%d pages=%d total=%d", page.Page, page.TotalPages, page.Total)
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items on the last page, got %d", len(page.Items))
	}
	if page.Items[0].ID != "c21" {
		t.Fatalf("unexpected first item on page 3: %s", page.Items[0].ID)
	}
	if page.Stats.Total != 25 {
		t.Fatalf("stats not loaded: %+v", page.Stats)
	}
}

func TestCommentFeed_Load_ClampsPastLastPage(t *testing.T) {
	comments := &stubCommentAPI{list: reviews(12)}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	page, err := feed.Load(context.Background(), 9)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if page.Page != 2 {
		t.Fatalf("expected clamp to page 2, got %d", page.Page)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
}

func TestCommentFeed_Create_RequiresAttendance(t *testing.T) {
	comments := &stubCommentAPI{}
	att := &stubAttendanceAPI{attendance: &domain.Attendance{HasAttended: false}}
	viewer := &stubViewer{state: domain.AuthAuthenticated, user: &domain.User{ID: "u1"}}
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	_, err := feed.Create(context.Background(), ports.CommentInput{Comment: "nice", Rating: 5})
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestCommentFeed_Create_RequiresEndedEvent(t *testing.T) {
	comments := &stubCommentAPI{}
	att, viewer := attendedViewer()
	future := &domain.Event{ID: "e1", DateTime: time.Now().Add(24 * time.Hour), Status: domain.EventUpcoming}
	feed := newFeedFixture(comments, att, &stubEventAPI{event: future}, viewer)

	_, err := feed.Create(context.Background(), ports.CommentInput{Comment: "early", Rating: 3})
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible for an event still ahead, got %v", err)
	}
}

func TestCommentFeed_Create_BecomesEligibleOnceEventEnds(t *testing.T) {
	comments := &stubCommentAPI{}
	att, viewer := attendedViewer()
	ongoing := &domain.Event{ID: "e1", DateTime: time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC), Status: domain.EventUpcoming}
	feed := newFeedFixture(comments, att, &stubEventAPI{event: ongoing}, viewer)

	clock := ongoing.DateTime.Add(-time.Hour)
	feed.now = func() time.Time { return clock }

	page, err := feed.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if page.Eligible {
		t.Fatalf("viewer must not be eligible an hour before the event")
	}

	clock = ongoing.DateTime.Add(25 * time.Hour)
	page, err = feed.Create(context.Background(), ports.CommentInput{Comment: "worth the wait", Rating: 5})
	if err != nil {
		t.Fatalf("create after the event ended failed: %v", err)
	}
	if !page.Eligible {
		t.Fatalf("gate must re-read the clock once the event's date has passed")
	}
}

func TestCommentFeed_Create_SeesAttendanceRecordedAfterFirstLoad(t *testing.T) {
	comments := &stubCommentAPI{}
	att := &stubAttendanceAPI{err: domain.NewAPIError(http.StatusNotFound, "no record")}
	viewer := &stubViewer{state: domain.AuthAuthenticated, user: &domain.User{ID: "u1"}}
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	if _, err := feed.Create(context.Background(), ports.CommentInput{Comment: "too soon", Rating: 4}); !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible before check-in, got %v", err)
	}

	// The viewer checks in through the join flow; the next probe must see it.
	att.err = nil
	att.attendance = &domain.Attendance{HasAttended: true, Status: domain.AttendanceCheckedIn}
	if _, err := feed.Create(context.Background(), ports.CommentInput{Comment: "made it", Rating: 4}); err != nil {
		t.Fatalf("create after check-in failed: %v", err)
	}
}

func TestCommentFeed_Create_ReusesPositiveAttendanceCheck(t *testing.T) {
	comments := &stubCommentAPI{}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	if _, err := feed.Load(context.Background(), 1); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := feed.Create(context.Background(), ports.CommentInput{Comment: "again", Rating: 4}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if att.checkCalls != 1 {
		t.Fatalf("a positive probe must be reused, got %d checks", att.checkCalls)
	}
}

func TestCommentFeed_Create_MissingAttendanceRecordMeansNotEligible(t *testing.T) {
	comments := &stubCommentAPI{}
	att := &stubAttendanceAPI{err: domain.NewAPIError(http.StatusNotFound, "no record")}
	viewer := &stubViewer{state: domain.AuthAuthenticated, user: &domain.User{ID: "u1"}}
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	_, err := feed.Create(context.Background(), ports.CommentInput{Comment: "hi", Rating: 4})
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("a missing attendance record must read as not eligible, got %v", err)
	}
}

func TestCommentFeed_Create_Validation(t *testing.T) {
	comments := &stubCommentAPI{}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	var vErr *domain.ValidationError
	if _, err := feed.Create(context.Background(), ports.CommentInput{Comment: "  ", Rating: 4}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for empty comment, got %v", err)
	}
	if _, err := feed.Create(context.Background(), ports.CommentInput{Comment: "ok", Rating: 0}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for rating 0, got %v", err)
	}
	if _, err := feed.Create(context.Background(), ports.CommentInput{Comment: "ok", Rating: 6}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for rating 6, got %v", err)
	}
}

func TestCommentFeed_Create_PrependsOnFirstPage(t *testing.T) {
	comments := &stubCommentAPI{list: reviews(10)}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	if _, err := feed.Load(context.Background(), 1); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	page, err := feed.Create(context.Background(), ports.CommentInput{Comment: "fresh take", Rating: 5})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(page.Items) != 10 {
		t.Fatalf("page must stay at the limit, got %d items", len(page.Items))
	}
	if page.Items[0].Comment != "fresh take" {
		t.Fatalf("new review must lead page 1, got %q", page.Items[0].Comment)
	}
	if page.Total != 11 {
		t.Fatalf("expected total 11, got %d", page.Total)
	}
}

func TestCommentFeed_Delete_StepsBackFromEmptyPage(t *testing.T) {
	list := reviews(11)
	list[10].UserID = "u1" // the viewer's own review sits alone on page 2
	comments := &stubCommentAPI{list: list}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	page, err := feed.Load(context.Background(), 2)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected a single item on page 2, got %d", len(page.Items))
	}

	page, err = feed.Delete(context.Background(), page.Items[0].ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("emptied page must step back to 1, got %d", page.Page)
	}
	if len(page.Items) != 10 || page.Total != 10 {
		t.Fatalf("expected a full first page of 10, got %d items total %d", len(page.Items), page.Total)
	}
}

func TestCommentFeed_Update_AuthorOnly(t *testing.T) {
	list := reviews(3) // authored by author1..author3, not the viewer
	comments := &stubCommentAPI{list: list}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	if _, err := feed.Load(context.Background(), 1); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := feed.Update(context.Background(), "c1", ports.CommentInput{Comment: "edit", Rating: 2}); !errors.Is(err, domain.ErrNotCommentAuthor) {
		t.Fatalf("expected ErrNotCommentAuthor, got %v", err)
	}
	if _, err := feed.Delete(context.Background(), "c2"); !errors.Is(err, domain.ErrNotCommentAuthor) {
		t.Fatalf("expected ErrNotCommentAuthor on delete, got %v", err)
	}
}

func TestCommentFeed_Update_ReloadsStatsOnlyOnRatingChange(t *testing.T) {
	list := reviews(2)
	list[0].UserID = "u1"
	comments := &stubCommentAPI{list: list}
	att, viewer := attendedViewer()
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	if _, err := feed.Load(context.Background(), 1); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	baseline := comments.statsCalls

	// Same rating, text edit only: no stats reload.
	if _, err := feed.Update(context.Background(), "c1", ports.CommentInput{Comment: "edited", Rating: 4}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if comments.statsCalls != baseline {
		t.Fatalf("text-only edit must not reload stats")
	}

	if _, err := feed.Update(context.Background(), "c1", ports.CommentInput{Comment: "edited", Rating: 2}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if comments.statsCalls != baseline+1 {
		t.Fatalf("rating change must reload stats, calls=%d baseline=%d", comments.statsCalls, baseline)
	}
}

func TestCommentFeed_Load_AnonymousViewerNeverEligible(t *testing.T) {
	comments := &stubCommentAPI{list: reviews(2)}
	att := &stubAttendanceAPI{attendance: &domain.Attendance{HasAttended: true}}
	viewer := &stubViewer{state: domain.AuthAnonymous}
	feed := newFeedFixture(comments, att, &stubEventAPI{event: endedEvent()}, viewer)

	page, err := feed.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if page.Eligible {
		t.Fatalf("anonymous viewer must never be eligible")
	}
}
