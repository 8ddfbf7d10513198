package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

const defaultPageLimit = 10

// viewerReader is the slice of the session store the feed needs.
type viewerReader interface {
	State() domain.AuthState
	Current() *domain.User
}

var _ ports.CommentFeed = (*CommentFeed)(nil)

// CommentFeed reconciles one event's reviews against the backend. The
// backend has no native pagination, so every load fetches the full list
// and slices client-side; the O(n) cost per page is a known inefficiency
// inherited from the backend contract.
type CommentFeed struct {
	eventID    string
	comments   ports.CommentAPI
	attendance ports.AttendanceAPI
	events     ports.EventAPI
	session    viewerReader
	log        zerolog.Logger
	now        func() time.Time

	// mu serializes the feed: it is the re-entrancy guard standing in for
	// the web client's submission-in-flight flag.
	mu       sync.Mutex
	page     int
	limit    int
	total    int
	items    []domain.CommentRating
	stats    domain.RatingStats
	eligible bool // last evaluation, for the page snapshot only

	// Only a positive attendance probe is cached: a viewer with no record
	// may earn one later through this gateway's join flow, so a negative
	// answer is re-checked on the next evaluation.
	attended    bool
	attendedFor string // user id the cached probe belongs to
	event       *domain.Event
}

func NewCommentFeed(
	eventID string,
	comments ports.CommentAPI,
	attendance ports.AttendanceAPI,
	events ports.EventAPI,
	session viewerReader,
	log zerolog.Logger,
) *CommentFeed {
	return &CommentFeed{
		eventID:    eventID,
		comments:   comments,
		attendance: attendance,
		events:     events,
		session:    session,
		log:        log,
		now:        time.Now,
		page:       1,
		limit:      defaultPageLimit,
	}
}

// Load fetches the full comment list and the aggregate stats concurrently,
// re-evaluates eligibility when the viewer changed, and slices out the
// requested 1-based page.
func (f *CommentFeed) Load(ctx context.Context, page int) (*ports.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if page < 1 {
		page = 1
	}

	var (
		list  []domain.CommentRating
		stats *domain.RatingStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = f.comments.List(gctx, f.eventID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = f.comments.Stats(gctx, f.eventID)
		return err
	})
	g.Go(func() error {
		f.eligible = f.eligibleNow(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	f.total = len(list)
	if stats != nil {
		f.stats = *stats
	}

	// Clamp to the last page so deleting into an empty tail never shows a
	// blank view.
	if last := f.totalPages(); page > last {
		page = last
	}
	f.page = page
	f.items = slicePage(list, page, f.limit)

	return f.snapshot(), nil
}

// Create posts a new review. The eligibility gate is decided here, at
// submission time: a viewer who did not attend, or an event that has not
// ended yet, is rejected before the review is sent.
func (f *CommentFeed) Create(ctx context.Context, in ports.CommentInput) (*ports.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := validateCommentInput(in); err != nil {
		return nil, err
	}
	f.eligible = f.eligibleNow(ctx)
	if !f.eligible {
		return nil, domain.ErrNotEligible
	}

	in.EventID = f.eventID
	created, err := f.comments.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	// On page 1 the new review is prepended and the page is trimmed back
	// to the limit; deeper pages keep their slice untouched.
	if f.page == 1 {
		f.items = append([]domain.CommentRating{*created}, f.items...)
		if len(f.items) > f.limit {
			f.items = f.items[:f.limit]
		}
	}
	f.total++
	f.reloadStats(ctx)

	return f.snapshot(), nil
}

// Update patches an existing review in place. Stats are re-fetched only
// when the rating changed; a comment-text edit cannot move the aggregate.
func (f *CommentFeed) Update(ctx context.Context, commentID string, in ports.CommentInput) (*ports.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := validateCommentInput(in); err != nil {
		return nil, err
	}

	idx := f.indexOf(commentID)
	if idx >= 0 {
		if err := f.requireAuthor(f.items[idx]); err != nil {
			return nil, err
		}
	}

	ratingChanged := idx < 0 || f.items[idx].Rating != in.Rating

	updated, err := f.comments.Update(ctx, commentID, in)
	if err != nil {
		return nil, err
	}
	if idx >= 0 {
		f.items[idx] = *updated
	}
	if ratingChanged {
		f.reloadStats(ctx)
	}

	return f.snapshot(), nil
}

// Delete removes a review. When the last item of a non-first page goes,
// the view steps back one page and reloads it.
func (f *CommentFeed) Delete(ctx context.Context, commentID string) (*ports.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.indexOf(commentID)
	if idx >= 0 {
		if err := f.requireAuthor(f.items[idx]); err != nil {
			return nil, err
		}
	}

	if err := f.comments.Delete(ctx, commentID); err != nil {
		return nil, err
	}

	if idx >= 0 {
		f.items = append(f.items[:idx], f.items[idx+1:]...)
	}
	if f.total > 0 {
		f.total--
	}

	if len(f.items) == 0 && f.page > 1 {
		f.page--
		if list, err := f.comments.List(ctx, f.eventID); err == nil {
			f.total = len(list)
			f.items = slicePage(list, f.page, f.limit)
		} else {
			f.log.Warn().Err(err).Str("event_id", f.eventID).Msg("page reload after delete failed")
		}
	}
	f.reloadStats(ctx)

	return f.snapshot(), nil
}

// eligibleNow decides the gate at evaluation time: the viewer attended
// and the event's start time has passed as of f.now(). The time half is
// never cached, so a feed loaded before an ongoing event ends becomes
// writable once the clock crosses the event's dateTime.
func (f *CommentFeed) eligibleNow(ctx context.Context) bool {
	return f.viewerAttended(ctx) && f.eventEnded(ctx)
}

// viewerAttended probes attendance for the current viewer. A missing
// record, a permission error and a not-found response all mean "has not
// attended"; only unexpected failures are logged, and every failure
// degrades to not-attended rather than blocking the feed.
func (f *CommentFeed) viewerAttended(ctx context.Context) bool {
	user := f.session.Current()
	if user == nil {
		f.attendedFor = ""
		f.attended = false
		return false
	}
	if f.attended && f.attendedFor == user.ID {
		return true
	}

	attended := false
	att, err := f.attendance.Check(ctx, f.eventID)
	switch {
	case err == nil:
		attended = att != nil && att.HasAttended
	case isAbsenceError(err):
		// No attendance record for this viewer.
	default:
		f.log.Warn().Err(err).Str("event_id", f.eventID).Msg("attendance probe failed")
	}

	f.attended = attended
	f.attendedFor = user.ID
	return attended
}

// eventEnded reports whether the event's start time is in the past,
// fetching and caching the event record on first use.
func (f *CommentFeed) eventEnded(ctx context.Context) bool {
	if f.event == nil {
		ev, err := f.events.Get(ctx, f.eventID)
		if err != nil {
			f.log.Warn().Err(err).Str("event_id", f.eventID).Msg("event lookup failed")
			return false
		}
		f.event = ev
	}
	if f.event.Status == domain.EventCompleted {
		return true
	}
	return f.event.Ended(f.now())
}

func (f *CommentFeed) reloadStats(ctx context.Context) {
	stats, err := f.comments.Stats(ctx, f.eventID)
	if err != nil {
		f.log.Warn().Err(err).Str("event_id", f.eventID).Msg("stats reload failed")
		return
	}
	f.stats = *stats
}

func (f *CommentFeed) requireAuthor(c domain.CommentRating) error {
	user := f.session.Current()
	if user == nil || c.UserID != user.ID {
		return domain.ErrNotCommentAuthor
	}
	return nil
}

func (f *CommentFeed) indexOf(commentID string) int {
	for i, c := range f.items {
		if c.ID == commentID {
			return i
		}
	}
	return -1
}

func (f *CommentFeed) totalPages() int {
	pages := (f.total + f.limit - 1) / f.limit
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (f *CommentFeed) snapshot() *ports.CommentPage {
	items := make([]domain.CommentRating, len(f.items))
	copy(items, f.items)
	return &ports.CommentPage{
		Items:      items,
		Stats:      f.stats,
		Page:       f.page,
		Limit:      f.limit,
		Total:      f.total,
		TotalPages: f.totalPages(),
		Eligible:   f.eligible,
	}
}

func slicePage(list []domain.CommentRating, page, limit int) []domain.CommentRating {
	start := (page - 1) * limit
	if start >= len(list) {
		return []domain.CommentRating{}
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	out := make([]domain.CommentRating, end-start)
	copy(out, list[start:end])
	return out
}

func validateCommentInput(in ports.CommentInput) error {
	if strings.TrimSpace(in.Comment) == "" {
		return &domain.ValidationError{Field: "comment", Message: "must not be empty"}
	}
	if in.Rating < 1 || in.Rating > 5 {
		return &domain.ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}
	return nil
}

// isAbsenceError reports whether err is one of the responses treated as
// "has not attended" rather than a hard failure.
func isAbsenceError(err error) bool {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
