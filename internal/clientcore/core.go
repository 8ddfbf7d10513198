// Package clientcore assembles the per-device service graph: one Core per
// device plays the role of one client process — a single session store, a
// single interest collection, and comment feeds for the events the device
// is viewing.
package clientcore

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/api/metrics"
	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
	"github.com/eventura/client-gateway/internal/core/service"
	"github.com/eventura/client-gateway/internal/infrastructure/rest"
	"github.com/eventura/client-gateway/pkg/logger"
)

// Core is the dependency-injected client state for one device. Services
// are constructed once and passed by reference; there are no ambient
// singletons.
type Core struct {
	DeviceID   string
	Session    *service.SessionService
	Interests  *service.InterestService
	Events     ports.EventAPI
	Attendance ports.AttendanceAPI

	comments ports.CommentAPI
	log      zerolog.Logger

	feedMu sync.Mutex
	feeds  map[string]*service.CommentFeed
}

// NewCore wires the full graph for one device: device store → backend
// client → API slices → services. An auth-state transition automatically
// kicks an interest refresh, mirroring the login/logout convergence rule.
func NewCore(deviceID string, store ports.DeviceStore, restCfg rest.Config, log zerolog.Logger) *Core {
	log = logger.WithDevice(log, deviceID)

	client := rest.NewClient(restCfg, store, log)
	authAPI := rest.NewAuthAPI(client)
	interestAPI := rest.NewInterestAPI(client)

	sess := service.NewSessionService(authAPI, store, log)
	interests := service.NewInterestService(interestAPI, store, sess, log)

	core := &Core{
		DeviceID:   deviceID,
		Session:    sess,
		Interests:  interests,
		Events:     rest.NewEventAPI(client),
		Attendance: rest.NewAttendanceAPI(client),
		comments:   rest.NewCommentAPI(client),
		log:        log,
		feeds:      make(map[string]*service.CommentFeed),
	}

	sess.Subscribe(func(state domain.AuthState, _ *domain.User) {
		if err := interests.Refresh(context.Background(), false); err != nil {
			log.Warn().Err(err).Str("auth_state", string(state)).Msg("interest refresh after auth change failed")
		}
	})

	return core
}

// Start restores the session from durable storage and primes the interest
// collection.
func (c *Core) Start(ctx context.Context) {
	state := c.Session.Restore(ctx)
	metrics.SessionOpsTotal.WithLabelValues("restore", "ok").Inc()
	c.log.Debug().Str("auth_state", string(state)).Msg("client core started")
}

// Feed returns the comment feed for an event, creating it on first use.
// Feed state (page, loaded items, eligibility) lives for the core's
// lifetime, like a mounted view.
func (c *Core) Feed(eventID string) *service.CommentFeed {
	c.feedMu.Lock()
	defer c.feedMu.Unlock()
	feed, ok := c.feeds[eventID]
	if !ok {
		feed = service.NewCommentFeed(eventID, c.comments, c.Attendance, c.Events, c.Session, c.log)
		c.feeds[eventID] = feed
	}
	return feed
}
