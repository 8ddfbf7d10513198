package ports

import "context"

// Well-known device-store keys. They mirror the durable client state the
// web client keeps: tokens, the serialized session user, and the
// interested-events cache.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyInterests    = "interestedEvents"
)

// DeviceStore is the durable key-value storage scoped to one device.
// Values are opaque strings (JSON where structured). A missing key returns
// ("", false, nil) rather than an error.
type DeviceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
