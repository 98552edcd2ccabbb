package history

import (
	"context"
	"time"

	"devdash/internal/device"
)

// Recorder persists received snapshots so a session can be reviewed
// after the laptop leaves the site.
type Recorder interface {
	Record(ctx context.Context, at time.Time, snap device.Snapshot) error
	Close() error
}
