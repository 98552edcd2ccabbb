package device

import (
	"sync"
	"time"
)

// serverTimeLayouts covers the timestamp shapes the device emits. The
// firmware sends a naive ISO timestamp without a zone suffix.
var serverTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Store owns the single Snapshot instance for the session. Pollers and
// the stream reader run on their own goroutines, so every merge goes
// through the mutex.
type Store struct {
	mu          sync.Mutex
	snap        Snapshot
	clockOffset time.Duration
	offsetKnown bool
}

func NewStore() *Store {
	return &Store{
		// Uptime starts unknown; formatting renders negatives as a dash.
		snap: Snapshot{UptimeSeconds: -1},
	}
}

// ApplyStatus merges one full status poll into the cache and returns
// the merged snapshot. Fields absent from the update keep their cached
// value, which makes interleaving with the fast stream commutative for
// disjoint field sets.
func (s *Store) ApplyStatus(u StatusUpdate) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.CPU != nil {
		s.snap.CPUPercent = *u.CPU
	}
	if u.Load != nil {
		if u.Load.One != nil {
			s.snap.Load1 = *u.Load.One
		}
		if u.Load.Five != nil {
			s.snap.Load5 = *u.Load.Five
		}
		if u.Load.Fifteen != nil {
			s.snap.Load15 = *u.Load.Fifteen
		}
	}
	if u.TempC != nil {
		s.snap.TempC = *u.TempC
		s.snap.TempValid = true
	}
	if u.FreqKHz != nil {
		s.snap.FreqKHz = *u.FreqKHz
	}
	if u.Governor != nil {
		s.snap.Governor = *u.Governor
	}
	if u.FreqMinKHz != nil {
		s.snap.FreqMinKHz = *u.FreqMinKHz
	}
	if u.FreqMaxKHz != nil {
		s.snap.FreqMaxKHz = *u.FreqMaxKHz
	}
	if u.UptimeSeconds != nil {
		s.snap.UptimeSeconds = *u.UptimeSeconds
	}
	if u.ServerTime != nil {
		if t, ok := parseServerTime(*u.ServerTime); ok {
			s.clockOffset = time.Until(t)
			s.offsetKnown = true
		}
	}

	return s.snap
}

// ApplyFast merges one stream message. Same preserve semantics as
// ApplyStatus, restricted to the fast-changing fields.
func (s *Store) ApplyFast(u FastUpdate) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.CPU != nil {
		s.snap.CPUPercent = *u.CPU
	}
	if u.FreqKHz != nil {
		s.snap.FreqKHz = *u.FreqKHz
	}
	if u.TempC != nil {
		s.snap.TempC = *u.TempC
		s.snap.TempValid = true
	}

	return s.snap
}

// Snapshot returns a copy of the current cache.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snap
}

// DeviceTime maps a local instant onto the device's clock. Before the
// first status poll supplies a server time, local time is returned
// unchanged.
func (s *Store) DeviceTime(now time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.offsetKnown {
		return now
	}

	return now.Add(s.clockOffset)
}

func parseServerTime(v string) (time.Time, bool) {
	for _, layout := range serverTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
