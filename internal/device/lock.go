package device

import "sync"

// Selector values that activate the dependent field groups.
const (
	NetworkModeStatic = "static"
	NetworkModeDHCP   = "dhcp"
	TimeSourceManual  = "manual"
	TimeSourceNTP     = "ntp"
)

// LockState is the single unlocked/locked flag guarding the
// configuration form. It changes only on a confirmed unlock, an
// explicit lock, or the initial server-provided value.
type LockState struct {
	mu       sync.Mutex
	unlocked bool
}

func (l *LockState) Unlocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.unlocked
}

func (l *LockState) Set(unlocked bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.unlocked = unlocked
}

// FieldGate decides whether a dependent field group is editable: the
// form must be unlocked and the controlling selector must hold the
// activating value.
type FieldGate struct {
	Active string
}

func (g FieldGate) Enabled(unlocked bool, selector string) bool {
	return unlocked && selector == g.Active
}

// The two gates of the configuration form. Static addressing fields
// follow the network mode selector; date/time fields follow the time
// source selector.
var (
	NetworkGate = FieldGate{Active: NetworkModeStatic}
	TimeGate    = FieldGate{Active: TimeSourceManual}
)
