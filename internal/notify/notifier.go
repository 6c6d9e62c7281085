package notify

import (
	"os"
	"sync"
	"time"

	"roof_vent/internal/clock"
	"roof_vent/internal/logger"
)

// Severity controls styling and whether a tone is played.
type Severity string

const (
	Info   Severity = "info"
	Warn   Severity = "warn"
	Hazard Severity = "hazard"
)

// DefaultDuration is how long a toast stays up when no duration is given.
const DefaultDuration = 3500 * time.Millisecond

// Toast is one transient message.
type Toast struct {
	ID       uint64
	Message  string
	Severity Severity
	Until    time.Time
}

// Surface displays toasts. Implementations must not block.
type Surface interface {
	Show(t Toast)
	Hide(id uint64)
}

// Beeper plays a short audible tone.
type Beeper interface {
	Beep() error
}

// DefaultTTY is the controlling terminal.
const DefaultTTY = "/dev/tty"

// TTYBeeper rings the bell on the controlling terminal rather than stdout,
// which belongs to the full-screen renderer.
type TTYBeeper struct {
	Path string
}

func (b TTYBeeper) Beep() error {
	path := b.Path
	if path == "" {
		path = DefaultTTY
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	_, err = f.Write([]byte("\a"))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Notifier shows one toast at a time. A new toast cancels the pending hide
// of the previous one, so an old timer can never hide a newer toast.
type Notifier struct {
	mu      sync.Mutex
	clock   clock.Clock
	surface Surface
	beeper  Beeper
	log     *logger.Logger
	gen     uint64
	timer   clock.Timer
}

func New(c clock.Clock, s Surface, b Beeper, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{clock: c, surface: s, beeper: b, log: log}
}

// Notify shows msg for d (DefaultDuration when d <= 0).
func (n *Notifier) Notify(msg string, sev Severity, d time.Duration) {
	if d <= 0 {
		d = DefaultDuration
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	id := n.gen
	n.surface.Show(Toast{ID: id, Message: msg, Severity: sev, Until: n.clock.Now().Add(d)})

	if sev == Hazard && n.beeper != nil {
		if err := n.beeper.Beep(); err != nil {
			n.log.Debugw("beep_failed", "err", err)
		}
	}
	n.timer = n.clock.AfterFunc(d, func() { n.expire(id) })
}

func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	if id != n.gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.mu.Unlock()
	n.surface.Hide(id)
}
