package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"roof_vent/internal/notify"
)

type toastMsg struct{ toast notify.Toast }

type hideToastMsg struct{ id uint64 }

// Sender is the part of *tea.Program the surface needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Surface forwards notifier calls into the program's event loop. Send blocks
// until the loop reads the message, so it is done on its own goroutine.
type Surface struct {
	p Sender
}

func NewSurface(p Sender) *Surface { return &Surface{p: p} }

func (s *Surface) Show(t notify.Toast) { go s.p.Send(toastMsg{toast: t}) }

func (s *Surface) Hide(id uint64) { go s.p.Send(hideToastMsg{id: id}) }

// LateSurface lets the notifier be built before the program exists.
type LateSurface struct {
	inner *Surface
}

// Attach connects the surface to a running program.
func (l *LateSurface) Attach(p Sender) { l.inner = NewSurface(p) }

func (l *LateSurface) Show(t notify.Toast) {
	if l.inner != nil {
		l.inner.Show(t)
	}
}

func (l *LateSurface) Hide(id uint64) {
	if l.inner != nil {
		l.inner.Hide(id)
	}
}
