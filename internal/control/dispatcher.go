// Package control turns user intents into backend commands.
package control

import (
	"context"
	"fmt"

	"roof_vent/internal/client"
	"roof_vent/internal/logger"
	"roof_vent/internal/models"
)

// Refresher runs a full reconciliation pass.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Dispatcher posts a command and then always refreshes, so the page reflects
// the backend's real state whatever the command's outcome was.
type Dispatcher struct {
	cmd       client.Commander
	refresher Refresher
	log       *logger.Logger
}

func NewDispatcher(cmd client.Commander, refresher Refresher, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{cmd: cmd, refresher: refresher, log: log}
}

// SendVentCommand asks the backend to open or close the vent.
func (d *Dispatcher) SendVentCommand(ctx context.Context, state models.VentState) error {
	if !state.Valid() {
		return fmt.Errorf("invalid vent command %q", state)
	}
	return d.dispatch(ctx, client.CommandVent, map[string]string{"command": string(state)})
}

// SetSimulatedHazard flips the simulated rain or smoke flag.
func (d *Dispatcher) SetSimulatedHazard(ctx context.Context, kind models.HazardKind, on bool) error {
	switch kind {
	case models.HazardRain, models.HazardSmoke:
	default:
		return fmt.Errorf("unknown hazard %q", kind)
	}
	return d.dispatch(ctx, client.HazardCommand(kind), map[string]bool{"on": on})
}

// Logout ends the backend session. No refresh follows: the session is gone.
func (d *Dispatcher) Logout(ctx context.Context) error {
	if _, err := d.cmd.PostCommand(ctx, client.CommandLogout, map[string]any{}); err != nil {
		d.log.Warnw("logout_failed", "err", err)
		return err
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, kind client.CommandKind, payload any) error {
	_, err := d.cmd.PostCommand(ctx, kind, payload)
	if err != nil {
		d.log.Warnw("command_failed", "command", string(kind), "err", err)
	} else {
		d.log.Infow("command_sent", "command", string(kind))
	}
	if rerr := d.refresher.Refresh(ctx); rerr != nil {
		d.log.Debugw("refresh_after_command_failed", "command", string(kind), "err", rerr)
	}
	return err
}
