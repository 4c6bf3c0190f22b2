package app

import (
	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/session"
)

// eventPresence forwards rich presence updates to the frontend, which owns
// the Discord connection.
type eventPresence struct {
	app    *App
	server string
}

func (p *eventPresence) UpdateDetails(details string) {
	p.app.Emit("presence:details", p.server, details)
}

func (p *eventPresence) Shutdown() {
	p.app.Emit("presence:shutdown", p.server)
}

// presence returns the presence sink for srv, or nil when the distribution
// or the server has no Discord settings.
func (a *App) presence(srv *distro.Server) session.Presence {
	d := a.getDistribution()
	if d == nil || d.Discord == nil || srv.Discord == nil {
		return nil
	}

	a.Emit("presence:init", d.Discord.ClientID, srv.ID, srv.Discord.ShortID)
	return &eventPresence{app: a, server: srv.ID}
}
