package handler

import (
	"strconv"
	"time"

	"github.com/pyao-go/server/internal/wire"
)

// handlePing answers the client's keepalive probe.
func (d *Deps) handlePing(sess any, r *wire.Reader) error {
	senderFor(sessionOf(sess)).Pong()
	return nil
}

// handleOnline reports how many characters are currently connected.
func (d *Deps) handleOnline(sess any, r *wire.Reader) error {
	sndr := senderFor(sessionOf(sess))
	n := len(d.Index.AllConnectedUserIDs())
	sndr.ConsoleMsg("Jugadores conectados: "+strconv.Itoa(n), 0)
	return nil
}

// handleUptime reports how long the server has been running.
func (d *Deps) handleUptime(sess any, r *wire.Reader) error {
	sndr := senderFor(sessionOf(sess))
	sndr.ConsoleMsg("Tiempo en línea: "+time.Since(d.StartTime).Round(time.Second).String(), 0)
	return nil
}

// handleAyuda sends the static command help text.
func (d *Deps) handleAyuda(sess any, r *wire.Reader) error {
	sndr := senderFor(sessionOf(sess))
	sndr.MultilineConsoleMsg([]string{
		"/ONLINE - lista de jugadores conectados",
		"/UPTIME - tiempo de actividad del servidor",
		"/SALIR - cerrar sesión",
	}, 0)
	return nil
}
