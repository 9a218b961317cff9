package world

import (
	"colonyforge.ai/internal/protocol"
	"colonyforge.ai/internal/sim/world/kernel/model"
)

func (w *World) applyAct(actorID string, act protocol.ActMsg, nowTick uint64) {
	// Staleness check: accept only [now-2, now].
	if act.Tick+2 < nowTick || act.Tick > nowTick {
		w.sendResult(actorID, actionResult(nowTick, "ACT", false, protocol.ErrStale, "act tick out of range"))
		return
	}
	for _, cmd := range act.Commands {
		w.applyCommand(actorID, cmd, nowTick)
	}
}

func (w *World) applyCommand(actorID string, cmd protocol.CommandReq, nowTick uint64) {
	h := commandDispatch[cmd.Type]
	if h == nil {
		w.sendResult(actorID, actionResult(nowTick, cmd.ID, false, protocol.ErrBadRequest, "unknown command type"))
		return
	}
	code, msg := h(w, actorID, cmd, nowTick)
	w.sendResult(actorID, actionResult(nowTick, cmd.ID, code == "", code, msg))
}

// sendResult delivers a command result to whoever issued it.
func (w *World) sendResult(actorID string, ev protocol.Event) {
	if wk := w.workers[actorID]; wk != nil {
		wk.AddEvent(ev)
		return
	}
	if _, ok := w.clients[actorID]; ok {
		w.clientEvents[actorID] = append(w.clientEvents[actorID], ev)
	}
}

func actionResult(tick uint64, ref string, ok bool, code string, message string) protocol.Event {
	if code != "" && !protocol.IsKnownCode(code) {
		code = protocol.ErrInternal
		if message == "" {
			message = "unknown error code"
		}
	}
	e := protocol.Event{
		"t":    tick,
		"type": "ACTION_RESULT",
		"ref":  ref,
		"ok":   ok,
	}
	if code != "" {
		e["code"] = code
	}
	if message != "" {
		e["message"] = message
	}
	return e
}

// commandHandler returns an error code ("" for success) and an optional
// human-readable message.
type commandHandler func(w *World, actorID string, cmd protocol.CommandReq, nowTick uint64) (string, string)

var commandDispatch = map[string]commandHandler{
	protocol.CmdPlace:        handleCmdPlace,
	protocol.CmdDemolish:     handleCmdDemolish,
	protocol.CmdQueueAdd:     handleCmdQueueAdd,
	protocol.CmdQueueRemove:  handleCmdQueueRemove,
	protocol.CmdPlant:        handleCmdPlant,
	protocol.CmdAssign:       handleCmdAssign,
	protocol.CmdRelease:      handleCmdRelease,
	protocol.CmdCancelWork:   handleCmdCancelWork,
	protocol.CmdPickup:       handleCmdPickup,
	protocol.CmdGiveUpDrop:   handleCmdGiveUpDrop,
	protocol.CmdSetAuto:      handleCmdSetAuto,
	protocol.CmdPlayerAssign: handleCmdPlayerAssign,
}

// workerFor resolves commands that only make sense for a worker connection.
func (w *World) workerFor(actorID string) *model.Worker {
	return w.workers[actorID]
}
