package beacon

import (
	"github.com/wxbeacon/wxbeacon/internal/engine"
	"github.com/wxbeacon/wxbeacon/internal/log"
)

// Handler is the per-event entry point: calculate, encode, write. Every
// failure is caught here and logged; a failed cycle writes nothing and
// never propagates back into the engine's dispatch loop.
type Handler struct {
	calc *Calculator
	enc  *Encoder
}

// NewHandler wires a calculator and encoder into an event handler.
func NewHandler(calc *Calculator, enc *Encoder) *Handler {
	return &Handler{calc: calc, enc: enc}
}

// HandleEvent generates the beacon file for one observation event.
func (h *Handler) HandleEvent(ev engine.Event) {
	reading, err := h.calc.Calculate(ev.Record)
	if err != nil {
		log.Errorf("beacon cycle abandoned: %+v", err)
		return
	}
	if err := h.enc.Write(reading); err != nil {
		log.Errorf("beacon cycle abandoned: %+v", err)
		return
	}
	log.Debugf("wrote beacon for %s to %s", reading.Timestamp.Format("2006-01-02T15:04:05Z"), h.enc.Path())
}
