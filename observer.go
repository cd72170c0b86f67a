package jumptrace

// Observer receives classification events. All callbacks are optional and a
// nil *Observer is valid; the core never requires one.
type Observer struct {
	// OnTransition fires when a phase transition is confirmed. boundary is
	// the backdated first sample of the new phase, confirmed the sample at
	// which the confirmation run completed.
	OnTransition func(from, to Phase, boundary, confirmed int)

	// OnFallback fires when no transition was ever confirmed and the whole
	// recording is labeled with a single best-effort phase.
	OnFallback func(phase Phase)

	// OnProvisional fires when the recording ends while a confirmation run
	// is still in progress.
	OnProvisional func(to Phase, start int)
}

func (o *Observer) transition(from, to Phase, boundary, confirmed int) {
	if o != nil && o.OnTransition != nil {
		o.OnTransition(from, to, boundary, confirmed)
	}
}

func (o *Observer) fallback(phase Phase) {
	if o != nil && o.OnFallback != nil {
		o.OnFallback(phase)
	}
}

func (o *Observer) provisional(to Phase, start int) {
	if o != nil && o.OnProvisional != nil {
		o.OnProvisional(to, start)
	}
}
