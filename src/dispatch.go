package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Deliver pending motion to the output channels.
 *
 * Description:	Two policies, selected by settings.output_mode:
 *
 *		Combined - one channel (sinks[0]) carries the result of
 *		the combination engine.  A successful send clears the
 *		combined accumulator, the has_report flag, and every
 *		per-source sample, so a report is never repeated.
 *
 *		Separate - each active source's raw sample goes to its
 *		own channel.  All-zero samples are skipped, sent samples
 *		are cleared, slots beyond num_mice are never sent.
 *
 *		A minimum send interval gates when a send may happen, not
 *		whether: pending motion older than the interval goes out
 *		at the next opportunity.  There is no extra coalescing
 *		here; accumulation upstream already did that.
 *
 *---------------------------------------------------------------*/

import (
	"time"
)

const DEFAULT_SEND_INTERVAL = 2 * time.Millisecond

/*
 * Output channel contract.  Mounting, enumeration, and descriptors
 * belong to the transport behind this interface.
 */

type report_sink interface {

	/* Can the channel accept a report right now? */
	ready() bool

	/* Queue one report.  false means it was not accepted. */
	send(buttons uint8, dx int8, dy int8, wheel int8, pan int8) bool
}

func (a *aggregator_t) dispatch(now time.Time) {
	if now.Sub(a.last_send) < a.send_interval {
		return
	}

	var s = a.store.get()
	if s.output_mode == OUTPUT_SEPARATE {
		a.dispatch_separate(now, int(s.num_mice))
	} else {
		a.dispatch_combined(now)
	}
}

func (a *aggregator_t) dispatch_combined(now time.Time) {
	if !a.has_report {
		return
	}

	var sink = a.sinks[0]
	if sink == nil || !sink.ready() {
		return
	}

	var buttons = a.combined_buttons
	var dx = int8(a.combined_dx)
	var dy = int8(a.combined_dy)
	var wheel = int8(sat8(int32(a.combined_wheel)))

	if !sink.send(buttons, dx, dy, wheel, 0) {
		return
	}

	if a.mlog != nil {
		a.mlog.log_report(now, 0, buttons, dx, dy, wheel)
	}

	/* Consumed.  Buttons are state, not a delta, so the shadow keeps */
	/* them for the next report. */
	a.combined_dx = 0
	a.combined_dy = 0
	a.combined_wheel = 0
	a.has_report = false
	for i := range a.mice {
		a.mice[i] = mouse_sample_t{}
	}

	a.last_send = now
}

func (a *aggregator_t) dispatch_separate(now time.Time, num_mice int) {
	var sent = false

	for i := 0; i < num_mice; i++ {
		var m = &a.mice[i]
		if m.is_zero() {
			continue
		}

		var sink = a.sinks[i]
		if sink == nil || !sink.ready() {
			continue /* keep the sample for the next tick */
		}

		if !sink.send(m.buttons, m.dx, m.dy, m.wheel, 0) {
			continue
		}

		if a.mlog != nil {
			a.mlog.log_report(now, i, m.buttons, m.dx, m.dy, m.wheel)
		}

		*m = mouse_sample_t{}
		sent = true
	}

	if sent {
		a.last_send = now
	}
}
