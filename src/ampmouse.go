package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Aggregate motion from multiple pointing devices into
 *		one (or several) output channels.
 *
 * Description:	Up to MAX_MICE sources contribute (dx, dy, buttons,
 *		wheel) samples.  Samples arrive either as packed frames
 *		on a serial byte stream (see frame.go) or from quadrature
 *		encoders polled on GPIO (see quadrature.go).
 *
 *		Each pass through the main loop is one "tick":
 *
 *			poll inputs -> combine -> dispatch
 *
 *		No step blocks.  Serial bytes are drained from a listen
 *		channel by the caller and pushed in one at a time with
 *		frame_rec_byte, so a partial frame never stalls the tick.
 *
 *		All per-source state lives in aggregator_t.  One instance
 *		per device; nothing here is a package global.
 *
 *---------------------------------------------------------------*/

import (
	"time"
)

/* Compiled maximum number of sources.  Storage is always sized to this. */
/* The live count, settings.num_mice, is a view length into it. */

const MAX_MICE = 6

/*
 * One source's pending sample.  Written by the frame parser (all
 * fields) and the quadrature decoder (dx/dy only).  Consumed and
 * cleared by the dispatcher.
 */

type mouse_sample_t struct {
	dx      int8
	dy      int8
	buttons uint8
	wheel   int8
}

func (m *mouse_sample_t) is_zero() bool {
	return m.dx == 0 && m.dy == 0 && m.buttons == 0 && m.wheel == 0
}

type aggregator_t struct {
	store *settings_store_t

	mice [MAX_MICE]mouse_sample_t

	/* Combined output accumulator.  Wider than the report fields */
	/* so amplification can overshoot before saturation. */

	combined_dx      int16
	combined_dy      int16
	combined_buttons uint8
	combined_wheel   int16
	has_report       bool

	quad    [MAX_MICE]quad_channel_t
	pins    pin_bank
	pin_map [MAX_MICE][4]uint8

	parser frame_parser_t

	/* sinks[0] carries the combined channel.  In separate mode, */
	/* sinks[i] carries source i. */

	sinks         [MAX_MICE]report_sink
	send_interval time.Duration
	last_send     time.Time

	mlog *motion_log_t
}

/*-------------------------------------------------------------------
 *
 * Name:	aggregator_new
 *
 * Purpose:	Create the per-device aggregation engine.
 *
 * Inputs:	store	- Settings store, already initialized.
 *		pins	- Pin bank for quadrature input.  May be nil when
 *			  the input mode never polls encoders.
 *		pin_map	- GPIO numbers, 4 per source (X_A, X_B, Y_A, Y_B).
 *		sinks	- Output channels.  Unused slots may be nil.
 *		interval - Minimum time between sends.  Zero means
 *			  DEFAULT_SEND_INTERVAL.
 *		mlog	- Optional report log.  nil disables it.
 *
 *-----------------------------------------------------------------*/

func aggregator_new(store *settings_store_t, pins pin_bank, pin_map [MAX_MICE][4]uint8,
	sinks [MAX_MICE]report_sink, interval time.Duration, mlog *motion_log_t) *aggregator_t {

	if interval <= 0 {
		interval = DEFAULT_SEND_INTERVAL
	}

	var a = &aggregator_t{
		store:         store,
		pins:          pins,
		pin_map:       pin_map,
		sinks:         sinks,
		send_interval: interval,
		mlog:          mlog,
	}

	a.inputs_reset()
	a.quadrature_init()
	return a
}

/*-------------------------------------------------------------------
 *
 * Name:	inputs_reset
 *
 * Purpose:	Clear all pending samples and the combined accumulator.
 *		Called at boot and available to tests.
 *
 *-----------------------------------------------------------------*/

func (a *aggregator_t) inputs_reset() {
	for i := range a.mice {
		a.mice[i] = mouse_sample_t{}
	}
	a.combined_dx = 0
	a.combined_dy = 0
	a.combined_buttons = 0
	a.combined_wheel = 0
	a.has_report = false
}

/*-------------------------------------------------------------------
 *
 * Name:	tick
 *
 * Purpose:	One pass of the main loop: poll encoders, combine,
 *		dispatch.  Serial bytes are fed in separately by the
 *		caller with frame_rec_byte before calling this.
 *
 * Inputs:	now	- Current time, passed in so tests can step it.
 *
 *-----------------------------------------------------------------*/

func (a *aggregator_t) tick(now time.Time) {
	var s = a.store.get()

	if s.input_mode == INPUT_QUADRATURE || s.input_mode == INPUT_BOTH {
		a.quadrature_poll()
	}

	if s.output_mode == OUTPUT_COMBINED {
		a.aggregate_and_amplify()
	}

	a.dispatch(now)
}
