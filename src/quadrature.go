package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Decode quadrature encoder signals into motion deltas.
 *
 * Description:	Each source has two encoder channels (X and Y axis),
 *		each a pair of phase-shifted digital lines A and B.  We
 *		sample both lines once per tick, pack them into a 2-bit
 *		value (A = bit 0, B = bit 1), and look up the transition
 *		from the previous sample in a 16-entry table.
 *
 *		Steps accumulate per axis.  Once an accumulator reaches
 *		quad_scale counts it is converted to a report delta
 *		(truncating division) and the remainder carries over, so
 *		slow motion below the threshold is never thrown away.
 *
 *---------------------------------------------------------------*/

/* Pin roles within a source's 4-pin group. */

const (
	QUAD_PIN_XA = 0
	QUAD_PIN_XB = 1
	QUAD_PIN_YA = 2
	QUAD_PIN_YB = 3
)

/*
 * Transition table indexed by (prev << 2) | curr where prev and curr
 * are the packed 2-bit (A,B) samples.  +1 and -1 are the two rotation
 * directions.  Entries for both-bits-changed transitions are 0: those
 * can only come from sampling mid-bounce or missing a step, and
 * treating them as no motion tolerates electrical noise without any
 * error path.
 */

var quad_table = [16]int8{
	0, 1, -1, 0,
	-1, 0, 0, 1,
	1, 0, 0, -1,
	0, -1, 1, 0,
}

/*
 * Per-source decoder state.  The accumulator invariant after every
 * poll is |acc| < quad_scale; anything above that was emitted.
 */

type quad_channel_t struct {
	prev_x uint8 /* packed (A,B) at last poll */
	prev_y uint8
	acc_x  int16
	acc_y  int16
}

func (a *aggregator_t) read_ab(source int, pin_a int, pin_b int) uint8 {
	var ab uint8
	if a.pins.digital_read(a.pin_map[source][pin_a]) {
		ab |= 1
	}
	if a.pins.digital_read(a.pin_map[source][pin_b]) {
		ab |= 2
	}
	return ab
}

/*-------------------------------------------------------------------
 *
 * Name:	quadrature_init
 *
 * Purpose:	Capture the initial line state for every source and zero
 *		the accumulators, so the first poll doesn't see a phantom
 *		transition from (0,0).
 *
 *-----------------------------------------------------------------*/

func (a *aggregator_t) quadrature_init() {
	if a.pins == nil {
		return
	}

	for i := 0; i < MAX_MICE; i++ {
		a.quad[i].prev_x = a.read_ab(i, QUAD_PIN_XA, QUAD_PIN_XB)
		a.quad[i].prev_y = a.read_ab(i, QUAD_PIN_YA, QUAD_PIN_YB)
		a.quad[i].acc_x = 0
		a.quad[i].acc_y = 0
	}
}

/*-------------------------------------------------------------------
 *
 * Name:	quadrature_poll
 *
 * Purpose:	Sample every active source once, decode one transition
 *		per axis, and fold completed steps into the pending
 *		samples.
 *
 *-----------------------------------------------------------------*/

func (a *aggregator_t) quadrature_poll() {
	if a.pins == nil {
		return
	}

	var s = a.store.get()

	for i := 0; i < int(s.num_mice); i++ {
		var q = &a.quad[i]

		var x_ab = a.read_ab(i, QUAD_PIN_XA, QUAD_PIN_XB)
		var y_ab = a.read_ab(i, QUAD_PIN_YA, QUAD_PIN_YB)

		q.acc_x += int16(quad_table[(q.prev_x<<2)|x_ab])
		q.acc_y += int16(quad_table[(q.prev_y<<2)|y_ab])
		q.prev_x = x_ab
		q.prev_y = y_ab

		var dx, dy = quad_emit(q, int16(s.quad_scale))
		if dx != 0 || dy != 0 {
			a.mice[i].dx = sat_add8(a.mice[i].dx, int32(dx))
			a.mice[i].dy = sat_add8(a.mice[i].dy, int32(dy))
		}
	}
}

/*-------------------------------------------------------------------
 *
 * Name:	quad_emit
 *
 * Purpose:	Convert accumulated counts to report deltas.
 *
 * Inputs:	q	- Decoder state.  Accumulators are reduced to the
 *			  post-division remainder.
 *		scale	- Counts per emitted delta.  0 disables decoding
 *			  for this call (divide guard, not an error).
 *
 * Returns:	Deltas for X and Y.  Division truncates toward zero for
 *		both signs, and the remainder keeps the sign of the
 *		accumulator, so no motion is lost across calls.
 *
 *-----------------------------------------------------------------*/

func quad_emit(q *quad_channel_t, scale int16) (int16, int16) {
	if scale == 0 {
		return 0, 0
	}

	var dx, dy int16
	if q.acc_x >= scale || q.acc_x <= -scale {
		dx = q.acc_x / scale
		q.acc_x = q.acc_x % scale
	}
	if q.acc_y >= scale || q.acc_y <= -scale {
		dy = q.acc_y / scale
		q.acc_y = q.acc_y % scale
	}
	return dx, dy
}

/* Add with saturation to the signed 8-bit report range. */

func sat_add8(cur int8, delta int32) int8 {
	return int8(sat8(int32(cur) + delta))
}

func sat8(v int32) int32 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return v
}
