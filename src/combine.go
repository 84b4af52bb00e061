package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Merge the active sources' motion into one value per
 *		axis, then amplify and saturate.
 *
 * Description:	The algebra is selected by settings.logic_mode and
 *		applied independently to dx and dy.  Buttons and wheel
 *		are not combined here; the frame parser broadcasts them
 *		and the combined shadow carries them through.
 *
 *		The two-source modes operate on sources 0 and 1 only,
 *		whatever num_mice says.  Higher slots simply don't
 *		participate in those modes.
 *
 *---------------------------------------------------------------*/

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

/*-------------------------------------------------------------------
 *
 * Name:	combine_axis
 *
 * Purpose:	Apply one combination mode to one axis.
 *
 * Inputs:	mode	- One of the LOGIC_* values.  Anything else
 *			  behaves as LOGIC_SUM.
 *		v	- Per-source deltas for this axis, active sources
 *			  only.  Always at least 2 entries (clamped
 *			  num_mice minimum).
 *
 * Returns:	The merged delta, before amplification.  Wide type so
 *		a sum of six full-scale deltas can't wrap.
 *
 *-----------------------------------------------------------------*/

func combine_axis(mode uint8, v []int8) int32 {
	var a = int32(v[0])
	var b = int32(v[1])

	switch mode {
	case LOGIC_AVERAGE:
		var sum int32
		for _, x := range v {
			sum += int32(x)
		}
		return sum / int32(len(v)) /* truncates toward zero */

	case LOGIC_MAX:
		/* Greatest magnitude wins.  Only a strictly greater */
		/* magnitude replaces, so ties keep the earliest source. */
		var best = a
		for _, x := range v[1:] {
			if abs32(int32(x)) > abs32(best) {
				best = int32(x)
			}
		}
		return best

	case LOGIC_2_MIN:
		if abs32(b) < abs32(a) {
			return b
		}
		return a /* tie favors source 0 */

	case LOGIC_2_AND:
		if a == 0 || b == 0 || (a > 0) != (b > 0) {
			return 0
		}
		if abs32(b) < abs32(a) {
			return b
		}
		return a

	case LOGIC_2_OR:
		return a + b

	case LOGIC_2_XOR:
		if a == 0 {
			return b
		}
		if b == 0 {
			return a
		}
		return a - b

	case LOGIC_2_NAND:
		if a != 0 && b != 0 {
			return 0
		}
		return a + b

	case LOGIC_2_NOR:
		return 0

	case LOGIC_2_XNOR:
		if a == 0 && b == 0 {
			return 0
		}
		if a == 0 {
			return b
		}
		if b == 0 {
			return a
		}
		if (a > 0) != (b > 0) {
			return 0
		}
		return (a + b) / 2 /* truncates toward zero */

	default: /* LOGIC_SUM and anything unrecognized */
		var sum int32
		for _, x := range v {
			sum += int32(x)
		}
		return sum
	}
}

/*-------------------------------------------------------------------
 *
 * Name:	aggregate_and_amplify
 *
 * Purpose:	Produce the combined output from the pending samples:
 *		combine each axis, scale by the amplify factor, saturate
 *		to the report range, and raise has_report when there is
 *		anything worth sending.
 *
 *-----------------------------------------------------------------*/

func (a *aggregator_t) aggregate_and_amplify() {
	var s = a.store.get()
	var n = int(s.num_mice)

	var xs, ys [MAX_MICE]int8
	for i := 0; i < n; i++ {
		xs[i] = a.mice[i].dx
		ys[i] = a.mice[i].dy
	}

	var dx = combine_axis(s.logic_mode, xs[:n])
	var dy = combine_axis(s.logic_mode, ys[:n])

	/* float conversion truncates toward zero, same as the scaling */
	/* division in the decoder */
	dx = sat8(int32(float32(dx) * s.amplify))
	dy = sat8(int32(float32(dy) * s.amplify))

	a.combined_dx = int16(dx)
	a.combined_dy = int16(dy)
	a.has_report = dx != 0 || dy != 0 || a.combined_wheel != 0 || a.combined_buttons != 0
}
