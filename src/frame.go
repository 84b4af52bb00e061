package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Recognize motion and configuration frames on the serial
 *		byte stream.
 *
 * Description:	Two fixed-length frame types share the stream:
 *
 *		Motion frame, 15 bytes:
 *
 *			[0]	0xAA sync
 *			[1..12]	signed dx,dy pairs for all 6 source slots
 *			[13]	buttons (low 3 bits)
 *			[14]	signed wheel
 *
 *		All 6 slots are always on the wire regardless of how many
 *		sources are active; inactive slots are parsed and
 *		discarded.
 *
 *		Configuration frame, 11 bytes:
 *
 *			[0..2]	0x55 0xCF 0x01 header
 *			[3..10]	num_mice, logic_mode, input_mode,
 *				output_mode, amplify_x100, quad_scale lo,
 *				quad_scale hi, save_flag
 *
 *		frame_rec_byte consumes exactly one byte and returns, so
 *		feeding it from the tick loop never blocks, even
 *		mid-frame.  Bytes outside a frame that match neither sync
 *		are dropped.  A frame whose header goes wrong aborts back
 *		to idle and the offending byte gets one fresh look as a
 *		sync candidate, so at most one frame's worth of data is
 *		lost per corruption and the parser cannot stay
 *		desynchronized.
 *
 *		There is no timeout on a partly captured frame.  A frame
 *		cut short by a dropped byte sits until the following
 *		frame's bytes complete it (garbage, one frame lost) or a
 *		header mismatch aborts it.  Same behavior either way:
 *		bounded loss, then resync.
 *
 *---------------------------------------------------------------*/

const MOTION_SYNC = 0xAA
const MOTION_FRAME_LEN = 1 + MAX_MICE*2 + 2

const BUTTON_MASK = 0x07

const CONFIG_SYNC1 = 0x55
const CONFIG_SYNC2 = 0xCF
const CONFIG_CMD = 0x01
const CONFIG_PAYLOAD_LEN = 8
const CONFIG_FRAME_LEN = 3 + CONFIG_PAYLOAD_LEN

type frame_state_e int

const (
	FS_IDLE frame_state_e = iota /* Between frames, watching for a sync byte. */
	FS_MOTION                    /* Collecting a motion frame body. */
	FS_CONFIG_SYNC2              /* Got 0x55, expecting 0xCF. */
	FS_CONFIG_CMD                /* Got 0x55 0xCF, expecting 0x01. */
	FS_CONFIG_PAYLOAD            /* Collecting the 8 payload bytes. */
)

type frame_parser_t struct {
	state frame_state_e
	buf   [MOTION_FRAME_LEN]byte
	len   int
}

/*-------------------------------------------------------------------
 *
 * Name:	frame_rec_byte
 *
 * Purpose:	Process one byte from the serial stream.
 *
 * Inputs:	ch	- The byte.
 *
 * Outputs:	Completed motion frames land in the per-source samples.
 *		Completed configuration frames go to the settings store
 *		as one bulk update, with an optional save.
 *
 *-----------------------------------------------------------------*/

func (a *aggregator_t) frame_rec_byte(ch byte) {
	var p = &a.parser

	switch p.state {
	case FS_IDLE:
		switch ch {
		case MOTION_SYNC:
			p.buf[0] = ch
			p.len = 1
			p.state = FS_MOTION
		case CONFIG_SYNC1:
			p.state = FS_CONFIG_SYNC2
		default:
			/* Noise between frames.  Drop it. */
		}

	case FS_MOTION:
		p.buf[p.len] = ch
		p.len++
		if p.len >= MOTION_FRAME_LEN {
			p.state = FS_IDLE
			p.len = 0
			a.motion_frame_apply(p.buf[:MOTION_FRAME_LEN])
		}

	case FS_CONFIG_SYNC2:
		if ch != CONFIG_SYNC2 {
			p.state = FS_IDLE
			a.frame_rec_byte(ch) /* one fresh look as a sync candidate */
			return
		}
		p.state = FS_CONFIG_CMD

	case FS_CONFIG_CMD:
		if ch != CONFIG_CMD {
			p.state = FS_IDLE
			a.frame_rec_byte(ch)
			return
		}
		p.state = FS_CONFIG_PAYLOAD
		p.len = 0

	case FS_CONFIG_PAYLOAD:
		p.buf[p.len] = ch
		p.len++
		if p.len >= CONFIG_PAYLOAD_LEN {
			p.state = FS_IDLE
			p.len = 0
			a.config_frame_apply(p.buf[:CONFIG_PAYLOAD_LEN])
		}
	}
}

/*-------------------------------------------------------------------
 *
 * Name:	motion_frame_apply
 *
 * Purpose:	Unpack a complete motion frame into the live samples.
 *
 * Description:	Only the first num_mice dx/dy pairs are taken; the rest
 *		of the frame was parsed for length but is discarded.
 *		Buttons and wheel are broadcast to every active source
 *		and mirrored into the combined shadow so they survive
 *		combination modes that only look at dx/dy.
 *
 *-----------------------------------------------------------------*/

func (a *aggregator_t) motion_frame_apply(frame []byte) {
	var s = a.store.get()

	for i := 0; i < int(s.num_mice); i++ {
		a.mice[i].dx = int8(frame[1+i*2])
		a.mice[i].dy = int8(frame[1+i*2+1])
	}

	var buttons = frame[1+MAX_MICE*2] & BUTTON_MASK
	var wheel = int8(frame[1+MAX_MICE*2+1])

	for i := 0; i < int(s.num_mice); i++ {
		a.mice[i].buttons = buttons
		a.mice[i].wheel = wheel
	}

	a.combined_buttons = buttons
	a.combined_wheel = int16(wheel)
}

func (a *aggregator_t) config_frame_apply(payload []byte) {
	var quad_scale = uint16(payload[5]) | uint16(payload[6])<<8

	a.store.apply_bulk(payload[0], payload[1], payload[2], payload[3], payload[4], quad_scale)

	if payload[7] != 0 {
		if !a.store.save() {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Settings save requested by configuration frame failed.\n")
		}
	}
}

/*-------------------------------------------------------------------
 *
 * Name:	motion_frame_encode
 *
 * Purpose:	Build the wire form of a motion frame.  The counterpart
 *		of motion_frame_apply, used by the configuration utility
 *		and the round-trip tests.
 *
 * Inputs:	deltas	- dx,dy per source slot.  Slots beyond len(deltas)
 *			  are sent as zero.  At most MAX_MICE are used.
 *		buttons	- Button states, low 3 bits.
 *		wheel	- Signed wheel motion.
 *
 *-----------------------------------------------------------------*/

func motion_frame_encode(deltas [][2]int8, buttons uint8, wheel int8) []byte {
	var frame = make([]byte, MOTION_FRAME_LEN)
	frame[0] = MOTION_SYNC

	for i := 0; i < MAX_MICE && i < len(deltas); i++ {
		frame[1+i*2] = byte(deltas[i][0])
		frame[1+i*2+1] = byte(deltas[i][1])
	}

	frame[1+MAX_MICE*2] = buttons & BUTTON_MASK
	frame[1+MAX_MICE*2+1] = byte(wheel)
	return frame
}

func config_frame_encode(num_mice, logic_mode, input_mode, output_mode uint8,
	amplify float32, quad_scale uint16, save bool) []byte {

	var frame = make([]byte, CONFIG_FRAME_LEN)
	frame[0] = CONFIG_SYNC1
	frame[1] = CONFIG_SYNC2
	frame[2] = CONFIG_CMD
	frame[3] = num_mice
	frame[4] = logic_mode
	frame[5] = input_mode
	frame[6] = output_mode
	frame[7] = uint8(int(amplify*100) % 256)
	frame[8] = uint8(quad_scale & 0xFF)
	frame[9] = uint8(quad_scale >> 8)
	if save {
		frame[10] = 1
	}
	return frame
}
