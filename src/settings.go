package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Validated runtime settings with optional persistence.
 *
 * Description:	Settings start from compiled defaults, may be overridden
 *		by a boot configuration file, and finally by a record
 *		loaded from non-volatile storage if its magic tag and
 *		checksum both check out.  Anything less than a fully
 *		valid record is silently ignored.
 *
 *		Every mutation runs the full clamp pass over every field,
 *		so no caller can ever observe an out-of-range value.
 *
 * Record:	4 byte ASCII magic "AMCF"
 *		8 byte payload:  num_mice, logic_mode, input_mode,
 *				 amplify_x100, quad_scale lo, quad_scale hi,
 *				 reserved, reserved
 *		1 byte CRC-8 over the payload only.
 *
 *		output_mode is deliberately not persisted.  The output
 *		topology is a boot-time decision.
 *
 *---------------------------------------------------------------*/

const SETTINGS_NUM_MICE_MIN = 2
const SETTINGS_NUM_MICE_MAX = MAX_MICE

/* Combination algebra.  See combine.go for exact semantics. */

const (
	LOGIC_SUM uint8 = iota
	LOGIC_AVERAGE
	LOGIC_MAX
	LOGIC_2_MIN
	LOGIC_2_AND
	LOGIC_2_OR
	LOGIC_2_XOR
	LOGIC_2_NAND
	LOGIC_2_NOR
	LOGIC_2_XNOR
)

const (
	INPUT_UART uint8 = iota
	INPUT_QUADRATURE
	INPUT_BOTH
)

const (
	OUTPUT_COMBINED uint8 = iota /* single combined channel */
	OUTPUT_SEPARATE              /* one channel per source */
)

const AMPLIFY_MIN = 0.1
const AMPLIFY_MAX = 10.0

const QUAD_SCALE_MIN = 1
const QUAD_SCALE_MAX = 1000

type settings_t struct {
	num_mice    uint8 /* 2..6 */
	logic_mode  uint8
	input_mode  uint8
	output_mode uint8
	amplify     float32
	quad_scale  uint16 /* quadrature counts per emitted delta */
}

func default_settings() settings_t {
	return settings_t{
		num_mice:    MAX_MICE,
		logic_mode:  LOGIC_SUM,
		input_mode:  INPUT_UART,
		output_mode: OUTPUT_COMBINED,
		amplify:     1.0,
		quad_scale:  2,
	}
}

/*
 * The store owns the one settings_t instance.  get() hands out value
 * copies, never a pointer, so snapshots are immutable.
 */

type settings_store_t struct {
	current settings_t
	storage nv_storage
}

func (st *settings_store_t) clamp() {
	var s = &st.current

	if s.num_mice < SETTINGS_NUM_MICE_MIN {
		s.num_mice = SETTINGS_NUM_MICE_MIN
	}
	if s.num_mice > SETTINGS_NUM_MICE_MAX {
		s.num_mice = SETTINGS_NUM_MICE_MAX
	}
	if s.logic_mode > LOGIC_2_XNOR {
		s.logic_mode = LOGIC_SUM
	}
	if s.input_mode > INPUT_BOTH {
		s.input_mode = INPUT_UART
	}
	if s.output_mode > OUTPUT_SEPARATE {
		s.output_mode = OUTPUT_COMBINED
	}
	if s.amplify < AMPLIFY_MIN {
		s.amplify = AMPLIFY_MIN
	}
	if s.amplify > AMPLIFY_MAX {
		s.amplify = AMPLIFY_MAX
	}
	if s.quad_scale < QUAD_SCALE_MIN {
		s.quad_scale = QUAD_SCALE_MIN
	}
	if s.quad_scale > QUAD_SCALE_MAX {
		s.quad_scale = QUAD_SCALE_MAX
	}
}

/*-------------------------------------------------------------------
 *
 * Name:	settings_init
 *
 * Purpose:	Build the settings store.  Called once at boot.
 *
 * Inputs:	storage	 - Non-volatile region.  nil disables persistence.
 *		defaults - Compiled (or boot-file) defaults.
 *
 * Description:	Defaults are clamped, then a persisted record is read.
 *		It replaces the defaults only when the magic tag and the
 *		payload checksum both match.  Any mismatch keeps the
 *		defaults with no error surfaced.
 *
 *-----------------------------------------------------------------*/

func settings_init(storage nv_storage, defaults settings_t) *settings_store_t {
	var st = &settings_store_t{current: defaults, storage: storage}
	st.clamp()

	if storage == nil {
		return st
	}

	var loaded, ok = settings_record_decode(storage.read_region())
	if !ok {
		return st
	}

	st.current.num_mice = loaded.num_mice
	st.current.logic_mode = loaded.logic_mode
	st.current.input_mode = loaded.input_mode
	st.current.amplify = loaded.amplify
	st.current.quad_scale = loaded.quad_scale
	/* output_mode keeps the boot-time value. */
	st.clamp()
	return st
}

func (st *settings_store_t) get() settings_t {
	return st.current
}

/* Single-field setters.  Each one reruns the full clamp pass. */

func (st *settings_store_t) set_num_mice(n uint8) {
	st.current.num_mice = n
	st.clamp()
}

func (st *settings_store_t) set_logic_mode(m uint8) {
	st.current.logic_mode = m
	st.clamp()
}

func (st *settings_store_t) set_input_mode(m uint8) {
	st.current.input_mode = m
	st.clamp()
}

func (st *settings_store_t) set_output_mode(m uint8) {
	st.current.output_mode = m
	st.clamp()
}

func (st *settings_store_t) set_amplify(a float32) {
	st.current.amplify = a
	st.clamp()
}

func (st *settings_store_t) set_quad_scale(q uint16) {
	st.current.quad_scale = q
	st.clamp()
}

/*-------------------------------------------------------------------
 *
 * Name:	apply_bulk
 *
 * Purpose:	Replace all fields at once, typically from a received
 *		configuration frame.  The replacement and the clamp are
 *		one step; no intermediate state is observable.
 *
 *-----------------------------------------------------------------*/

func (st *settings_store_t) apply_bulk(num_mice, logic_mode, input_mode, output_mode, amplify_x100 uint8, quad_scale uint16) {
	st.current = settings_t{
		num_mice:    num_mice,
		logic_mode:  logic_mode,
		input_mode:  input_mode,
		output_mode: output_mode,
		amplify:     float32(amplify_x100) / 100.0,
		quad_scale:  quad_scale,
	}
	st.clamp()
}

/*-------------------------------------------------------------------
 *
 * Name:	save
 *
 * Purpose:	Persist the current settings: erase the reserved region,
 *		then program the full record.  The sequence runs inside
 *		the storage medium's exclusive section because the medium
 *		cannot be read while it is being erased or programmed.
 *
 * Returns:	true when the erase+program sequence was issued
 *		successfully.  The write is NOT verified by re-read.
 *
 *-----------------------------------------------------------------*/

func (st *settings_store_t) save() bool {
	if st.storage == nil {
		return false
	}

	var record = settings_record_encode(st.current)

	var ok bool
	st.storage.exclusive(func() {
		ok = st.storage.erase_region() && st.storage.program_region(record)
	})
	return ok
}

/*
 * Persisted record format.
 */

const SETTINGS_MAGIC = "AMCF"
const SETTINGS_PAYLOAD_LEN = 8
const SETTINGS_RECORD_LEN = len(SETTINGS_MAGIC) + SETTINGS_PAYLOAD_LEN + 1

func settings_record_encode(s settings_t) []byte {
	var record = make([]byte, SETTINGS_RECORD_LEN)
	copy(record, SETTINGS_MAGIC)

	var payload = record[4 : 4+SETTINGS_PAYLOAD_LEN]
	payload[0] = s.num_mice
	payload[1] = s.logic_mode
	payload[2] = s.input_mode
	payload[3] = uint8(int(s.amplify*100) % 256)
	payload[4] = uint8(s.quad_scale & 0xFF)
	payload[5] = uint8(s.quad_scale >> 8)
	payload[6] = 0
	payload[7] = 0

	record[4+SETTINGS_PAYLOAD_LEN] = crc8(payload)
	return record
}

/*-------------------------------------------------------------------
 *
 * Name:	settings_record_decode
 *
 * Purpose:	Validate and unpack a persisted record.
 *
 * Returns:	Decoded (unclamped) fields and true, or false when the
 *		record is short, the magic doesn't match, or the checksum
 *		fails.  The caller clamps.
 *
 *-----------------------------------------------------------------*/

func settings_record_decode(record []byte) (settings_t, bool) {
	var s settings_t

	if len(record) < SETTINGS_RECORD_LEN {
		return s, false
	}
	if string(record[:4]) != SETTINGS_MAGIC {
		return s, false
	}

	var payload = record[4 : 4+SETTINGS_PAYLOAD_LEN]
	if crc8(payload) != record[4+SETTINGS_PAYLOAD_LEN] {
		return s, false
	}

	s.num_mice = payload[0]
	s.logic_mode = payload[1]
	s.input_mode = payload[2]
	s.amplify = float32(payload[3]) / 100.0
	s.quad_scale = uint16(payload[4]) | uint16(payload[5])<<8
	return s, true
}

/*-------------------------------------------------------------------
 *
 * Name:	crc8
 *
 * Purpose:	CRC-8 over the record payload.
 *
 *		Polynomial 0x07, initial value 0, MSB first, no input or
 *		output reflection.  Check value over "123456789" is 0xF4.
 *
 *-----------------------------------------------------------------*/

func crc8(data []byte) byte {
	var crc byte = 0
	for _, b := range data {
		crc ^= b
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
