package ampmouse

/*
 * Shared fakes for the collaborator contracts: storage medium, pin
 * bank, and output channel.
 */

import (
	"time"
)

/* In-memory storage medium with call accounting. */

type mem_storage_t struct {
	region []byte

	in_exclusive     bool
	erase_calls      int
	program_calls    int
	erase_exclusive  bool /* erase happened inside exclusive() */
	program_exclusive bool
}

func mem_storage_new() *mem_storage_t {
	var region = make([]byte, STORAGE_REGION_LEN)
	for i := range region {
		region[i] = 0xFF
	}
	return &mem_storage_t{region: region}
}

func (ms *mem_storage_t) read_region() []byte {
	var out = make([]byte, len(ms.region))
	copy(out, ms.region)
	return out
}

func (ms *mem_storage_t) erase_region() bool {
	ms.erase_calls++
	ms.erase_exclusive = ms.in_exclusive
	for i := range ms.region {
		ms.region[i] = 0xFF
	}
	return true
}

func (ms *mem_storage_t) program_region(data []byte) bool {
	ms.program_calls++
	ms.program_exclusive = ms.in_exclusive
	copy(ms.region, data)
	return true
}

func (ms *mem_storage_t) exclusive(fn func()) {
	ms.in_exclusive = true
	fn()
	ms.in_exclusive = false
}

/* Pin bank backed by a level map.  Unset pins read low. */

type mock_pin_bank_t struct {
	levels map[uint8]bool
}

func mock_pin_bank_new() *mock_pin_bank_t {
	return &mock_pin_bank_t{levels: make(map[uint8]bool)}
}

func (b *mock_pin_bank_t) digital_read(pin uint8) bool {
	return b.levels[pin]
}

/* Drive one axis of one source to a packed 2-bit (A,B) state. */

func (b *mock_pin_bank_t) set_ab(pin_map [MAX_MICE][4]uint8, source int, axis int, ab uint8) {
	var pin_a = pin_map[source][axis*2]
	var pin_b = pin_map[source][axis*2+1]
	b.levels[pin_a] = ab&1 != 0
	b.levels[pin_b] = ab&2 != 0
}

/* Output channel that records what it was sent. */

type sent_report_t struct {
	buttons uint8
	dx      int8
	dy      int8
	wheel   int8
	pan     int8
}

type mock_sink_t struct {
	is_ready bool
	accept   bool
	sent     []sent_report_t
}

func mock_sink_new() *mock_sink_t {
	return &mock_sink_t{is_ready: true, accept: true}
}

func (s *mock_sink_t) ready() bool {
	return s.is_ready
}

func (s *mock_sink_t) send(buttons uint8, dx int8, dy int8, wheel int8, pan int8) bool {
	if !s.accept {
		return false
	}
	s.sent = append(s.sent, sent_report_t{buttons, dx, dy, wheel, pan})
	return true
}

/* Aggregator wired to fakes.  Settings go through the normal init */
/* path so they arrive clamped. */

func test_aggregator(defaults settings_t, storage nv_storage, pins pin_bank, sinks [MAX_MICE]report_sink) *aggregator_t {
	var store = settings_init(storage, defaults)
	return aggregator_new(store, pins, default_quad_pins, sinks, 2*time.Millisecond, nil)
}

/* Forward gray sequence for one encoder channel.  Each adjacent */
/* transition decodes as +1; traversing it backwards gives -1 steps. */

var gray_cycle = [4]uint8{0b00, 0b01, 0b11, 0b10}
