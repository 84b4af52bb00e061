package ampmouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func feed(a *aggregator_t, data []byte) {
	for _, b := range data {
		a.frame_rec_byte(b)
	}
}

func Test_motion_frame_round_trip(t *testing.T) {
	var a = test_aggregator(default_settings(), nil, nil, [MAX_MICE]report_sink{})

	var deltas = [][2]int8{{3, -2}, {5, 0}, {-128, 127}, {1, 1}, {0, -1}, {100, -100}}
	var frame = motion_frame_encode(deltas, 0x05, -3)

	assert.Len(t, frame, MOTION_FRAME_LEN)
	feed(a, frame)

	for i, d := range deltas {
		assert.Equal(t, d[0], a.mice[i].dx, "source %d dx", i)
		assert.Equal(t, d[1], a.mice[i].dy, "source %d dy", i)
		assert.EqualValues(t, 0x05, a.mice[i].buttons, "source %d buttons", i)
		assert.EqualValues(t, -3, a.mice[i].wheel, "source %d wheel", i)
	}

	assert.EqualValues(t, 0x05, a.combined_buttons)
	assert.EqualValues(t, -3, a.combined_wheel)
}

func Test_motion_frame_inactive_slots_discarded(t *testing.T) {
	var defaults = default_settings()
	defaults.num_mice = 2
	var a = test_aggregator(defaults, nil, nil, [MAX_MICE]report_sink{})

	var deltas = [][2]int8{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}, {11, 12}}
	feed(a, motion_frame_encode(deltas, 0x01, 0))

	assert.EqualValues(t, 1, a.mice[0].dx)
	assert.EqualValues(t, 3, a.mice[1].dx)

	/* Slots beyond num_mice are parsed but never written. */
	for i := 2; i < MAX_MICE; i++ {
		assert.True(t, a.mice[i].is_zero(), "slot %d should stay clear", i)
	}
}

func Test_motion_frame_button_mask(t *testing.T) {
	var a = test_aggregator(default_settings(), nil, nil, [MAX_MICE]report_sink{})

	var frame = motion_frame_encode(nil, 0, 0)
	frame[1+MAX_MICE*2] = 0xFF /* all bits on the wire */
	feed(a, frame)

	assert.EqualValues(t, 0x07, a.combined_buttons)
}

func Test_resync_after_noise(t *testing.T) {
	var a = test_aggregator(default_settings(), nil, nil, [MAX_MICE]report_sink{})

	feed(a, []byte{0x00, 0x13, 0xFE, 0x42}) /* line noise between frames */
	feed(a, motion_frame_encode([][2]int8{{7, -7}}, 0, 0))

	assert.EqualValues(t, 7, a.mice[0].dx)
	assert.EqualValues(t, -7, a.mice[0].dy)
}

func Test_config_header_abort_recovers(t *testing.T) {
	var a = test_aggregator(default_settings(), nil, nil, [MAX_MICE]report_sink{})

	/* 0x55 followed by a non-header byte aborts; the next frame is fine. */
	feed(a, []byte{CONFIG_SYNC1, 0x99})
	feed(a, motion_frame_encode([][2]int8{{4, 4}}, 0, 0))
	assert.EqualValues(t, 4, a.mice[0].dx)

	/* The aborting byte gets a fresh look: a doubled first sync byte */
	/* still lets the real header through. */
	var cfg = config_frame_encode(3, LOGIC_MAX, INPUT_UART, OUTPUT_COMBINED, 1.5, 10, false)
	feed(a, []byte{CONFIG_SYNC1})
	feed(a, cfg)

	var s = a.store.get()
	assert.EqualValues(t, 3, s.num_mice)
	assert.EqualValues(t, LOGIC_MAX, s.logic_mode)
}

func Test_config_frame_applies_and_clamps(t *testing.T) {
	var ms = mem_storage_new()
	var a = test_aggregator(default_settings(), ms, nil, [MAX_MICE]report_sink{})

	/* num_mice 9 is out of range and must come out clamped; nothing */
	/* in between is observable because the application is one bulk */
	/* update. */
	var cfg = config_frame_encode(9, LOGIC_AVERAGE, INPUT_BOTH, OUTPUT_SEPARATE, 2.0, 500, false)
	feed(a, cfg)

	var s = a.store.get()
	assert.EqualValues(t, SETTINGS_NUM_MICE_MAX, s.num_mice)
	assert.EqualValues(t, LOGIC_AVERAGE, s.logic_mode)
	assert.EqualValues(t, INPUT_BOTH, s.input_mode)
	assert.EqualValues(t, OUTPUT_SEPARATE, s.output_mode)
	assert.InDelta(t, 2.0, float64(s.amplify), 1e-6)
	assert.EqualValues(t, 500, s.quad_scale)

	/* save_flag was 0: storage untouched. */
	assert.Equal(t, 0, ms.program_calls)
}

func Test_config_frame_save_flag(t *testing.T) {
	var ms = mem_storage_new()
	var a = test_aggregator(default_settings(), ms, nil, [MAX_MICE]report_sink{})

	feed(a, config_frame_encode(4, LOGIC_SUM, INPUT_UART, OUTPUT_COMBINED, 1.0, 2, true))

	assert.Equal(t, 1, ms.erase_calls)
	assert.Equal(t, 1, ms.program_calls)

	var loaded, ok = settings_record_decode(ms.read_region())
	assert.True(t, ok)
	assert.EqualValues(t, 4, loaded.num_mice)
}

func Test_resync_property(t *testing.T) {
	/* Any amount of non-sync noise before a valid frame never */
	/* corrupts its decode. */
	rapid.Check(t, func(t *rapid.T) {
		var noise = rapid.SliceOfN(
			rapid.ByteRange(0, 255).Filter(func(b byte) bool {
				return b != MOTION_SYNC && b != CONFIG_SYNC1
			}), 0, 40).Draw(t, "noise")
		var dx = int8(rapid.IntRange(-128, 127).Draw(t, "dx"))
		var dy = int8(rapid.IntRange(-128, 127).Draw(t, "dy"))

		var a = test_aggregator(default_settings(), nil, nil, [MAX_MICE]report_sink{})

		feed(a, noise)
		feed(a, motion_frame_encode([][2]int8{{dx, dy}}, 0, 0))

		assert.Equal(t, dx, a.mice[0].dx)
		assert.Equal(t, dy, a.mice[0].dy)
	})
}

func Test_config_frame_round_trip_property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var num = uint8(rapid.IntRange(2, 6).Draw(t, "num"))
		var logic = uint8(rapid.IntRange(0, int(LOGIC_2_XNOR)).Draw(t, "logic"))
		var quad = uint16(rapid.IntRange(1, 1000).Draw(t, "quad"))
		var amp_x100 = rapid.IntRange(10, 255).Draw(t, "amp")

		var a = test_aggregator(default_settings(), nil, nil, [MAX_MICE]report_sink{})

		feed(a, config_frame_encode(num, logic, INPUT_UART, OUTPUT_COMBINED,
			float32(amp_x100)/100.0, quad, false))

		var s = a.store.get()
		assert.Equal(t, num, s.num_mice)
		assert.Equal(t, logic, s.logic_mode)
		assert.Equal(t, quad, s.quad_scale)
		assert.InDelta(t, float64(amp_x100)/100.0, float64(s.amplify), 0.011)
	})
}
