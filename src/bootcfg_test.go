package ampmouse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func write_boot_file(t *testing.T, content string) string {
	var path = filepath.Join(t.TempDir(), "ampmouse.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_boot_config_load(t *testing.T) {
	var path = write_boot_file(t, `
serial_device: /dev/ttyAMA0
serial_baud: 57600
gpio_chip: gpiochip0
storage_path: /var/lib/ampmouse/settings.bin
hid_devices: [/dev/hidg0]
quad_pins:
  - [10, 11, 12, 13]
settings:
  num_mice: 3
  logic_mode: average
  amplify: 1.5
`)

	var bc, err = boot_config_load(path)
	assert.NoError(t, err)
	assert.Equal(t, "/dev/ttyAMA0", bc.SerialDevice)
	assert.Equal(t, 57600, bc.SerialBaud)
	assert.Equal(t, []string{"/dev/hidg0"}, bc.HidDevices)
	assert.Equal(t, 3, bc.Settings.NumMice)
}

func Test_boot_config_empty_path(t *testing.T) {
	var bc, err = boot_config_load("")
	assert.NoError(t, err)
	assert.Equal(t, default_settings(), bc.settings_defaults())
	assert.Equal(t, default_quad_pins, bc.pin_map())
}

func Test_boot_config_missing_file(t *testing.T) {
	var _, err = boot_config_load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func Test_boot_config_bad_yaml(t *testing.T) {
	var path = write_boot_file(t, "settings: [not, a, mapping")
	var _, err = boot_config_load(path)
	assert.Error(t, err)
}

func Test_settings_defaults_merge(t *testing.T) {
	var bc = boot_config_t{
		Settings: boot_settings_t{
			NumMice:   3,
			LogicMode: "max",
			Amplify:   2.5,
		},
	}

	var s = bc.settings_defaults()
	assert.EqualValues(t, 3, s.num_mice)
	assert.Equal(t, LOGIC_MAX, s.logic_mode)
	assert.InDelta(t, 2.5, float64(s.amplify), 1e-6)

	/* Unset fields keep the compiled defaults. */
	assert.Equal(t, INPUT_UART, s.input_mode)
	assert.EqualValues(t, 2, s.quad_scale)
}

func Test_settings_defaults_unknown_mode_name(t *testing.T) {
	var bc = boot_config_t{
		Settings: boot_settings_t{LogicMode: "frobnicate"},
	}

	assert.Equal(t, LOGIC_SUM, bc.settings_defaults().logic_mode)
}

func Test_pin_map_row_override(t *testing.T) {
	var bc = boot_config_t{
		QuadPins: [][]int{
			{10, 11, 12, 13},
			{7, 8}, /* malformed, keeps default */
		},
	}

	var pins = bc.pin_map()
	assert.Equal(t, [4]uint8{10, 11, 12, 13}, pins[0])
	assert.Equal(t, default_quad_pins[1], pins[1])
	assert.Equal(t, default_quad_pins[2], pins[2])
}
