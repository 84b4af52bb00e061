package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Boot configuration file.
 *
 * Description:	A small YAML file carries the board wiring and the
 *		settings defaults.  The precedence chain at boot is:
 *
 *			compiled defaults
 *			  -> boot file overrides (this file)
 *			    -> validated persisted record
 *
 *		with the full clamp pass applied after every stage.
 *		Everything is optional; a missing file just means
 *		compiled defaults.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type boot_settings_t struct {
	/* Zero values mean "not set, keep the compiled default". */
	NumMice   int     `yaml:"num_mice"`
	LogicMode string  `yaml:"logic_mode"`
	InputMode string  `yaml:"input_mode"`
	OutputMode string `yaml:"output_mode"`
	Amplify   float32 `yaml:"amplify"`
	QuadScale int     `yaml:"quad_scale"`
}

type boot_config_t struct {
	SerialDevice string `yaml:"serial_device"`
	SerialBaud   int    `yaml:"serial_baud"`
	UsePty       bool   `yaml:"use_pty"`

	GPIOChip string  `yaml:"gpio_chip"`
	QuadPins [][]int `yaml:"quad_pins"` /* up to 6 rows of 4 */

	StoragePath string `yaml:"storage_path"`
	LogDir      string `yaml:"log_dir"`

	/* Output channel device nodes, e.g. /dev/hidg0.  One entry in */
	/* combined mode, one per source in separate mode. */
	HidDevices []string `yaml:"hid_devices"`

	Settings boot_settings_t `yaml:"settings"`
}

/* Mode names accepted in the file and on the ampcfg command line. */

var logic_mode_names = map[string]uint8{
	"sum":     LOGIC_SUM,
	"average": LOGIC_AVERAGE,
	"max":     LOGIC_MAX,
	"min2":    LOGIC_2_MIN,
	"and2":    LOGIC_2_AND,
	"or2":     LOGIC_2_OR,
	"xor2":    LOGIC_2_XOR,
	"nand2":   LOGIC_2_NAND,
	"nor2":    LOGIC_2_NOR,
	"xnor2":   LOGIC_2_XNOR,
}

var input_mode_names = map[string]uint8{
	"uart":       INPUT_UART,
	"quadrature": INPUT_QUADRATURE,
	"both":       INPUT_BOTH,
}

var output_mode_names = map[string]uint8{
	"combined": OUTPUT_COMBINED,
	"separate": OUTPUT_SEPARATE,
}

/*-------------------------------------------------------------------
 *
 * Name:	boot_config_load
 *
 * Purpose:	Read and decode the boot configuration file.
 *
 * Inputs:	path	- File location.  Empty string yields an empty
 *			  configuration with no error.
 *
 *---------------------------------------------------------------*/

func boot_config_load(path string) (boot_config_t, error) {
	var bc boot_config_t

	if len(path) == 0 {
		return bc, nil
	}

	var data, err = os.ReadFile(path)
	if err != nil {
		return bc, err
	}

	if err := yaml.Unmarshal(data, &bc); err != nil {
		return bc, fmt.Errorf("parsing %s: %w", path, err)
	}

	return bc, nil
}

/*-------------------------------------------------------------------
 *
 * Name:	settings_defaults
 *
 * Purpose:	Merge the file's settings overrides onto the compiled
 *		defaults.  Unknown mode names are left to the store's
 *		clamp pass, which falls back to the safe default.
 *
 *---------------------------------------------------------------*/

func (bc boot_config_t) settings_defaults() settings_t {
	var s = default_settings()

	if bc.Settings.NumMice != 0 {
		s.num_mice = uint8(bc.Settings.NumMice)
	}
	if len(bc.Settings.LogicMode) != 0 {
		if m, ok := logic_mode_names[bc.Settings.LogicMode]; ok {
			s.logic_mode = m
		} else {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Unknown logic_mode \"%s\" in boot configuration.  Using sum.\n", bc.Settings.LogicMode)
			s.logic_mode = LOGIC_SUM
		}
	}
	if len(bc.Settings.InputMode) != 0 {
		if m, ok := input_mode_names[bc.Settings.InputMode]; ok {
			s.input_mode = m
		} else {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Unknown input_mode \"%s\" in boot configuration.  Using uart.\n", bc.Settings.InputMode)
			s.input_mode = INPUT_UART
		}
	}
	if len(bc.Settings.OutputMode) != 0 {
		if m, ok := output_mode_names[bc.Settings.OutputMode]; ok {
			s.output_mode = m
		} else {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Unknown output_mode \"%s\" in boot configuration.  Using combined.\n", bc.Settings.OutputMode)
			s.output_mode = OUTPUT_COMBINED
		}
	}
	if bc.Settings.Amplify != 0 {
		s.amplify = bc.Settings.Amplify
	}
	if bc.Settings.QuadScale != 0 {
		s.quad_scale = uint16(bc.Settings.QuadScale)
	}

	return s
}

/*-------------------------------------------------------------------
 *
 * Name:	pin_map
 *
 * Purpose:	Resolve the quadrature pin map: file rows override the
 *		default board layout position by position.  Short or
 *		malformed rows keep the default for that source.
 *
 *---------------------------------------------------------------*/

func (bc boot_config_t) pin_map() [MAX_MICE][4]uint8 {
	var pins = default_quad_pins

	for i, row := range bc.QuadPins {
		if i >= MAX_MICE {
			break
		}
		if len(row) != 4 {
			text_color_set(AM_COLOR_ERROR)
			am_printf("quad_pins row %d must have 4 entries, has %d.  Keeping defaults.\n", i, len(row))
			continue
		}
		for j, p := range row {
			pins[i][j] = uint8(p)
		}
	}

	return pins
}
