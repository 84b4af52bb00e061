package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Utility for configuring an attached aggregator over its
 *		serial channel.
 *
 * Description:	Builds a configuration frame from command line options
 *		and writes it to the serial port.  The device applies
 *		all fields at once and, with --save, persists them.
 *
 *		With --test-motion, also sends one motion frame carrying
 *		the given delta on source 0, handy for checking the whole
 *		path end to end.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

func AmpCfgMain() {
	var _port = pflag.StringP("port", "p", "/dev/ttyUSB0", "Serial port the aggregator is attached to.")
	var _speed = pflag.IntP("serial-speed", "s", 115200, "Serial port speed.")
	var _num_mice = pflag.Int("num-mice", MAX_MICE, "Number of active sources (2-6).")
	var _logic = pflag.String("logic", "sum", "Combination mode: sum, average, max, min2, and2, or2, xor2, nand2, nor2, xnor2.")
	var _input = pflag.String("input", "uart", "Input mode: uart, quadrature, both.")
	var _output = pflag.String("output", "combined", "Output mode: combined, separate.")
	var _amplify = pflag.Float32("amplify", 1.0, "Amplification factor (0.1-10.0, 0.01 resolution, max 2.55 on the wire).")
	var _quad_scale = pflag.Int("quad-scale", 2, "Quadrature counts per delta (1-1000).")
	var _save = pflag.Bool("save", false, "Ask the device to persist the settings.")
	var _motion = pflag.String("test-motion", "", "Also send a test motion frame, \"dx,dy\" for source 0.")
	var _dry_run = pflag.BoolP("dry-run", "n", false, "Print the frames without opening the port.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Configure an ampmouse aggregator over its serial channel.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	text_color_init(true)

	var logic, logic_ok = logic_mode_names[*_logic]
	if !logic_ok {
		text_color_set(AM_COLOR_ERROR)
		am_printf("Unknown logic mode \"%s\".\n", *_logic)
		os.Exit(1)
	}
	var input, input_ok = input_mode_names[*_input]
	if !input_ok {
		text_color_set(AM_COLOR_ERROR)
		am_printf("Unknown input mode \"%s\".\n", *_input)
		os.Exit(1)
	}
	var output, output_ok = output_mode_names[*_output]
	if !output_ok {
		text_color_set(AM_COLOR_ERROR)
		am_printf("Unknown output mode \"%s\".\n", *_output)
		os.Exit(1)
	}

	var frames [][]byte
	frames = append(frames, config_frame_encode(uint8(*_num_mice), logic, input, output,
		*_amplify, uint16(*_quad_scale), *_save))

	if len(*_motion) != 0 {
		var parts = strings.SplitN(*_motion, ",", 2)
		if len(parts) != 2 {
			text_color_set(AM_COLOR_ERROR)
			am_printf("--test-motion wants \"dx,dy\", got \"%s\".\n", *_motion)
			os.Exit(1)
		}
		var dx, dxErr = strconv.Atoi(strings.TrimSpace(parts[0]))
		var dy, dyErr = strconv.Atoi(strings.TrimSpace(parts[1]))
		if dxErr != nil || dyErr != nil || dx < -128 || dx > 127 || dy < -128 || dy > 127 {
			text_color_set(AM_COLOR_ERROR)
			am_printf("--test-motion deltas must be -128..127.\n")
			os.Exit(1)
		}
		frames = append(frames, motion_frame_encode([][2]int8{{int8(dx), int8(dy)}}, 0, 0))
	}

	for _, frame := range frames {
		text_color_set(AM_COLOR_XMIT)
		am_printf(">>>")
		for _, b := range frame {
			am_printf(" %02X", b)
		}
		am_printf("\n")
	}

	if *_dry_run {
		return
	}

	var fd = serial_port_open(*_port, *_speed)
	if fd == nil {
		os.Exit(1)
	}
	defer serial_port_close(fd)

	for _, frame := range frames {
		if serial_port_write(fd, frame) < 0 {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Write to %s failed.\n", *_port)
			os.Exit(1)
		}
	}

	text_color_set(AM_COLOR_INFO)
	am_printf("Sent %d frame(s) to %s.\n", len(frames), *_port)
}
