package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Main program for the ampmouse aggregation daemon.
 *
 * Description:	Wires the collaborators together and runs the tick
 *		loop:
 *
 *			serial/pty bytes -> frame parser
 *			GPIO             -> quadrature decoder
 *			samples          -> combine -> dispatch -> HID
 *
 *		Everything interesting happens in the core; this file is
 *		flags, device opening, and the loop.
 *
 *---------------------------------------------------------------*/

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

const TICK_INTERVAL = time.Millisecond

func AmpMouseMain() {
	var _config = pflag.StringP("config", "c", "", "Boot configuration YAML file.")
	var _serial = pflag.StringP("serial", "p", "", "Serial port device for motion/configuration frames, e.g. /dev/ttyAMA0.")
	var _baud = pflag.IntP("serial-speed", "s", 115200, "Serial port speed.")
	var _use_pty = pflag.Bool("pty", false, "Use a pseudo terminal instead of a real serial port.")
	var _gpiochip = pflag.String("gpiochip", "gpiochip0", "GPIO character device for quadrature input.")
	var _storage = pflag.String("storage", "", "Settings storage file.  Empty disables persistence.")
	var _log_dir = pflag.String("log-dir", "", "Directory for daily CSV report logs.  Empty disables.")
	var _hid = pflag.StringArray("hid", nil, "Output HID gadget device, e.g. /dev/hidg0.  Repeat for separate mode.")
	var _colors = pflag.Bool("colors", true, "Colored console output.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		am_printf("%s - Multi-mouse aggregation daemon.\n", os.Args[0])
		am_printf("\n")
		am_printf("Aggregates up to %d pointing devices into one or more HID mice.\n", MAX_MICE)
		am_printf("\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	text_color_init(*_colors)

	var bc, bcErr = boot_config_load(*_config)
	if bcErr != nil {
		charmlog.Fatal("boot configuration", "err", bcErr)
	}

	/* Command line wins over the file. */
	if pflag.CommandLine.Changed("serial") {
		bc.SerialDevice = *_serial
	}
	if pflag.CommandLine.Changed("serial-speed") {
		bc.SerialBaud = *_baud
	}
	if pflag.CommandLine.Changed("pty") {
		bc.UsePty = *_use_pty
	}
	if pflag.CommandLine.Changed("gpiochip") {
		bc.GPIOChip = *_gpiochip
	}
	if pflag.CommandLine.Changed("storage") {
		bc.StoragePath = *_storage
	}
	if pflag.CommandLine.Changed("log-dir") {
		bc.LogDir = *_log_dir
	}
	if pflag.CommandLine.Changed("hid") {
		bc.HidDevices = *_hid
	}
	if bc.SerialBaud == 0 {
		bc.SerialBaud = 115200
	}
	if len(bc.GPIOChip) == 0 {
		bc.GPIOChip = "gpiochip0"
	}

	/*
	 * Settings: compiled defaults -> boot file -> persisted record.
	 */

	var storage nv_storage
	if len(bc.StoragePath) != 0 {
		var fs, err = file_storage_open(bc.StoragePath)
		if err != nil {
			charmlog.Fatal("settings storage", "path", bc.StoragePath, "err", err)
		}
		storage = fs
	}

	var store = settings_init(storage, bc.settings_defaults())
	var s = store.get()

	charmlog.Info("settings",
		"num_mice", s.num_mice,
		"logic_mode", s.logic_mode,
		"input_mode", s.input_mode,
		"output_mode", s.output_mode,
		"amplify", s.amplify,
		"quad_scale", s.quad_scale)

	/*
	 * Quadrature pins, only when the input mode polls them.
	 */

	var pins pin_bank
	var pin_map = bc.pin_map()
	var cdev *cdev_pin_bank_t

	if s.input_mode == INPUT_QUADRATURE || s.input_mode == INPUT_BOTH {
		var bank, err = cdev_pin_bank_open(bc.GPIOChip, pin_map, MAX_MICE)
		if err != nil {
			charmlog.Fatal("quadrature pins", "chip", bc.GPIOChip, "err", err)
		}
		cdev = bank
		pins = bank
		defer cdev.close()
	}

	/*
	 * Output channels.
	 */

	var sinks [MAX_MICE]report_sink
	if len(bc.HidDevices) == 0 {
		charmlog.Warn("no HID output devices configured, reports will be discarded")
		for i := range sinks {
			sinks[i] = null_sink_t{}
		}
	} else {
		for i, path := range bc.HidDevices {
			if i >= MAX_MICE {
				break
			}
			var sink, err = hidg_sink_open(path)
			if err != nil {
				charmlog.Fatal("HID output", "path", path, "err", err)
			}
			sinks[i] = sink
			defer sink.close()
		}
	}

	/*
	 * Serial (or pty) byte source.
	 */

	var bytes <-chan byte
	if bc.UsePty {
		var master, name, err = pty_port_open()
		if err != nil {
			charmlog.Fatal("pty", "err", err)
		}
		charmlog.Info("listening on pty", "device", name)
		bytes = pty_port_listen(master)
		defer master.Close()
	} else if len(bc.SerialDevice) != 0 {
		var fd = serial_port_open(bc.SerialDevice, bc.SerialBaud)
		if fd == nil {
			charmlog.Fatal("serial port", "device", bc.SerialDevice)
		}
		charmlog.Info("listening on serial port", "device", bc.SerialDevice, "baud", bc.SerialBaud)
		bytes = serial_port_listen(fd)
		defer serial_port_close(fd)
	} else if s.input_mode != INPUT_QUADRATURE {
		charmlog.Warn("input mode expects serial frames but no serial device is configured")
	}

	var mlog = motion_log_init(bc.LogDir)
	if mlog != nil {
		defer mlog.close()
	}

	var agg = aggregator_new(store, pins, pin_map, sinks, DEFAULT_SEND_INTERVAL, mlog)

	var sig = make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	charmlog.Info("running")

	var ticker = time.NewTicker(TICK_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			charmlog.Info("shutting down")
			return

		case <-ticker.C:
			/* Drain whatever arrived since the last tick, one */
			/* byte at a time through the parser. */
		drain:
			for {
				select {
				case b, ok := <-bytes:
					if !ok {
						bytes = nil
						break drain
					}
					agg.frame_rec_byte(b)
				default:
					break drain
				}
			}

			agg.tick(time.Now())
		}
	}
}
