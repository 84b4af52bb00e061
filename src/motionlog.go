package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Save dispatched reports to a log file.
 *
 * Description: Rather than a raw byte dump, write separated fields in
 *		CSV format for easy reading and later processing.  A new
 *		file is started whenever the date changes, so a long
 *		running device produces one file per day.
 *
 *---------------------------------------------------------------*/

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lestrrat-go/strftime"
)

const motion_log_name_fmt = "%Y-%m-%d.log"
const motion_log_time_fmt = "%H:%M:%S"

type motion_log_t struct {
	dir string

	open_fname string
	fp         *os.File
	w          *csv.Writer
}

/*-------------------------------------------------------------------
 *
 * Name:	motion_log_init
 *
 * Purpose:	Initialization at start of application.
 *
 * Inputs:	dir	- Directory for daily files.  Use "." for the
 *			  current directory.  Empty string disables the
 *			  feature entirely (returns nil, and nil methods
 *			  below are never called).
 *
 *---------------------------------------------------------------*/

func motion_log_init(dir string) *motion_log_t {
	if len(dir) == 0 {
		return nil
	}

	var stat, err = os.Stat(dir)
	if err == nil {
		if !stat.IsDir() {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Report log location \"%s\" is not a directory.\n", dir)
			am_printf("Using current working directory \".\" instead.\n")
			dir = "."
		}
	} else {
		/* Doesn't exist.  Try to create it.  Parent must exist; */
		/* we don't create multiple levels like mkdir -p. */
		if mkdirErr := os.Mkdir(dir, 0755); mkdirErr != nil {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Failed to create report log location \"%s\".\n", dir)
			am_printf("%s\n", mkdirErr)
			am_printf("Using current working directory \".\" instead.\n")
			dir = "."
		}
	}

	return &motion_log_t{dir: dir}
}

/*-------------------------------------------------------------------
 *
 * Name:	log_report
 *
 * Purpose:	Append one dispatched report, rotating to a new daily
 *		file when the date has rolled over.
 *
 * Inputs:	now	- Dispatch time.
 *		channel	- Output channel index.  0 is the combined
 *			  channel in combined mode.
 *		buttons, dx, dy, wheel - The report as sent.
 *
 *---------------------------------------------------------------*/

func (ml *motion_log_t) log_report(now time.Time, channel int, buttons uint8, dx int8, dy int8, wheel int8) {
	var fname, err = strftime.Format(motion_log_name_fmt, now)
	if err != nil {
		return
	}

	if ml.fp == nil || fname != ml.open_fname {
		if ml.fp != nil {
			ml.w.Flush()
			ml.fp.Close()
			ml.fp = nil
		}

		var full = filepath.Join(ml.dir, fname)
		var fp, openErr = os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if openErr != nil {
			text_color_set(AM_COLOR_ERROR)
			am_printf("Can't open report log file %s: %s\n", full, openErr)
			return
		}

		ml.fp = fp
		ml.w = csv.NewWriter(fp)
		ml.open_fname = fname

		var stat, statErr = fp.Stat()
		if statErr == nil && stat.Size() == 0 {
			ml.w.Write([]string{"time", "channel", "buttons", "dx", "dy", "wheel"})
		}
	}

	var ts, _ = strftime.Format(motion_log_time_fmt, now)
	ml.w.Write([]string{
		ts,
		strconv.Itoa(channel),
		strconv.Itoa(int(buttons)),
		strconv.Itoa(int(dx)),
		strconv.Itoa(int(dy)),
		strconv.Itoa(int(wheel)),
	})
	ml.w.Flush()
}

func (ml *motion_log_t) close() {
	if ml.fp != nil {
		ml.w.Flush()
		ml.fp.Close()
		ml.fp = nil
	}
}
