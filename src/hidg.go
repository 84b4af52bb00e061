package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Output channels writing to USB gadget HID devices.
 *
 * Description:	On a board configured as a USB HID gadget, each logical
 *		mouse appears to the host through a /dev/hidgN node that
 *		accepts boot-protocol mouse reports:
 *
 *			[0] buttons
 *			[1] dx
 *			[2] dy
 *			[3] wheel
 *
 *		The pan argument of the channel contract has no slot in
 *		the boot report and is dropped.  Descriptor setup and
 *		enumeration are the gadget configuration's business, not
 *		ours.
 *
 *---------------------------------------------------------------*/

import (
	"os"
)

type hidg_sink_t struct {
	f *os.File
}

func hidg_sink_open(path string) (*hidg_sink_t, error) {
	var f, err = os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return &hidg_sink_t{f: f}, nil
}

func (h *hidg_sink_t) ready() bool {
	return h.f != nil
}

func (h *hidg_sink_t) send(buttons uint8, dx int8, dy int8, wheel int8, _ int8) bool {
	if h.f == nil {
		return false
	}
	var report = []byte{buttons, byte(dx), byte(dy), byte(wheel)}
	var n, err = h.f.Write(report)
	return err == nil && n == len(report)
}

func (h *hidg_sink_t) close() {
	if h.f != nil {
		h.f.Close()
		h.f = nil
	}
}

/* Sink that accepts and discards everything.  Used when no HID device */
/* is configured and a channel slot must exist but go nowhere. */

type null_sink_t struct{}

func (null_sink_t) ready() bool { return true }

func (null_sink_t) send(_ uint8, _ int8, _ int8, _ int8, _ int8) bool { return true }
