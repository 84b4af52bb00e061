package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Interface to the serial configuration/motion channel,
 *		hiding operating system differences.
 *
 *---------------------------------------------------------------*/

import (
	"github.com/pkg/term"
)

/*-------------------------------------------------------------------
 *
 * Name:	serial_port_open
 *
 * Purpose:	Open serial port.
 *
 * Inputs:	devicename	- Usually /dev/tty...
 *				  Could be /dev/rfcomm0 for Bluetooth.
 *
 *		baud		- Speed.  The device side runs at 115200.
 *				  If 0, leave it alone.
 *
 * Returns: 	Handle for serial port, nil on error.
 *
 *---------------------------------------------------------------*/

func serial_port_open(devicename string, baud int) *term.Term {

	var fd, err = term.Open(devicename, term.RawMode)

	if err != nil {
		text_color_set(AM_COLOR_ERROR)
		am_printf("ERROR - Could not open serial port %s: %s.\n", devicename, err)
		return nil
	}

	switch baud {
	case 0: /* Leave it alone. */
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		fd.SetSpeed(baud)
	default:
		text_color_set(AM_COLOR_ERROR)
		am_printf("serial_port_open: Unsupported speed %d.  Using 115200.\n", baud)
		fd.SetSpeed(115200)
	}

	return fd
}

/*-------------------------------------------------------------------
 *
 * Name:	serial_port_listen
 *
 * Purpose:	Read bytes from the port on a dedicated goroutine and
 *		hand them over on a channel, so the tick loop can drain
 *		whatever has arrived without ever blocking on the port.
 *
 * Returns:	Receive channel.  Closed when the port read fails
 *		(device unplugged, port closed).
 *
 *---------------------------------------------------------------*/

func serial_port_listen(fd *term.Term) <-chan byte {
	var ch = make(chan byte, 256)

	go func() {
		defer close(ch)
		var buf = make([]byte, 64)
		for {
			var n, err = fd.Read(buf)
			if err != nil {
				return
			}
			for _, b := range buf[:n] {
				ch <- b
			}
		}
	}()

	return ch
}

/*-------------------------------------------------------------------
 *
 * Name:	serial_port_write
 *
 * Purpose:	Send bytes to the serial port.
 *
 * Returns: 	Number of bytes written, -1 on error.
 *
 *---------------------------------------------------------------*/

func serial_port_write(fd *term.Term, data []byte) int {
	if fd == nil {
		return -1
	}

	var written, err = fd.Write(data)
	if written != len(data) || err != nil {
		return -1
	}
	return written
}

func serial_port_close(fd *term.Term) {
	if fd == nil {
		return
	}
	fd.Close()
}
