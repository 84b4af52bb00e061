package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Pseudo-terminal stand-in for the serial channel.
 *
 * Description:	When developing on a host without a wired UART, a pty
 *		pair lets another local process play the role of the
 *		device sending motion and configuration frames.  We hold
 *		the master side; the printed slave name is what the peer
 *		opens like any serial device.
 *
 *---------------------------------------------------------------*/

import (
	"os"

	"github.com/creack/pty"
)

/*-------------------------------------------------------------------
 *
 * Name:	pty_port_open
 *
 * Purpose:	Create the pty pair.
 *
 * Returns:	Master side, name of the slave side for the peer to
 *		open, error.
 *
 *---------------------------------------------------------------*/

func pty_port_open() (*os.File, string, error) {
	var master, slave, err = pty.Open()
	if err != nil {
		return nil, "", err
	}

	/* The peer opens the slave side by name.  Our copy stays open so */
	/* reads on the master don't fail while no peer is attached yet. */
	var name = slave.Name()

	text_color_set(AM_COLOR_INFO)
	am_printf("Virtual serial port available as %s\n", name)

	return master, name, nil
}

/*-------------------------------------------------------------------
 *
 * Name:	pty_port_listen
 *
 * Purpose:	Same contract as serial_port_listen, for the pty master.
 *
 *---------------------------------------------------------------*/

func pty_port_listen(master *os.File) <-chan byte {
	var ch = make(chan byte, 256)

	go func() {
		defer close(ch)
		var buf = make([]byte, 64)
		for {
			var n, err = master.Read(buf)
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
