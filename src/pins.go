package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Digital input pins for the quadrature decoder.
 *
 * Description:	The decoder wants one thing: the current level of a
 *		numbered pin.  The production implementation requests
 *		GPIO lines through the character device (gpiochip) with
 *		pull-up bias, which matches how the encoder outputs are
 *		wired: open switches read high, closed read low.
 *
 *		4 pins per source: X_A, X_B, Y_A, Y_B.  The default map
 *		is the reference board layout, GPIO 2 through 25.
 *
 *---------------------------------------------------------------*/

import (
	"github.com/warthog618/go-gpiocdev"
)

type pin_bank interface {
	digital_read(pin uint8) bool
}

/* Default wiring: 6 sources x (X_A, X_B, Y_A, Y_B). */

var default_quad_pins = [MAX_MICE][4]uint8{
	{2, 3, 4, 5},
	{6, 7, 8, 9},
	{10, 11, 12, 13},
	{14, 15, 16, 17},
	{18, 19, 20, 21},
	{22, 23, 24, 25},
}

type cdev_pin_bank_t struct {
	lines map[uint8]*gpiocdev.Line
}

/*-------------------------------------------------------------------
 *
 * Name:	cdev_pin_bank_open
 *
 * Purpose:	Request all quadrature lines as pulled-up inputs.
 *
 * Inputs:	chip	- GPIO chip name, e.g. "gpiochip0".
 *		pin_map	- The pins to request.
 *		sources	- How many sources are wired up.  Only their
 *			  pins are requested.
 *
 * Returns:	Pin bank, or the first request error (with any already
 *		acquired lines released).
 *
 *---------------------------------------------------------------*/

func cdev_pin_bank_open(chip string, pin_map [MAX_MICE][4]uint8, sources int) (*cdev_pin_bank_t, error) {
	var bank = &cdev_pin_bank_t{lines: make(map[uint8]*gpiocdev.Line)}

	if sources > MAX_MICE {
		sources = MAX_MICE
	}

	for i := 0; i < sources; i++ {
		for _, pin := range pin_map[i] {
			if _, dup := bank.lines[pin]; dup {
				continue
			}
			var line, err = gpiocdev.RequestLine(chip, int(pin),
				gpiocdev.AsInput, gpiocdev.WithPullUp)
			if err != nil {
				bank.close()
				return nil, err
			}
			bank.lines[pin] = line
		}
	}

	return bank, nil
}

func (b *cdev_pin_bank_t) digital_read(pin uint8) bool {
	var line = b.lines[pin]
	if line == nil {
		return false
	}
	var v, err = line.Value()
	return err == nil && v != 0
}

func (b *cdev_pin_bank_t) close() {
	for _, line := range b.lines {
		line.Close()
	}
	b.lines = nil
}
