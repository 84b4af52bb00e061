package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Colored console output.
 *
 * Description:	The core prints through am_printf with a color selected
 *		by text_color_set, so errors stand out on an interactive
 *		terminal but everything degrades to plain text when
 *		colors are off (e.g. output piped somewhere).
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
)

type am_color_e int

const (
	AM_COLOR_INFO  am_color_e = iota /* default */
	AM_COLOR_ERROR                   /* red */
	AM_COLOR_REC                     /* green - received frames */
	AM_COLOR_XMIT                    /* magenta - transmitted frames */
	AM_COLOR_DEBUG                   /* cyan */
)

var am_color_codes = [...]string{
	AM_COLOR_INFO:  "\033[0m",
	AM_COLOR_ERROR: "\033[31m",
	AM_COLOR_REC:   "\033[32m",
	AM_COLOR_XMIT:  "\033[35m",
	AM_COLOR_DEBUG: "\033[36m",
}

var _text_color_enabled bool

func text_color_init(enabled bool) {
	_text_color_enabled = enabled
}

func text_color_set(c am_color_e) {
	if !_text_color_enabled {
		return
	}
	if int(c) < len(am_color_codes) {
		fmt.Print(am_color_codes[c])
	}
}

func am_printf(format string, a ...any) {
	fmt.Printf(format, a...)
}
