package main

import (
	ampmouse "github.com/hexapawn/ampmouse/src"
)

func main() {
	ampmouse.AmpCfgMain()
}
