package ampmouse

/*------------------------------------------------------------------
 *
 * Purpose:   	Non-volatile storage for the persisted settings record.
 *
 * Description:	The settings store sees a small reserved region with
 *		flash-like semantics: it must be erased as a whole before
 *		it can be programmed, and it cannot be read while either
 *		operation is in progress.  The exclusive() hook is how the
 *		store keeps everything else away for the full
 *		erase+program sequence.
 *
 *		The production implementation backs the region with an
 *		ordinary file.  Erase fills with 0xFF the way NOR flash
 *		does, which also means a never-programmed region fails the
 *		magic check and falls back to defaults for free.
 *
 *---------------------------------------------------------------*/

import (
	"os"
	"sync"
)

const STORAGE_REGION_LEN = 4096 /* one erase sector */

type nv_storage interface {

	/* Contents of the whole reserved region. */
	read_region() []byte

	/* Erase the region.  Reads are invalid until program_region. */
	erase_region() bool

	/* Program data starting at the beginning of the region. */
	program_region(data []byte) bool

	/* Run fn with exclusive access to the medium. */
	exclusive(fn func())
}

type file_storage_t struct {
	path string
	mu   sync.Mutex
}

/*-------------------------------------------------------------------
 *
 * Name:	file_storage_open
 *
 * Purpose:	Open (creating if necessary) a file-backed region.
 *
 * Inputs:	path	- Location of the region file.
 *
 * Returns:	Storage handle, or an error when the file can neither
 *		be read nor created.
 *
 *-----------------------------------------------------------------*/

func file_storage_open(path string) (*file_storage_t, error) {
	var fs = &file_storage_t{path: path}

	var _, err = os.Stat(path)
	if os.IsNotExist(err) {
		if !fs.erase_region() {
			return nil, os.ErrPermission
		}
		return fs, nil
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *file_storage_t) read_region() []byte {
	var region = make([]byte, STORAGE_REGION_LEN)
	for i := range region {
		region[i] = 0xFF
	}

	var data, err = os.ReadFile(fs.path)
	if err != nil {
		return region
	}
	copy(region, data)
	return region
}

func (fs *file_storage_t) erase_region() bool {
	var blank = make([]byte, STORAGE_REGION_LEN)
	for i := range blank {
		blank[i] = 0xFF
	}
	return os.WriteFile(fs.path, blank, 0644) == nil
}

func (fs *file_storage_t) program_region(data []byte) bool {
	var f, err = os.OpenFile(fs.path, os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	defer f.Close()

	if _, err := f.WriteAt(data, 0); err != nil {
		return false
	}
	return f.Sync() == nil
}

func (fs *file_storage_t) exclusive(fn func()) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fn()
}
