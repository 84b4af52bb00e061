package ampmouse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_file_storage_creates_erased_region(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "settings.bin")

	var fs, err = file_storage_open(path)
	assert.NoError(t, err)

	var region = fs.read_region()
	assert.Len(t, region, STORAGE_REGION_LEN)
	for i, b := range region {
		if b != 0xFF {
			t.Fatalf("byte %d is %02X, expected erased region", i, b)
		}
	}

	var data, rerr = os.ReadFile(path)
	assert.NoError(t, rerr)
	assert.Len(t, data, STORAGE_REGION_LEN)
}

func Test_file_storage_program_read_round_trip(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "settings.bin")
	var fs, err = file_storage_open(path)
	assert.NoError(t, err)

	var record = []byte{0x01, 0x02, 0x03}
	assert.True(t, fs.erase_region())
	assert.True(t, fs.program_region(record))

	var region = fs.read_region()
	assert.Equal(t, record, region[:3])
	assert.EqualValues(t, 0xFF, region[3], "rest of the region stays erased")
}

func Test_file_storage_short_file_padded(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "settings.bin")
	assert.NoError(t, os.WriteFile(path, []byte{0x41, 0x42}, 0644))

	var fs, err = file_storage_open(path)
	assert.NoError(t, err)

	var region = fs.read_region()
	assert.Len(t, region, STORAGE_REGION_LEN)
	assert.EqualValues(t, 0x41, region[0])
	assert.EqualValues(t, 0xFF, region[2])
}

func Test_settings_survive_reopen(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "settings.bin")

	var fs, err = file_storage_open(path)
	assert.NoError(t, err)

	var st = settings_init(fs, default_settings())
	st.set_num_mice(4)
	st.set_amplify(2.5)
	assert.True(t, st.save())

	/* Fresh handle, as after a restart. */
	var fs2, err2 = file_storage_open(path)
	assert.NoError(t, err2)

	var st2 = settings_init(fs2, default_settings())
	var s = st2.get()
	assert.EqualValues(t, 4, s.num_mice)
	assert.InDelta(t, 2.5, float64(s.amplify), 1e-6)
}
