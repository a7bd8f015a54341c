package totals

import (
	"errors"
	"os"
	"time"

	"periph.io/x/conn/v3/i2c"
)

const (
	pageSize  = 32
	writeTime = 5 * time.Millisecond
	capacity  = 4096 // 24LC32
)

var ErrOutOfRange = errors.New("eeprom address out of range")

// OpenFile opens (creating when needed) a file backed EEPROM image. A new
// image is filled with 0xFF like an erased part.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.Size() < RecordSize {
		blank := make([]byte, RecordSize)
		for i := range blank {
			blank[i] = 0xFF
		}
		if _, err := f.WriteAt(blank, 0); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// I2CEEPROM is a 24LC32 style part addressed with two address bytes.
type I2CEEPROM struct {
	dev *i2c.Dev
}

func NewI2CEEPROM(bus i2c.Bus, addr uint16) *I2CEEPROM {
	return &I2CEEPROM{dev: &i2c.Dev{Addr: addr, Bus: bus}}
}

func (e *I2CEEPROM) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > capacity {
		return 0, ErrOutOfRange
	}
	if err := e.dev.Tx([]byte{byte(off >> 8), byte(off)}, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteAt splits the write on page boundaries and waits out each write cycle.
func (e *I2CEEPROM) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > capacity {
		return 0, ErrOutOfRange
	}
	written := 0
	for written < len(p) {
		addr := off + int64(written)
		n := pageSize - int(addr%pageSize)
		if n > len(p)-written {
			n = len(p) - written
		}
		buf := make([]byte, 0, n+2)
		buf = append(buf, byte(addr>>8), byte(addr))
		buf = append(buf, p[written:written+n]...)
		if err := e.dev.Tx(buf, nil); err != nil {
			return written, err
		}
		time.Sleep(writeTime)
		written += n
	}
	return written, nil
}
