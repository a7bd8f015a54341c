package totals

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
)

var ErrNotLoaded = errors.New("totals store not loaded")

// EEPROM is the non-volatile memory holding the record at offset 0.
type EEPROM interface {
	io.ReaderAt
	io.WriterAt
}

// Store keeps the rain totals in step with the EEPROM copy.
type Store struct {
	lock   sync.Mutex
	dev    EEPROM
	rec    Record
	loaded bool
	fault  bool
}

func NewStore(dev EEPROM) *Store {
	return &Store{dev: dev}
}

// Load reads and checks the stored record. A bad checksum is not an error:
// the totals restart from zero and Fault reports true. Errors are returned
// only when the device can not be read or written.
func (s *Store) Load(now time.Time) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	b := make([]byte, RecordSize)
	if _, err := s.dev.ReadAt(b, 0); err != nil {
		return fmt.Errorf("eeprom read: %w", err)
	}
	s.loaded = true
	s.rec = unmarshal(b)
	if s.rec.valid() {
		logger.Infof("EEPROM totals valid [%+v]", s.rec)
		return nil
	}

	logger.Warnf("EEPROM checksum invalid, clearing rain totals [%x]", b)
	s.fault = true
	s.rec = Record{Modified: uint32(now.Unix())}
	return s.write()
}

// Loaded reports whether the EEPROM is present and has been read.
func (s *Store) Loaded() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.loaded
}

// Fault is set when the record failed its checksum at load.
func (s *Store) Fault() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fault
}

// Totals returns today and prior for gauge 0 or 1.
func (s *Store) Totals(gauge int) (today, prior float64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return float64(s.rec.Today[gauge]), float64(s.rec.Prior[gauge])
}

func (s *Store) Record() Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.rec
}

// Update adds this cycle's rain to today's totals. On the first update of a
// new day today's totals move to prior first. Negative increments (QC
// sentinels) add nothing.
func (s *Store) Update(now time.Time, inc [2]float64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	if !sameDay(time.Unix(int64(s.rec.Modified), 0), now) {
		logger.Infof("New day, rolling rain totals [%v] [%v]", s.rec.Today[0], s.rec.Today[1])
		s.rec.Prior = s.rec.Today
		s.rec.Today = [2]float32{}
	}
	for i, v := range inc {
		if v > 0 {
			s.rec.Today[i] += float32(v)
		}
	}
	s.rec.Modified = uint32(now.Unix())
	return s.write()
}

// Clear zeroes both gauges' totals.
func (s *Store) Clear(now time.Time) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	logger.Info("Clearing rain totals")
	s.rec = Record{Modified: uint32(now.Unix())}
	return s.write()
}

// ClearIfMarked clears the totals when the marker file is present in dir and
// removes the marker.
func (s *Store) ClearIfMarked(dir, marker string, now time.Time) (bool, error) {
	path := filepath.Join(dir, marker)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	logger.Infof("Found [%v]", path)
	if err := s.Clear(now); err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		logger.Errorf("Failed to remove [%v] [%v]", path, err)
	}
	return true, nil
}

func (s *Store) write() error {
	s.rec.seal()
	if _, err := s.dev.WriteAt(s.rec.marshal(), 0); err != nil {
		return fmt.Errorf("eeprom write: %w", err)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
