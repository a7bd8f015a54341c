package obs

import (
	"errors"
	"fmt"
	"time"

	"github.com/gr-butler/lorawx/env"
)

var (
	ErrSetFull   = errors.New("observation set full")
	ErrIDTooLong = errors.New("observation id too long")
)

type Kind int

const (
	Float Kind = iota
	Int
	Uint
)

// Record is one named value in an observation.
type Record struct {
	ID   string
	Kind Kind
	F    float64
	I    int64
	U    uint64
}

func FloatRecord(id string, v float64) Record { return Record{ID: id, Kind: Float, F: v} }
func IntRecord(id string, v int64) Record     { return Record{ID: id, Kind: Int, I: v} }
func UintRecord(id string, v uint64) Record   { return Record{ID: id, Kind: Uint, U: v} }

// Encode renders the record as `,"id":value`, floats to one decimal place.
func (r Record) Encode() string {
	switch r.Kind {
	case Int:
		return fmt.Sprintf(",\"%s\":%d", r.ID, r.I)
	case Uint:
		return fmt.Sprintf(",\"%s\":%d", r.ID, r.U)
	default:
		return fmt.Sprintf(",\"%s\":%.1f", r.ID, r.F)
	}
}

// Set is the ordered output of one observation cycle.
type Set struct {
	Time    time.Time
	Active  bool
	Records []Record
}

func NewSet(ts time.Time) *Set {
	return &Set{
		Time:    ts,
		Active:  true,
		Records: make([]Record, 0, env.MaxObservations),
	}
}

func (s *Set) Add(r Record) error {
	if len(r.ID) > env.MaxRecordID {
		return fmt.Errorf("%w: %q", ErrIDTooLong, r.ID)
	}
	if len(s.Records) >= env.MaxObservations {
		return ErrSetFull
	}
	s.Records = append(s.Records, r)
	return nil
}

// Clear drops the records once the set has been sent.
func (s *Set) Clear() {
	s.Records = s.Records[:0]
	s.Active = false
}

// Get returns the record with the given id.
func (s *Set) Get(id string) (Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func (s *Set) IDs() []string {
	ids := make([]string, len(s.Records))
	for i, r := range s.Records {
		ids[i] = r.ID
	}
	return ids
}
