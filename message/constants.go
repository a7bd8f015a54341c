package message

import (
	"errors"

	"github.com/gr-butler/lorawx/env"
)

const (
	TypeObservation = "LR"
	TypeInfo        = "IF"

	HeaderSize = 3
	MaxPayload = 255 // length must fit header byte 0

	timestampFormat = "2006-01-02T15:04:05"
)

// Budget is the radio payload split between the shared header and the
// observation fields. It follows the radio spreading factor and bandwidth.
type Budget struct {
	Payload       int
	HeaderReserve int
	FieldSpace    int
}

var DefaultBudget = Budget{
	Payload:       env.LoRaPayload,
	HeaderReserve: env.ObsHeaderReserve,
	FieldSpace:    env.ObsFieldSpace,
}

var (
	ErrInactiveSet  = errors.New("observation set is not active")
	ErrFrameTooLong = errors.New("payload too long for frame")
	ErrShortFrame   = errors.New("frame shorter than header")
	ErrBadLength    = errors.New("frame length mismatch")
	ErrBadChecksum  = errors.New("frame checksum mismatch")
)
