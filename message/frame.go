package message

import (
	"fmt"
	"sync"
)

// Checksum is the byte sum of p, modulo 65536.
func Checksum(p []byte) uint16 {
	var sum uint16
	for _, b := range p {
		sum += uint16(b)
	}
	return sum
}

// Framer numbers and frames payloads. The send counter is shared by every
// message type and wraps at 2^32.
type Framer struct {
	Station int

	lock    sync.Mutex
	counter uint32
}

func NewFramer(station int) *Framer {
	return &Framer{Station: station}
}

// Frame builds [len, sum hi, sum lo] + "<TYPE>,<station>,<counter>,<body>".
func (f *Framer) Frame(kind string, body string) ([]byte, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	payload := fmt.Sprintf("%s,%d,%d,%s", kind, f.Station, f.counter, body)
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLong, len(payload))
	}
	f.counter++

	sum := Checksum([]byte(payload))
	frame := make([]byte, 0, HeaderSize+len(payload))
	// byte 0 counts the payload only, not the 3 header bytes. Gateways that
	// expect the whole frame length must add HeaderSize.
	frame = append(frame, byte(len(payload)), byte(sum>>8), byte(sum&0xff))
	frame = append(frame, payload...)
	return frame, nil
}

// Counter is the number the next frame will carry.
func (f *Framer) Counter() uint32 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.counter
}

// Parse checks a frame's header and returns its payload.
func Parse(frame []byte) ([]byte, error) {
	if len(frame) < HeaderSize {
		return nil, ErrShortFrame
	}
	payload := frame[HeaderSize:]
	if int(frame[0]) != len(payload) {
		return nil, ErrBadLength
	}
	sum := uint16(frame[1])<<8 | uint16(frame[2])
	if sum != Checksum(payload) {
		return nil, ErrBadChecksum
	}
	return payload, nil
}
