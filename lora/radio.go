package lora

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrRadioNotReady = errors.New("radio not initialised")
	ErrSendTimeout   = errors.New("radio send timed out")
)

// Radio is the packet radio driver.
type Radio interface {
	Send(packet []byte) error
	// WaitPacketSent blocks until the last packet has left the radio.
	WaitPacketSent(ctx context.Context) error
}

// NullRadio logs nothing and keeps every packet, for test mode and tests.
type NullRadio struct {
	mu   sync.Mutex
	sent [][]byte
}

func (n *NullRadio) Send(packet []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := make([]byte, len(packet))
	copy(p, packet)
	n.sent = append(n.sent, p)
	return nil
}

func (n *NullRadio) WaitPacketSent(ctx context.Context) error { return nil }

// Sent returns a copy of every packet handed to the radio.
func (n *NullRadio) Sent() [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([][]byte, len(n.sent))
	copy(out, n.sent)
	return out
}
