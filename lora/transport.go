package lora

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

const BlockSize = aes.BlockSize

// Transport encrypts frames and hands them to the radio. Without a radio
// every send fails straight away.
type Transport struct {
	lock   sync.Mutex
	radio  Radio
	cs     gpio.PinOut // chip select, active low
	block  cipher.Block
	seed   uint64
	ivStep uint64
	ready  bool
}

// NewTransport keys the cipher. A nil radio leaves the transport unready.
func NewTransport(radio Radio, cs gpio.PinOut, key []byte, seed uint64) (*Transport, error) {
	t := &Transport{radio: radio, cs: cs, seed: seed}
	block, err := aes.NewCipher(key)
	if err != nil {
		return t, fmt.Errorf("aes key: %w", err)
	}
	t.block = block
	t.ready = radio != nil
	return t, nil
}

// Ready reports whether the radio came up at boot.
func (t *Transport) Ready() bool {
	return t.ready
}

// Pad always adds padding, a whole block when the frame is already aligned.
// Each pad byte holds the pad length.
func Pad(frame []byte) []byte {
	n := BlockSize - len(frame)%BlockSize
	out := make([]byte, len(frame)+n)
	copy(out, frame)
	for i := len(frame); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// IV repeats the 8 byte little endian counter value twice.
func IV(v uint64) []byte {
	iv := make([]byte, BlockSize)
	binary.LittleEndian.PutUint64(iv[0:], v)
	binary.LittleEndian.PutUint64(iv[8:], v)
	return iv
}

// Encrypt pads the frame and encrypts it under the next IV.
func (t *Transport) Encrypt(frame []byte) ([]byte, error) {
	if t.block == nil {
		return nil, ErrRadioNotReady
	}
	t.ivStep++
	iv := IV(t.seed + t.ivStep)
	plain := Pad(frame)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(t.block, iv).CryptBlocks(out, plain)
	return out, nil
}

// Send encrypts and transmits one frame, returning once the radio is done
// with it. Chip select is released whatever the outcome.
func (t *Transport) Send(ctx context.Context, frame []byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.ready {
		return ErrRadioNotReady
	}
	packet, err := t.Encrypt(frame)
	if err != nil {
		return err
	}
	defer t.releaseCS()

	if err := t.radio.Send(packet); err != nil {
		return fmt.Errorf("radio send: %w", err)
	}
	if err := t.radio.WaitPacketSent(ctx); err != nil {
		return fmt.Errorf("radio wait: %w", err)
	}
	logger.Debugf("Sent [%v] bytes, [%v] encrypted", len(frame), len(packet))
	return nil
}

func (t *Transport) releaseCS() {
	if t.cs == nil {
		return
	}
	if err := t.cs.Out(gpio.High); err != nil {
		logger.Errorf("Failed to release radio chip select [%v]", err)
	}
}

// Decrypt reverses Encrypt for the given IV counter value. Used by the
// gateway side and tests.
func Decrypt(key []byte, ivValue uint64, packet []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(packet) == 0 || len(packet)%BlockSize != 0 {
		return nil, fmt.Errorf("packet length %d is not a whole number of blocks", len(packet))
	}
	out := make([]byte, len(packet))
	cipher.NewCBCDecrypter(block, IV(ivValue)).CryptBlocks(out, packet)
	n := int(out[len(out)-1])
	if n == 0 || n > BlockSize || n > len(out) {
		return nil, fmt.Errorf("bad padding %d", n)
	}
	return out[:len(out)-n], nil
}
