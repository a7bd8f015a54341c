package device

import (
	"encoding/hex"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

// Serial parses the board serial, or makes a random one when s is empty.
func Serial(s string) (uuid.UUID, error) {
	if s == "" {
		id := uuid.New()
		logger.Warnf("No board serial set, using [%v]", id)
		return id, nil
	}
	return uuid.Parse(s)
}

// ID folds the 16 byte serial into 12 bytes (byte i xor byte i+4) and
// returns it as 24 hex characters.
func ID(serial uuid.UUID) string {
	var c [12]byte
	for i := range c {
		c[i] = serial[i] ^ serial[i+4]
	}
	return hex.EncodeToString(c[:])
}
