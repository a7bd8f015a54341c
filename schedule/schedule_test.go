package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SecondsToNext(t *testing.T) {
	tests := []struct {
		name   string
		period int
		now    int64
		early  int
		want   int
	}{
		{"early start", 15, 0, 60, 840},
		{"inside pre roll", 15, 890, 60, 10},
		{"no early", 15, 0, 0, 900},
		{"exactly early", 15, 840, 60, 60},
		{"5 min", 5, 1000, 0, 200},
		{"zero period uses 15", 0, 0, 0, 900},
		{"negative period uses 15", -10, 60, 0, 840},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SecondsToNext(tt.period, tt.now, tt.early))
		})
	}
}

func Test_CoercePeriod(t *testing.T) {
	for _, p := range []int{5, 6, 10, 15, 20, 30} {
		assert.Equal(t, p, CoercePeriod(p))
	}
	for _, p := range []int{0, 1, 7, 60, -5} {
		assert.Equal(t, 15, CoercePeriod(p))
	}
}

func Test_EarlyStart(t *testing.T) {
	assert.Equal(t, 0, EarlyStart(false, false, false))
	assert.Equal(t, 60, EarlyStart(true, false, false))
	assert.Equal(t, 60, EarlyStart(false, true, false))
	assert.Equal(t, 60, EarlyStart(false, false, true))
}
