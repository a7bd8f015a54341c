package totals

import (
	"encoding/binary"
	"math"
)

// RecordSize is the stored layout: four float32 totals, the modification
// time and the checksum, little endian.
const RecordSize = 24

// Record holds today and prior rain totals for both gauges.
type Record struct {
	Today    [2]float32
	Prior    [2]float32
	Modified uint32 // unix seconds
	Checksum uint32
}

func (r Record) marshal() []byte {
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(r.Today[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(r.Prior[0]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(r.Today[1]))
	binary.LittleEndian.PutUint32(b[12:], math.Float32bits(r.Prior[1]))
	binary.LittleEndian.PutUint32(b[16:], r.Modified)
	binary.LittleEndian.PutUint32(b[20:], r.Checksum)
	return b
}

func unmarshal(b []byte) Record {
	return Record{
		Today: [2]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
		},
		Prior: [2]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[12:])),
		},
		Modified: binary.LittleEndian.Uint32(b[16:]),
		Checksum: binary.LittleEndian.Uint32(b[20:]),
	}
}

// checksum sums every stored byte ahead of the checksum field, so any
// single byte change is caught.
func (r Record) checksum() uint32 {
	var sum uint32
	for _, c := range r.marshal()[:RecordSize-4] {
		sum += uint32(c)
	}
	// an erased part (all 0x00) must not validate
	return sum ^ 0xA5A5A5A5
}

func (r *Record) seal() {
	r.Checksum = r.checksum()
}

func (r Record) valid() bool {
	if r.Checksum != r.checksum() {
		return false
	}
	for i := 0; i < 2; i++ {
		for _, v := range []float32{r.Today[i], r.Prior[i]} {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
				return false
			}
		}
	}
	return true
}
