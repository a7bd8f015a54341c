package status

import "sync/atomic"

// Bits reported in the hth observation field.
const (
	PowerOn     uint32 = 0x1
	SD          uint32 = 0x2
	RTC         uint32 = 0x4
	OLED        uint32 = 0x8
	N2S         uint32 = 0x10
	FromN2S     uint32 = 0x20
	EEPROM      uint32 = 0x40
	AS5600      uint32 = 0x80
	BMX1        uint32 = 0x100
	BMX2        uint32 = 0x200
	HTU21DF     uint32 = 0x400
	SI1145      uint32 = 0x800
	MCP1        uint32 = 0x1000
	MCP2        uint32 = 0x2000
	MCP3        uint32 = 0x4000
	LoRa        uint32 = 0x8000
	SHT1        uint32 = 0x10000
	SHT2        uint32 = 0x20000
	HIH8        uint32 = 0x40000
	VLX         uint32 = 0x80000
	PM25AQI     uint32 = 0x100000
	HDC1        uint32 = 0x200000
	HDC2        uint32 = 0x400000
	BLX         uint32 = 0x800000
	LPS1        uint32 = 0x1000000
	LPS2        uint32 = 0x2000000
	TLW         uint32 = 0x4000000
	TSM         uint32 = 0x8000000
	TMSM        uint32 = 0x10000000
	powerOnMask        = PowerOn | FromN2S
)

// Bits is the station status word. Set means "at power on" for PowerOn and
// "missing or failed" for every device bit.
type Bits struct {
	v atomic.Uint32
}

func New() *Bits {
	b := &Bits{}
	b.v.Store(PowerOn)
	return b
}

func (b *Bits) Set(bit uint32) {
	for {
		old := b.v.Load()
		if b.v.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

func (b *Bits) Clear(bit uint32) {
	for {
		old := b.v.Load()
		if b.v.CompareAndSwap(old, old&^bit) {
			return
		}
	}
}

// SetTo sets bit when fault is true and clears it otherwise.
func (b *Bits) SetTo(bit uint32, fault bool) {
	if fault {
		b.Set(bit)
	} else {
		b.Clear(bit)
	}
}

func (b *Bits) Has(bit uint32) bool {
	return b.v.Load()&bit != 0
}

func (b *Bits) Value() uint32 {
	return b.v.Load()
}

// ClearPowerOn drops the power on bits once the first observation is out.
func (b *Bits) ClearPowerOn() {
	b.Clear(powerOnMask)
}
