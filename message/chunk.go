package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/gr-butler/lorawx/obs"
	logger "github.com/sirupsen/logrus"
)

// Header is shared by every chunk of one observation.
type Header struct {
	Time     time.Time
	Station  int
	DeviceID string
}

func (h Header) String() string {
	return fmt.Sprintf("\"at\":\"%s\",\"id\":%d,\"devid\":\"%s\",\"mtype\":\"OBS\"",
		h.Time.UTC().Format(timestampFormat), h.Station, h.DeviceID)
}

// Chunk is one radio payload's worth of observation fields.
type Chunk struct {
	Body      string   // {header,fields}
	IDs       []string // record ids carried, in order
	Oversized bool     // a single field larger than the budget
}

// Encoder splits observation sets into chunks that fit the budget.
type Encoder struct {
	Budget Budget
}

func NewEncoder(b Budget) *Encoder {
	return &Encoder{Budget: b}
}

// limit is the field space for a chunk with this header, capped so that
// header, braces and fields stay inside the payload.
func (e *Encoder) limit(header string) int {
	l := e.Budget.FieldSpace
	if room := e.Budget.Payload - len(header) - 2; room < l {
		l = room
	}
	return l
}

// Chunks renders the set in record order. A chunk is flushed when the next
// field would overrun the budget, so every chunk fits except one holding a
// single oversized field. Empty chunks are never produced.
func (e *Encoder) Chunks(h Header, set *obs.Set) ([]Chunk, error) {
	if !set.Active {
		return nil, ErrInactiveSet
	}
	header := h.String()
	if len(header) > e.Budget.HeaderReserve {
		logger.Warnf("Observation header [%v] bytes is over the reserve [%v]", len(header), e.Budget.HeaderReserve)
	}
	limit := e.limit(header)

	var chunks []Chunk
	var body strings.Builder
	var ids []string
	used := 0

	flush := func() {
		if used == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Body:      "{" + header + body.String() + "}",
			IDs:       ids,
			Oversized: used > limit,
		})
		body.Reset()
		ids = nil
		used = 0
	}

	for _, r := range set.Records {
		field := r.Encode()
		if used > 0 && used+len(field) > limit {
			flush()
		}
		body.WriteString(field)
		ids = append(ids, r.ID)
		used += len(field)
	}
	flush()
	return chunks, nil
}

// Full renders the whole set unchunked, for the observation log.
func (e *Encoder) Full(h Header, set *obs.Set) string {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(h.String())
	for _, r := range set.Records {
		b.WriteString(r.Encode())
	}
	b.WriteString("}")
	return b.String()
}

// InfoBody renders the boot information message.
func InfoBody(h Header, i obs.Info) string {
	return fmt.Sprintf("{\"at\":\"%s\",\"id\":%d,\"devid\":\"%s\","+
		"\"ver\":\"%s\",\"bv\":%.2f,\"hth\":%d,"+
		"\"obsi\":\"%dm\",\"obsti\":\"%dm\",\"t2nt\":\"%ds\","+
		"\"sensors\":\"%s\"}",
		i.Time.UTC().Format(timestampFormat), h.Station, h.DeviceID,
		i.Version, i.Battery, i.Status,
		i.Period, i.Period, i.SecondsToNext,
		strings.Join(i.Sensors, ","))
}
