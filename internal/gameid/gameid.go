// Package gameid mints round identifiers. An ID is a UUIDv7 rendered in
// lowercase Crockford base32, so IDs sort by creation time.
package gameid

import (
	crand "crypto/rand"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Crockford's base32 without i, l, o, u
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID. 26 characters carry 130 bits; the top two are zero.
const Length = 26

// Generator hands out round IDs that are strictly increasing for the life of
// the generator, even when several are minted in the same millisecond.
type Generator struct {
	mu     sync.Mutex
	clock  quartz.Clock
	rng    *rand.Rand
	lastMS int64
	seq    uint16
}

// NewGenerator creates a generator. A nil clock uses the wall clock and a nil
// rng uses crypto/rand for the random tail.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// Next returns a new ID.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock.Now().UnixMilli()
	if ms <= g.lastMS {
		// Same (or earlier) millisecond: bump the 12-bit sequence so order holds
		g.seq++
		if g.seq > 0x0fff {
			g.lastMS++
			g.seq = 0
		}
		ms = g.lastMS
	} else {
		g.lastMS = ms
		g.seq = 0
	}

	var id [16]byte
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	g.fill(id[8:])

	// version 7 + sequence in rand_a, variant 10
	id[6] = 0x70 | byte(g.seq>>8)
	id[7] = byte(g.seq)
	id[8] = (id[8] & 0x3f) | 0x80

	return encode(id)
}

func (g *Generator) fill(b []byte) {
	if g.rng == nil {
		if _, err := crand.Read(b); err != nil {
			panic("gameid: crypto/rand failed: " + err.Error())
		}
		return
	}
	for i := range b {
		b[i] = byte(g.rng.Uint32())
	}
}

// encode writes the 128 bits as 26 base32 digits, most significant first
func encode(id [16]byte) string {
	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		// digit i covers bits [5i-2, 5i+3) of the 128-bit value
		var v uint8
		for b := 5*i - 2; b < 5*i+3; b++ {
			v <<= 1
			if b >= 0 && id[b/8]&(0x80>>(b%8)) != 0 {
				v |= 1
			}
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

func decode(s string) ([16]byte, error) {
	var id [16]byte
	if err := Validate(s); err != nil {
		return id, err
	}
	for i := 0; i < Length; i++ {
		v := strings.IndexByte(alphabet, s[i])
		for k := 0; k < 5; k++ {
			b := 5*i - 2 + k
			if b >= 0 && v&(0x10>>k) != 0 {
				id[b/8] |= 0x80 >> (b % 8)
			}
		}
	}
	return id, nil
}

// Time extracts the creation time encoded in an ID.
func Time(s string) (time.Time, error) {
	id, err := decode(s)
	if err != nil {
		return time.Time{}, err
	}
	var ms int64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | int64(id[i])
	}
	return time.UnixMilli(ms), nil
}

// Validate checks that s is a well-formed ID.
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(s))
	}
	if s[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", s[0])
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
	}
	return nil
}
