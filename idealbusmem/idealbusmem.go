// Package idealbusmem provides a signal-level memory endpoint with
// configurable latency and error injection. It serves the slave sides of a
// burst read bus and a burst write bus against a backing storage.
package idealbusmem

import (
	"encoding/binary"
	"log"

	"github.com/sarchlab/blockdma/bus"
	"github.com/sarchlab/blockdma/memory"
)

type readState int

const (
	readIdle readState = iota
	readBurst
)

type writeState int

const (
	writeIdle writeState = iota
	writeData
	writeResp
)

type regs struct {
	rState    readState
	rAddr     uint64
	rBeats    int
	rBeat     int
	rWait     int
	rResp     bus.Resp
	wState    writeState
	wAddr     uint64
	wBeats    int
	wBeat     int
	wWait     int
	bResp     bus.Resp
	pendBResp bus.Resp
}

type pendWrite struct {
	addr uint64
	data uint64
}

// Comp serves read and write bursts against a backing storage, accepting
// one burst at a time per direction. It never reorders and never times out.
type Comp struct {
	name    string
	storage *memory.Storage

	readBus  *bus.ReadBus
	writeBus *bus.WriteBus

	beatBytes       uint64
	addrAcceptDelay int
	errStart        uint64
	errEnd          uint64
	stalled         bool

	pendWrites []pendWrite
	cur, nxt   regs
}

// Name returns the name of the endpoint.
func (c *Comp) Name() string {
	return c.name
}

// Storage returns the backing storage.
func (c *Comp) Storage() *memory.Storage {
	return c.storage
}

// SetStalled makes the endpoint stop accepting and producing anything. A
// stalled endpoint holds every ready and valid low forever.
func (c *Comp) SetStalled(stalled bool) {
	c.stalled = stalled
}

func (c *Comp) inErrRange(addr uint64) bool {
	return addr >= c.errStart && addr < c.errEnd
}

func (c *Comp) Calc() {
	c.nxt = c.cur

	c.calcRead()
	c.calcWrite()
}

func (c *Comp) calcRead() {
	b := c.readBus
	out := bus.ReadSlaveSig{}

	if c.stalled {
		b.S.Set(out)
		return
	}

	switch c.cur.rState {
	case readIdle:
		if c.cur.rWait > 0 {
			c.nxt.rWait = c.cur.rWait - 1
			break
		}

		out.ARReady = true

		if b.AddrFired() {
			m := b.M.Get()
			c.nxt.rAddr = m.ARAddr
			c.nxt.rBeats = m.ARBeats
			c.nxt.rBeat = 0
			c.nxt.rResp = bus.RespOKAY
			c.nxt.rState = readBurst
		}
	case readBurst:
		// The beat whose handshake is detected this cycle has already
		// been accepted, so present the one after it.
		beat := c.cur.rBeat
		if b.DataFired() {
			firedAddr := c.cur.rAddr + uint64(beat)*c.beatBytes
			if c.inErrRange(firedAddr) {
				c.nxt.rResp = bus.RespSLVERR
			}

			beat++
			c.nxt.rBeat = beat

			if beat == c.cur.rBeats {
				c.nxt.rState = readIdle
				c.nxt.rWait = c.addrAcceptDelay
				break
			}
		}

		addr := c.cur.rAddr + uint64(beat)*c.beatBytes

		out.RValid = true
		out.RData = c.readWord(addr)
		out.RLast = beat == c.cur.rBeats-1
		out.RResp = c.nxt.rResp
		if c.inErrRange(addr) {
			out.RResp = bus.RespSLVERR
		}
	}

	b.S.Set(out)
}

func (c *Comp) calcWrite() {
	b := c.writeBus
	out := bus.WriteSlaveSig{}

	if c.stalled {
		b.S.Set(out)
		return
	}

	switch c.cur.wState {
	case writeIdle:
		if c.cur.wWait > 0 {
			c.nxt.wWait = c.cur.wWait - 1
			break
		}

		out.AWReady = true

		if b.AddrFired() {
			m := b.M.Get()
			c.nxt.wAddr = m.AWAddr
			c.nxt.wBeats = m.AWBeats
			c.nxt.wBeat = 0
			c.nxt.pendBResp = bus.RespOKAY
			c.nxt.wState = writeData
		}
	case writeData:
		out.WReady = true

		if b.DataFired() {
			m := b.M.Get()
			addr := c.cur.wAddr + uint64(c.cur.wBeat)*c.beatBytes

			if c.inErrRange(addr) {
				c.nxt.pendBResp = bus.RespSLVERR
			} else {
				c.pendWrites = append(c.pendWrites, pendWrite{
					addr: addr,
					data: m.WData,
				})
			}

			c.nxt.wBeat = c.cur.wBeat + 1
			if c.nxt.wBeat == c.cur.wBeats {
				c.nxt.bResp = c.nxt.pendBResp
				c.nxt.wState = writeResp
			}
		}
	case writeResp:
		out.BValid = true
		out.BResp = c.cur.bResp

		if b.RespFired() {
			c.nxt.wState = writeIdle
			c.nxt.wWait = c.addrAcceptDelay
		}
	}

	b.S.Set(out)
}

// readWord loads one beat. Beats narrower than the 64-bit data signals
// occupy the low bytes; the rest stays zero.
func (c *Comp) readWord(addr uint64) uint64 {
	data, err := c.storage.Read(addr, c.beatBytes)
	if err != nil {
		log.Panicf("memory %s: read at 0x%x: %v", c.name, addr, err)
	}

	var word [8]byte
	copy(word[:], data)

	return binary.LittleEndian.Uint64(word[:])
}

func (c *Comp) Commit() {
	for _, w := range c.pendWrites {
		var word [8]byte
		binary.LittleEndian.PutUint64(word[:], w.data)

		err := c.storage.Write(w.addr, word[:c.beatBytes])
		if err != nil {
			log.Panicf("memory %s: write at 0x%x: %v",
				c.name, w.addr, err)
		}
	}
	c.pendWrites = nil

	c.cur = c.nxt
}

func (c *Comp) Reset() {
	c.cur = regs{}
	c.nxt = regs{}
	c.pendWrites = nil
}
