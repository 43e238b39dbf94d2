package idealbusmem

import (
	"log"

	"github.com/sarchlab/blockdma/bus"
	"github.com/sarchlab/blockdma/memory"
)

// A Builder can build ideal bus memory endpoints.
type Builder struct {
	clock           *bus.Clock
	readBus         *bus.ReadBus
	writeBus        *bus.WriteBus
	storage         *memory.Storage
	capacity        uint64
	beatBytes       uint64
	addrAcceptDelay int
	errStart        uint64
	errEnd          uint64
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		capacity:  4 * (1 << 30),
		beatBytes: 8,
	}
}

// WithClock sets the clock that the endpoint registers with.
func (b Builder) WithClock(clock *bus.Clock) Builder {
	b.clock = clock
	return b
}

// WithReadBus sets the read bus whose slave side the endpoint drives.
func (b Builder) WithReadBus(rb *bus.ReadBus) Builder {
	b.readBus = rb
	return b
}

// WithWriteBus sets the write bus whose slave side the endpoint drives.
func (b Builder) WithWriteBus(wb *bus.WriteBus) Builder {
	b.writeBus = wb
	return b
}

// WithStorage sets an external storage to serve from, so that multiple
// endpoints can share one address space.
func (b Builder) WithStorage(storage *memory.Storage) Builder {
	b.storage = storage
	return b
}

// WithCapacity sets the capacity of the private storage created when no
// external storage is given.
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithBeatBytes sets how many bytes one data beat carries. Narrow beats
// ride the low bytes of the 64-bit data signals.
func (b Builder) WithBeatBytes(n uint64) Builder {
	b.beatBytes = n
	return b
}

// WithAddrAcceptDelay inserts extra idle cycles before the endpoint accepts
// the next burst address.
func (b Builder) WithAddrAcceptDelay(cycles int) Builder {
	b.addrAcceptDelay = cycles
	return b
}

// WithErrorRange makes every beat whose address falls in [start, end)
// complete with an error response.
func (b Builder) WithErrorRange(start, end uint64) Builder {
	b.errStart = start
	b.errEnd = end
	return b
}

// Build creates an endpoint with the given name.
func (b Builder) Build(name string) *Comp {
	switch b.beatBytes {
	case 1, 2, 4, 8:
	default:
		log.Panicf("unsupported beat size %d", b.beatBytes)
	}

	c := &Comp{
		name:            name,
		storage:         b.storage,
		readBus:         b.readBus,
		writeBus:        b.writeBus,
		beatBytes:       b.beatBytes,
		addrAcceptDelay: b.addrAcceptDelay,
		errStart:        b.errStart,
		errEnd:          b.errEnd,
	}

	if c.storage == nil {
		c.storage = memory.NewStorage(b.capacity)
	}

	if c.readBus == nil && c.writeBus == nil {
		log.Panic("an endpoint needs at least one bus")
	}

	if c.readBus == nil {
		c.readBus = bus.NewReadBus(b.clock)
	}

	if c.writeBus == nil {
		c.writeBus = bus.NewWriteBus(b.clock)
	}

	b.clock.AddMachine(c)

	return c
}
