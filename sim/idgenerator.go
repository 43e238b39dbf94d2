package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// An IDGenerator hands out unique IDs for events and messages.
type IDGenerator interface {
	Generate() string
}

var idGen struct {
	sync.Mutex
	gen IDGenerator
}

// GetIDGenerator returns the generator shared by the whole simulation. The
// default generator numbers IDs sequentially, keeping runs reproducible.
func GetIDGenerator() IDGenerator {
	idGen.Lock()
	defer idGen.Unlock()

	if idGen.gen == nil {
		idGen.gen = &sequentialIDGenerator{}
	}

	return idGen.gen
}

// UseParallelIDGenerator switches to xid-based IDs, which can be generated
// from many goroutines without contention but are not reproducible across
// runs. It must be called before the first ID is generated.
func UseParallelIDGenerator() {
	idGen.Lock()
	defer idGen.Unlock()

	if idGen.gen != nil {
		log.Panic("the ID generator is already in use")
	}

	idGen.gen = xidIDGenerator{}
}

type sequentialIDGenerator struct {
	next uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

type xidIDGenerator struct{}

func (xidIDGenerator) Generate() string {
	return xid.New().String()
}
