package idealbusmem_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/blockdma/bus"
	"github.com/sarchlab/blockdma/idealbusmem"
)

// busDriver plays the master side of both buses by hand, one committed
// cycle at a time.
type busDriver struct {
	clock *bus.Clock
	rb    *bus.ReadBus
	wb    *bus.WriteBus
}

func (d *busDriver) waitReadAddrAccept(addr uint64, beats int) {
	d.rb.M.Set(bus.ReadMasterSig{
		ARValid: true,
		ARAddr:  addr,
		ARBeats: beats,
	})

	for i := 0; i < 100; i++ {
		d.clock.Tick()
		if d.rb.AddrFired() {
			return
		}
	}

	Fail("read address was not accepted")
}

func (d *busDriver) readBurst(addr uint64, beats int,
) ([]uint64, []bus.Resp) {
	d.waitReadAddrAccept(addr, beats)

	d.rb.M.Set(bus.ReadMasterSig{RReady: true})

	var words []uint64
	var resps []bus.Resp
	for i := 0; i < 100 && len(words) < beats; i++ {
		d.clock.Tick()

		if d.rb.DataFired() {
			words = append(words, d.rb.S.Get().RData)
			resps = append(resps, d.rb.S.Get().RResp)

			if d.rb.S.Get().RLast {
				break
			}
		}
	}

	d.rb.M.Set(bus.ReadMasterSig{})
	d.clock.Tick()

	return words, resps
}

func (d *busDriver) writeBurst(addr uint64, words []uint64) bus.Resp {
	d.wb.M.Set(bus.WriteMasterSig{
		AWValid: true,
		AWAddr:  addr,
		AWBeats: len(words),
	})

	accepted := false
	for i := 0; i < 100; i++ {
		d.clock.Tick()
		if d.wb.AddrFired() {
			accepted = true
			break
		}
	}
	Expect(accepted).To(BeTrue())

	// Hold each beat until its handshake fires; once the endpoint's ready
	// is up this streams one beat per cycle.
	for i, w := range words {
		d.wb.M.Set(bus.WriteMasterSig{
			WValid: true,
			WData:  w,
			WLast:  i == len(words)-1,
		})

		fired := false
		for j := 0; j < 100; j++ {
			d.clock.Tick()
			if d.wb.DataFired() {
				fired = true
				break
			}
		}
		Expect(fired).To(BeTrue())
	}

	d.wb.M.Set(bus.WriteMasterSig{BReady: true})

	for i := 0; i < 100; i++ {
		d.clock.Tick()

		if d.wb.RespFired() {
			resp := d.wb.S.Get().BResp
			d.wb.M.Set(bus.WriteMasterSig{})
			d.clock.Tick()

			return resp
		}
	}

	Fail("write response did not arrive")
	return bus.RespSLVERR
}

var _ = Describe("Comp", func() {
	var (
		clock *bus.Clock
		mem   *idealbusmem.Comp
		d     *busDriver
	)

	build := func(b idealbusmem.Builder) {
		clock = bus.NewClock()
		rb := bus.NewReadBus(clock)
		wb := bus.NewWriteBus(clock)

		mem = b.
			WithClock(clock).
			WithReadBus(rb).
			WithWriteBus(wb).
			Build("Mem")

		d = &busDriver{clock: clock, rb: rb, wb: wb}
	}

	BeforeEach(func() {
		build(idealbusmem.MakeBuilder())
	})

	It("should confine narrow beats to their own bytes", func() {
		build(idealbusmem.MakeBuilder().WithBeatBytes(4))

		resp := d.writeBurst(0x100, []uint64{0xAAAABBBB11112222, 0x33334444})
		Expect(resp).To(Equal(bus.RespOKAY))

		// Two 4-byte beats span 8 bytes; the high half of the first word
		// never reaches the storage.
		data, err := mem.Storage().Read(0x100, 12)
		Expect(err).To(BeNil())
		Expect(binary.LittleEndian.Uint32(data[0:])).
			To(Equal(uint32(0x11112222)))
		Expect(binary.LittleEndian.Uint32(data[4:])).
			To(Equal(uint32(0x33334444)))
		Expect(data[8:]).To(Equal(make([]byte, 4)))

		words, resps := d.readBurst(0x100, 2)
		Expect(words).To(Equal([]uint64{0x11112222, 0x33334444}))
		Expect(resps).To(Equal([]bus.Resp{bus.RespOKAY, bus.RespOKAY}))
	})

	It("should serve a burst read from the storage", func() {
		data := make([]byte, 32)
		for i := 0; i < 4; i++ {
			binary.LittleEndian.PutUint64(data[i*8:], uint64(0x100+i))
		}
		Expect(mem.Storage().Write(0x1000, data)).To(BeNil())

		words, resps := d.readBurst(0x1000, 4)

		Expect(words).To(Equal([]uint64{0x100, 0x101, 0x102, 0x103}))
		Expect(resps).To(HaveLen(4))
		for _, r := range resps {
			Expect(r).To(Equal(bus.RespOKAY))
		}
	})

	It("should land a burst write in the storage", func() {
		resp := d.writeBurst(0x2000, []uint64{0xA, 0xB, 0xC})
		Expect(resp).To(Equal(bus.RespOKAY))

		data, err := mem.Storage().Read(0x2000, 24)
		Expect(err).To(BeNil())
		Expect(binary.LittleEndian.Uint64(data[0:])).To(Equal(uint64(0xA)))
		Expect(binary.LittleEndian.Uint64(data[8:])).To(Equal(uint64(0xB)))
		Expect(binary.LittleEndian.Uint64(data[16:])).To(Equal(uint64(0xC)))
	})

	It("should serve bursts back to back", func() {
		Expect(d.writeBurst(0x0, []uint64{1, 2})).To(Equal(bus.RespOKAY))
		Expect(d.writeBurst(0x10, []uint64{3, 4})).To(Equal(bus.RespOKAY))

		words, _ := d.readBurst(0x0, 4)
		Expect(words).To(Equal([]uint64{1, 2, 3, 4}))
	})

	It("should flag read beats in the error range", func() {
		build(idealbusmem.MakeBuilder().WithErrorRange(0x1008, 0x1010))

		_, resps := d.readBurst(0x1000, 3)

		Expect(resps[0]).To(Equal(bus.RespOKAY))
		Expect(resps[1]).To(Equal(bus.RespSLVERR))
		// The response stays latched for the rest of the burst.
		Expect(resps[2]).To(Equal(bus.RespSLVERR))
	})

	It("should fail the whole write burst on an error beat", func() {
		build(idealbusmem.MakeBuilder().WithErrorRange(0x2008, 0x2010))

		resp := d.writeBurst(0x2000, []uint64{0xA, 0xB, 0xC})
		Expect(resp).To(Equal(bus.RespSLVERR))

		// The in-range beat is dropped; the others land.
		data, err := mem.Storage().Read(0x2000, 24)
		Expect(err).To(BeNil())
		Expect(binary.LittleEndian.Uint64(data[0:])).To(Equal(uint64(0xA)))
		Expect(binary.LittleEndian.Uint64(data[8:])).To(Equal(uint64(0)))
		Expect(binary.LittleEndian.Uint64(data[16:])).To(Equal(uint64(0xC)))
	})

	It("should still serve correctly with an address accept delay", func() {
		build(idealbusmem.MakeBuilder().WithAddrAcceptDelay(3))

		data := make([]byte, 16)
		binary.LittleEndian.PutUint64(data[0:], 7)
		binary.LittleEndian.PutUint64(data[8:], 8)
		Expect(mem.Storage().Write(0x0, data)).To(BeNil())

		words, _ := d.readBurst(0x0, 2)
		Expect(words).To(Equal([]uint64{7, 8}))

		words, _ = d.readBurst(0x0, 2)
		Expect(words).To(Equal([]uint64{7, 8}))
	})

	It("should accept nothing while stalled", func() {
		mem.SetStalled(true)

		d.rb.M.Set(bus.ReadMasterSig{ARValid: true, ARBeats: 1})
		for i := 0; i < 50; i++ {
			clock.Tick()
			Expect(d.rb.AddrFired()).To(BeFalse())
		}

		mem.SetStalled(false)

		for i := 0; i < 100; i++ {
			clock.Tick()
			if d.rb.AddrFired() {
				break
			}
		}
		Expect(d.rb.AddrFired()).To(BeTrue())
	})
})
