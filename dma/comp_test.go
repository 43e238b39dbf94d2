package dma

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/blockdma/bus"
)

var _ = Describe("RegBusMaster", func() {
	var tb *coreTestBench

	BeforeEach(func() {
		tb = makeCoreTestBench(DefaultConfig(), 0, 0)
	})

	It("should complete a write and read the value back", func() {
		resp := tb.regWrite(RegDstLo, 0xCAFE)
		Expect(resp).To(Equal(bus.RespOKAY))

		data, resp := tb.regRead(RegDstLo)
		Expect(resp).To(Equal(bus.RespOKAY))
		Expect(data).To(Equal(uint32(0xCAFE)))
	})

	It("should report busy while an access is on the wire", func() {
		Expect(tb.master.Busy()).To(BeFalse())

		tb.master.Start(regAccess{kind: regAccessRead, offset: RegCount})
		Expect(tb.master.Busy()).To(BeTrue())

		tb.clock.Tick()
		Expect(tb.master.Busy()).To(BeTrue())
	})

	It("should panic on a re-entrant start", func() {
		tb.master.Start(regAccess{kind: regAccessRead, offset: RegCount})

		Expect(func() {
			tb.master.Start(regAccess{
				kind:   regAccessRead,
				offset: RegCount,
			})
		}).To(Panic())
	})

	It("should return no result when nothing completed", func() {
		_, ok := tb.master.TakeResult()
		Expect(ok).To(BeFalse())
	})
})
