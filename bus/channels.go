package bus

// Each channel bundle below is split by driving side, so that exactly one
// machine drives each signal group. A handshake fires on the cycle where
// both the valid and the ready of a channel are observed high.

// ReadMasterSig holds the read-bus signals driven by the master side.
type ReadMasterSig struct {
	ARValid bool
	ARAddr  uint64
	ARBeats int

	RReady bool
}

// ReadSlaveSig holds the read-bus signals driven by the slave side.
type ReadSlaveSig struct {
	ARReady bool

	RValid bool
	RData  uint64
	RLast  bool
	RResp  Resp
}

// A ReadBus is a split address/data burst read bus.
type ReadBus struct {
	M *Signal[ReadMasterSig]
	S *Signal[ReadSlaveSig]
}

// NewReadBus creates a read bus clocked by the given clock.
func NewReadBus(c *Clock) *ReadBus {
	return &ReadBus{
		M: NewSignal[ReadMasterSig](c),
		S: NewSignal[ReadSlaveSig](c),
	}
}

// AddrFired reports whether the read-address handshake completes this cycle.
func (b *ReadBus) AddrFired() bool {
	return b.M.Get().ARValid && b.S.Get().ARReady
}

// DataFired reports whether a read-data beat is accepted this cycle.
func (b *ReadBus) DataFired() bool {
	return b.S.Get().RValid && b.M.Get().RReady
}

// WriteMasterSig holds the write-bus signals driven by the master side.
type WriteMasterSig struct {
	AWValid bool
	AWAddr  uint64
	AWBeats int

	WValid bool
	WData  uint64
	WLast  bool

	BReady bool
}

// WriteSlaveSig holds the write-bus signals driven by the slave side.
type WriteSlaveSig struct {
	AWReady bool
	WReady  bool

	BValid bool
	BResp  Resp
}

// A WriteBus is a split address/data/response burst write bus.
type WriteBus struct {
	M *Signal[WriteMasterSig]
	S *Signal[WriteSlaveSig]
}

// NewWriteBus creates a write bus clocked by the given clock.
func NewWriteBus(c *Clock) *WriteBus {
	return &WriteBus{
		M: NewSignal[WriteMasterSig](c),
		S: NewSignal[WriteSlaveSig](c),
	}
}

// AddrFired reports whether the write-address handshake completes this
// cycle.
func (b *WriteBus) AddrFired() bool {
	return b.M.Get().AWValid && b.S.Get().AWReady
}

// DataFired reports whether a write-data beat is accepted this cycle.
func (b *WriteBus) DataFired() bool {
	return b.M.Get().WValid && b.S.Get().WReady
}

// RespFired reports whether the write-response handshake completes this
// cycle.
func (b *WriteBus) RespFired() bool {
	return b.S.Get().BValid && b.M.Get().BReady
}

// RegMasterSig holds the register-bus signals driven by the requester.
type RegMasterSig struct {
	ARValid bool
	ARAddr  uint64
	RReady  bool

	AWValid bool
	AWAddr  uint64
	WValid  bool
	WData   uint32
	BReady  bool
}

// RegSlaveSig holds the register-bus signals driven by the register slave.
type RegSlaveSig struct {
	ARReady bool
	RValid  bool
	RData   uint32
	RResp   Resp

	AWReady bool
	WReady  bool
	BValid  bool
	BResp   Resp
}

// A RegBus is a word-granularity configuration port with independent read
// and write directions. The write direction accepts address and data
// independently, possibly in different cycles.
type RegBus struct {
	M *Signal[RegMasterSig]
	S *Signal[RegSlaveSig]
}

// NewRegBus creates a register bus clocked by the given clock.
func NewRegBus(c *Clock) *RegBus {
	return &RegBus{
		M: NewSignal[RegMasterSig](c),
		S: NewSignal[RegSlaveSig](c),
	}
}

// ReadAddrFired reports whether the read-address handshake completes this
// cycle.
func (b *RegBus) ReadAddrFired() bool {
	return b.M.Get().ARValid && b.S.Get().ARReady
}

// ReadDataFired reports whether the read-data handshake completes this
// cycle.
func (b *RegBus) ReadDataFired() bool {
	return b.S.Get().RValid && b.M.Get().RReady
}

// WriteAddrFired reports whether the write-address handshake completes this
// cycle.
func (b *RegBus) WriteAddrFired() bool {
	return b.M.Get().AWValid && b.S.Get().AWReady
}

// WriteDataFired reports whether the write-data handshake completes this
// cycle.
func (b *RegBus) WriteDataFired() bool {
	return b.M.Get().WValid && b.S.Get().WReady
}

// RespFired reports whether the write-response handshake completes this
// cycle.
func (b *RegBus) RespFired() bool {
	return b.S.Get().BValid && b.M.Get().BReady
}
