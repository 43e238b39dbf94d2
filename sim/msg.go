package sim

// A Msg is a piece of information that is transferred between components.
type Msg interface {
	Meta() *MsgMeta
	Clone() Msg
}

// MsgMeta contains the meta data that is attached to every message.
type MsgMeta struct {
	ID           string
	Src, Dst     RemotePort
	TrafficClass string
	TrafficBytes int
}

// Rsp is a special message that is used to indicate the completion of a
// request.
type Rsp interface {
	Msg
	GetRspTo() string
}

// GeneralRsp is a general response message that is used to indicate the
// completion of a request.
type GeneralRsp struct {
	MsgMeta

	OriginalReq Msg
}

// Meta returns the meta data of the message.
func (r *GeneralRsp) Meta() *MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned GeneralRsp with a different ID.
func (r *GeneralRsp) Clone() Msg {
	cloneMsg := *r
	cloneMsg.ID = GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the original request.
func (r *GeneralRsp) GetRspTo() string {
	return r.OriginalReq.Meta().ID
}

// GeneralRspBuilder can build general response messages.
type GeneralRspBuilder struct {
	src, dst    RemotePort
	originalReq Msg
}

// WithSrc sets the source of the response to build.
func (b GeneralRspBuilder) WithSrc(src RemotePort) GeneralRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b GeneralRspBuilder) WithDst(dst RemotePort) GeneralRspBuilder {
	b.dst = dst
	return b
}

// WithOriginalReq sets the request that the response to build responds to.
func (b GeneralRspBuilder) WithOriginalReq(req Msg) GeneralRspBuilder {
	b.originalReq = req
	return b
}

// Build creates a new GeneralRsp.
func (b GeneralRspBuilder) Build() *GeneralRsp {
	rsp := &GeneralRsp{}
	rsp.ID = GetIDGenerator().Generate()
	rsp.Src = b.src
	rsp.Dst = b.dst
	rsp.OriginalReq = b.originalReq

	return rsp
}
