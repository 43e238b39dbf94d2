package dma

import (
	"github.com/sarchlab/blockdma/bus"
	"github.com/sarchlab/blockdma/sim"
)

var regAccessByteOverhead = 8

// A RegReadReq asks the DMA engine to read one configuration register.
type RegReadReq struct {
	sim.MsgMeta

	Offset uint64
}

// Meta returns the message meta.
func (r *RegReadReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned RegReadReq with a different ID.
func (r *RegReadReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// RegReadReqBuilder can build register read requests.
type RegReadReqBuilder struct {
	src, dst sim.RemotePort
	offset   uint64
}

// WithSrc sets the source of the request to build.
func (b RegReadReqBuilder) WithSrc(src sim.RemotePort) RegReadReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b RegReadReqBuilder) WithDst(dst sim.RemotePort) RegReadReqBuilder {
	b.dst = dst
	return b
}

// WithOffset sets the register offset to read.
func (b RegReadReqBuilder) WithOffset(offset uint64) RegReadReqBuilder {
	b.offset = offset
	return b
}

// Build creates a new RegReadReq.
func (b RegReadReqBuilder) Build() *RegReadReq {
	r := &RegReadReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = regAccessByteOverhead
	r.Offset = b.offset

	return r
}

// A RegWriteReq asks the DMA engine to write one configuration register.
type RegWriteReq struct {
	sim.MsgMeta

	Offset uint64
	Data   uint32
}

// Meta returns the message meta.
func (r *RegWriteReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned RegWriteReq with a different ID.
func (r *RegWriteReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// RegWriteReqBuilder can build register write requests.
type RegWriteReqBuilder struct {
	src, dst sim.RemotePort
	offset   uint64
	data     uint32
}

// WithSrc sets the source of the request to build.
func (b RegWriteReqBuilder) WithSrc(src sim.RemotePort) RegWriteReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b RegWriteReqBuilder) WithDst(dst sim.RemotePort) RegWriteReqBuilder {
	b.dst = dst
	return b
}

// WithOffset sets the register offset to write.
func (b RegWriteReqBuilder) WithOffset(offset uint64) RegWriteReqBuilder {
	b.offset = offset
	return b
}

// WithData sets the value to write.
func (b RegWriteReqBuilder) WithData(data uint32) RegWriteReqBuilder {
	b.data = data
	return b
}

// Build creates a new RegWriteReq.
func (b RegWriteReqBuilder) Build() *RegWriteReq {
	r := &RegWriteReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = regAccessByteOverhead
	r.Offset = b.offset
	r.Data = b.data

	return r
}

// A RegReadRsp carries the data and the response code of a register read.
type RegReadRsp struct {
	sim.MsgMeta

	RespondTo string
	Data      uint32
	Resp      bus.Resp
}

// Meta returns the message meta.
func (r *RegReadRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned RegReadRsp with a different ID.
func (r *RegReadRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that this response answers.
func (r *RegReadRsp) GetRspTo() string {
	return r.RespondTo
}

// RegReadRspBuilder can build register read responses.
type RegReadRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	data     uint32
	resp     bus.Resp
}

// WithSrc sets the source of the response to build.
func (b RegReadRspBuilder) WithSrc(src sim.RemotePort) RegReadRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b RegReadRspBuilder) WithDst(dst sim.RemotePort) RegReadRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request that the response answers.
func (b RegReadRspBuilder) WithRspTo(id string) RegReadRspBuilder {
	b.rspTo = id
	return b
}

// WithData sets the data carried by the response.
func (b RegReadRspBuilder) WithData(data uint32) RegReadRspBuilder {
	b.data = data
	return b
}

// WithResp sets the response code.
func (b RegReadRspBuilder) WithResp(resp bus.Resp) RegReadRspBuilder {
	b.resp = resp
	return b
}

// Build creates a new RegReadRsp.
func (b RegReadRspBuilder) Build() *RegReadRsp {
	r := &RegReadRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = regAccessByteOverhead
	r.RespondTo = b.rspTo
	r.Data = b.data
	r.Resp = b.resp

	return r
}

// A RegWriteRsp acknowledges a register write with a response code.
type RegWriteRsp struct {
	sim.MsgMeta

	RespondTo string
	Resp      bus.Resp
}

// Meta returns the message meta.
func (r *RegWriteRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a cloned RegWriteRsp with a different ID.
func (r *RegWriteRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that this response answers.
func (r *RegWriteRsp) GetRspTo() string {
	return r.RespondTo
}

// RegWriteRspBuilder can build register write responses.
type RegWriteRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	resp     bus.Resp
}

// WithSrc sets the source of the response to build.
func (b RegWriteRspBuilder) WithSrc(src sim.RemotePort) RegWriteRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b RegWriteRspBuilder) WithDst(dst sim.RemotePort) RegWriteRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request that the response answers.
func (b RegWriteRspBuilder) WithRspTo(id string) RegWriteRspBuilder {
	b.rspTo = id
	return b
}

// WithResp sets the response code.
func (b RegWriteRspBuilder) WithResp(resp bus.Resp) RegWriteRspBuilder {
	b.resp = resp
	return b
}

// Build creates a new RegWriteRsp.
func (b RegWriteRspBuilder) Build() *RegWriteRsp {
	r := &RegWriteRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficBytes = regAccessByteOverhead
	r.RespondTo = b.rspTo
	r.Resp = b.resp

	return r
}
