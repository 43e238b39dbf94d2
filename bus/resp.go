// Package bus models a split-channel burst bus at signal level.
//
// Signals are updated with a strict two-phase discipline: during the
// calculate phase every machine reads only the values committed at the end
// of the previous cycle, and all newly driven values become visible
// together at the commit phase. This reproduces the simultaneous-update
// semantics of synchronous hardware, where no state machine ever observes
// another machine's same-cycle change.
package bus

// Resp is the response code returned for a register access or a burst.
type Resp uint8

// The supported response codes.
const (
	RespOKAY Resp = iota
	RespSLVERR
)

func (r Resp) String() string {
	switch r {
	case RespOKAY:
		return "OKAY"
	case RespSLVERR:
		return "SLVERR"
	default:
		return "UNKNOWN"
	}
}
