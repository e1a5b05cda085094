package tftp

import "net"

// Handler decides how a Server answers each inbound packet. HandleRead and
// HandleWrite are called for RRQ and WRQ respectively; HandleOther sees
// anything else a client might send a listening socket (stray DATA, ACK,
// ERROR, OACK).
//
// A nil return means "no reply": the expected path for HandleRead once a
// transfer engine has been launched in its own goroutine to own the rest
// of the exchange.
type Handler interface {
	HandleRead(local, remote net.Addr, filename string, mode TransferMode, opts Options) Packet
	HandleWrite(local, remote net.Addr, filename string, mode TransferMode, opts Options) Packet
	HandleOther(local, remote net.Addr, p Packet) Packet
}

func dispatch(h Handler, local, remote net.Addr, p Packet) Packet {
	switch v := p.(type) {
	case *ReadRequest:
		return h.HandleRead(local, remote, v.Filename, v.Mode, v.Options)
	case *WriteRequest:
		return h.HandleWrite(local, remote, v.Filename, v.Mode, v.Options)
	default:
		return h.HandleOther(local, remote, p)
	}
}

// BaseHandler answers every request with the RFC default: read and write
// requests are rejected with AccessViolation, and anything outside RRQ/WRQ
// gets no reply. Embed it to pick up the default for whichever of the
// three methods you don't override.
type BaseHandler struct{}

func (BaseHandler) HandleRead(local, remote net.Addr, filename string, mode TransferMode, opts Options) Packet {
	return &ErrorPacket{Code: CodeAccessViolation, Message: "read requests are not supported"}
}

func (BaseHandler) HandleWrite(local, remote net.Addr, filename string, mode TransferMode, opts Options) Packet {
	return &ErrorPacket{Code: CodeAccessViolation, Message: "write requests are not supported"}
}

func (BaseHandler) HandleOther(local, remote net.Addr, p Packet) Packet {
	return nil
}

// ReadHandlerFunc adapts a plain function to the HandleRead half of
// Handler, the way HandlerFunc lets an http.HandlerFunc stand in for a
// Handler. WRQ and anything else still gets BaseHandler's default.
type ReadHandlerFunc func(local, remote net.Addr, filename string, mode TransferMode, opts Options) Packet

// NewReadHandler wraps fn as a Handler that serves RRQ via fn and
// everything else via BaseHandler.
func NewReadHandler(fn ReadHandlerFunc) Handler {
	return readHandlerFunc{fn: fn}
}

type readHandlerFunc struct {
	BaseHandler
	fn ReadHandlerFunc
}

func (h readHandlerFunc) HandleRead(local, remote net.Addr, filename string, mode TransferMode, opts Options) Packet {
	return h.fn(local, remote, filename, mode, opts)
}
