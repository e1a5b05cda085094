package tftp

import (
	"net"

	"github.com/kwabena-asare/tftpd/internal/logging"
)

// Server listens for TFTP requests on a single UDP socket and dispatches
// them to Handler. It never serves a transfer itself; Handler
// implementations that want to serve RRQ hand the request off to a
// transfer engine (see internal/rrq) and return a nil Packet.
type Server struct {
	Addr    string
	Handler Handler
	Logger  logging.Logger
}

// ListenAndServe binds addr and serves handler until the socket errors.
func ListenAndServe(addr string, handler Handler) error {
	return (&Server{Addr: addr, Handler: handler}).ListenAndServe()
}

// ListenAndServe binds s.Addr and calls Serve.
func (s *Server) ListenAndServe() error {
	conn, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	return s.Serve(conn)
}

func (s *Server) logger() logging.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logging.Default()
}

// Serve reads datagrams off conn in a loop, handing each decoded packet to
// s.Handler and sending back whatever it returns (if non-nil). A datagram
// that fails to parse is logged and dropped; Serve only returns when conn
// itself errors.
func (s *Server) Serve(conn net.PacketConn) error {
	log := s.logger()
	local := conn.LocalAddr()

	recvBuf := make([]byte, 512)
	sendBuf := make([]byte, 4+512)

	for {
		n, remote, err := conn.ReadFrom(recvBuf)
		if err != nil {
			return err
		}

		packet, err := ParsePacket(recvBuf[:n])
		if err != nil {
			log.Warn("ignoring malformed packet", logging.Fields{"remote": remote, "error": err})
			continue
		}

		reply := dispatch(s.Handler, local, remote, packet)
		if reply == nil {
			continue
		}

		size, err := EncodePacket(reply, sendBuf)
		if err != nil {
			log.Error("failed to encode reply", logging.Fields{"remote": remote, "error": err})
			continue
		}
		if _, err := conn.WriteTo(sendBuf[:size], remote); err != nil {
			log.Error("failed to send reply", logging.Fields{"remote": remote, "error": err})
		}
	}
}
