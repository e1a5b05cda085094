// Package diagnose implements a read-only TFTP debug client: it issues a
// RRQ and dumps every decoded packet it gets back with go-spew, ACKing
// DATA as it arrives so a real server will run the transfer to
// completion. It's adapted from the teacher repo's Conn.Snoop, ported off
// dit.Conn onto this module's own Packet/Options types.
package diagnose

import (
	"fmt"
	"net"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/kwabena-asare/tftpd"
)

const snoopTimeout = 10 * time.Second

// Snoop issues a RRQ for filename in octet mode against addr and dumps
// every packet it receives until the transfer ends or a read times out.
func Snoop(addr, filename string, opts tftp.Options) error {
	return SnoopPacket(addr, &tftp.ReadRequest{Filename: filename, Mode: tftp.ModeOctet, Options: opts})
}

// SnoopPacket is Snoop but takes the initiating packet directly, so a
// caller can probe a WRQ or a deliberately malformed request too.
func SnoopPacket(addr string, request tftp.Packet) error {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", addr, err)
	}

	// Unconnected, so replies from the server's per-transfer port are
	// received; a socket connected to addr would drop them.
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return fmt.Errorf("open socket: %w", err)
	}
	defer conn.Close()

	sendBuf := make([]byte, 4+65464)
	n, err := tftp.EncodePacket(request, sendBuf)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if _, err := conn.WriteToUDP(sendBuf[:n], raddr); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	recvBuf := make([]byte, 4+65464)
	var lastBlock uint16
	for {
		if err := conn.SetReadDeadline(time.Now().Add(snoopTimeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
		n, from, err := conn.ReadFromUDP(recvBuf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}

		packet, err := tftp.ParsePacket(recvBuf[:n])
		if err != nil {
			fmt.Println("mangled packet:", err)
			continue
		}
		spew.Dump(packet)

		data, ok := packet.(*tftp.DataPacket)
		if !ok {
			continue
		}

		ack := &tftp.AckPacket{Block: data.Block}
		ackBuf := make([]byte, 4)
		an, err := tftp.EncodePacket(ack, ackBuf)
		if err != nil {
			return fmt.Errorf("encode ack: %w", err)
		}
		if _, err := conn.WriteToUDP(ackBuf[:an], from); err != nil {
			return fmt.Errorf("send ack: %w", err)
		}

		if len(data.Data) < 512 || data.Block == lastBlock {
			return nil
		}
		lastBlock = data.Block
	}
}
