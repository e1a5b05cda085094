// Package rrq implements the RRQ transfer state machine: a stop-and-wait
// sender that negotiates options via OACK, then walks a file out in
// blksize-sized DATA packets gated on ACKs, one goroutine per transfer.
//
// This is a direct port of original_source/src/rrq.rs's serve_file/send_to
// to Go, including its documented RFC 2347 deviation: the OACK is written
// and DATA(1) follows immediately, without waiting for the client's
// ACK(0).
package rrq

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/kwabena-asare/tftpd"
	"github.com/kwabena-asare/tftpd/internal/logging"
)

const (
	defaultBlockSize       = 512
	minNegotiableBlockSize = 512
	defaultTimeout         = 8 * time.Second
	defaultMaxRetries      = 8
)

// FileOpener opens filename for reading, returning its length if known or
// -1 otherwise (tsize=0 queries are only answered when a length is known).
type FileOpener func(filename string) (io.ReadCloser, int64, error)

// Transfer describes one RRQ to serve.
type Transfer struct {
	Peer       net.Addr
	Filename   string
	Options    tftp.Options
	Logger     logging.Logger
	MaxRetries int // 0 means defaultMaxRetries
}

// Serve drives t to completion: it opens the file, dials a fresh ephemeral
// UDP socket toward t.Peer, and runs the stop-and-wait send loop. It is
// meant to be launched with `go rrq.Serve(...)` from a Handler.HandleRead
// implementation, which should return a nil Packet so the Server doesn't
// also reply.
func Serve(t *Transfer, open FileOpener) {
	log := t.Logger
	if log == nil {
		log = logging.Default()
	}

	file, size, err := open(t.Filename)
	if err != nil {
		log.Warn("rrq: could not open requested file", logging.Fields{
			"peer": t.Peer, "filename": t.Filename, "error": err,
		})
		return
	}
	defer file.Close()

	conn, err := dialPeer(t.Peer)
	if err != nil {
		log.Error("rrq: could not open transfer socket", logging.Fields{"peer": t.Peer, "error": err})
		return
	}
	defer conn.Close()

	retries := t.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	if err := sendFile(conn, t.Peer, file, size, t.Options, retries, log); err != nil {
		log.Warn("rrq: transfer aborted", logging.Fields{
			"peer": t.Peer, "filename": t.Filename, "error": err,
		})
		return
	}
	log.Info("rrq: transfer complete", logging.Fields{"peer": t.Peer, "filename": t.Filename})
}

// dialPeer opens a fresh UDP socket bound to the wildcard address of
// peer's family and connects it to peer, so the kernel filters out
// datagrams from any other source TID.
func dialPeer(peer net.Addr) (*net.UDPConn, error) {
	raddr, err := net.ResolveUDPAddr("udp", peer.String())
	if err != nil {
		return nil, fmt.Errorf("resolve peer address: %w", err)
	}
	network := "udp4"
	if raddr.IP.To4() == nil {
		network = "udp6"
	}
	return net.DialUDP(network, nil, raddr)
}

// sendFile runs the option-negotiation-then-stop-and-wait loop over conn,
// which must already be connected to the peer.
func sendFile(conn *net.UDPConn, peer net.Addr, file io.Reader, size int64, opts tftp.Options, maxRetries int, log logging.Logger) error {
	outOpts := tftp.Options{}
	blockSize := defaultBlockSize
	timeout := defaultTimeout

	if opts.BlockSize != nil && *opts.BlockSize >= minNegotiableBlockSize {
		bs := *opts.BlockSize
		outOpts.BlockSize = &bs
		blockSize = int(bs)
	}
	if opts.Timeout != nil && *opts.Timeout >= 1 {
		tsec := *opts.Timeout
		outOpts.Timeout = &tsec
		timeout = time.Duration(tsec) * time.Second
	}
	if opts.TransferSize != nil {
		switch {
		case *opts.TransferSize == 0 && size >= 0:
			sz := uint64(size)
			outOpts.TransferSize = &sz
		case *opts.TransferSize != 0:
			log.Warn("rrq: ignoring non-zero tsize request", logging.Fields{
				"peer": peer, "tsize": *opts.TransferSize,
			})
		}
	}

	sendBuf := make([]byte, 4+blockSize)
	recvBuf := make([]byte, blockSize+32)

	if outOpts.IsSet() {
		oack := &tftp.OAckPacket{Options: outOpts}
		n, err := tftp.EncodePacket(oack, sendBuf)
		if err != nil {
			return fmt.Errorf("encode oack: %w", err)
		}
		if _, err := conn.Write(sendBuf[:n]); err != nil {
			return fmt.Errorf("send oack: %w", err)
		}
		log.Info("rrq: sent OACK", logging.Fields{"peer": peer, "options": fmt.Sprintf("%+v", outOpts)})
		// Proceeds straight to DATA(1) rather than waiting for ACK(0) —
		// documented RFC 2347 deviation, carried over from the original
		// implementation this engine is ported from.
	}

	for block := uint16(1); ; block++ {
		n, readErr := io.ReadFull(file, sendBuf[4:4+blockSize])
		if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
			return sendReadError(conn, sendBuf, readErr, log, peer)
		}

		if _, err := tftp.EncodeDataHeader(block, sendBuf[:4]); err != nil {
			return fmt.Errorf("encode data header: %w", err)
		}
		if _, err := conn.Write(sendBuf[:n+4]); err != nil {
			return fmt.Errorf("send data block %d: %w", block, err)
		}
		log.Info("rrq: sent DATA", logging.Fields{"peer": peer, "block": block, "bytes": n})

		if err := awaitAck(conn, recvBuf, sendBuf[:n+4], block, timeout, maxRetries, log, peer); err != nil {
			return err
		}

		if n < blockSize {
			return nil
		}
	}
}

// awaitAck blocks until ACK(block) arrives, retransmitting sendBuf on each
// read timeout up to maxRetries times. A peer-sent ERROR aborts the
// transfer immediately; any other unexpected packet is logged and
// ignored, including a stale ACK for an earlier block.
func awaitAck(conn *net.UDPConn, recvBuf, sendBuf []byte, block uint16, timeout time.Duration, maxRetries int, log logging.Logger, peer net.Addr) error {
	attempts := 0
	for {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}

		n, err := conn.Read(recvBuf)
		if err != nil {
			if !isTimeout(err) {
				return fmt.Errorf("receive ack for block %d: %w", block, err)
			}
			if attempts >= maxRetries {
				return fmt.Errorf("too many timeouts waiting for ack of block %d", block)
			}
			attempts++
			if _, werr := conn.Write(sendBuf); werr != nil {
				return fmt.Errorf("retransmit data block %d: %w", block, werr)
			}
			log.Warn("rrq: timed out waiting for ack, retransmitting", logging.Fields{
				"peer": peer, "block": block, "attempt": attempts,
			})
			continue
		}

		packet, perr := tftp.ParsePacket(recvBuf[:n])
		if perr != nil {
			log.Warn("rrq: ignoring mangled packet", logging.Fields{"peer": peer, "error": perr})
			continue
		}

		switch p := packet.(type) {
		case *tftp.AckPacket:
			if p.Block == block {
				return nil
			}
			log.Warn("rrq: ignoring stale ack", logging.Fields{"peer": peer, "got": p.Block, "want": block})
		case *tftp.ErrorPacket:
			return fmt.Errorf("peer aborted transfer: %w", p)
		default:
			log.Warn("rrq: ignoring unexpected packet", logging.Fields{"peer": peer, "opcode": packet.Opcode()})
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// sendReadError reports a local file-read failure to the peer as a
// NotDefined error and gives up on the transfer; the send is best-effort.
func sendReadError(conn *net.UDPConn, buf []byte, cause error, log logging.Logger, peer net.Addr) error {
	pkt := &tftp.ErrorPacket{Code: tftp.CodeUndefined, Message: fmt.Sprintf("read failed: %s", cause)}
	if n, err := tftp.EncodePacket(pkt, buf); err == nil {
		_, _ = conn.Write(buf[:n])
	} else {
		log.Error("rrq: failed to encode read-error packet", logging.Fields{"peer": peer, "error": err})
	}
	return fmt.Errorf("local read failed: %w", cause)
}
