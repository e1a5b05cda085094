// Package tftp implements the read side of RFC 1350 TFTP, with option
// negotiation per RFC 2347, RFC 2348 and RFC 2349. It provides the wire
// codec (Reader/Writer, Packet, Options), a minimal UDP listener (Server),
// and the Handler interface a caller implements to decide what a request
// gets served. The actual RRQ transfer state machine lives in
// internal/rrq, which this package's Handler implementations are expected
// to call into.
//
// Write requests are parsed but not served: a WriteRequest reaches a
// Handler's HandleWrite method, and BaseHandler answers it with
// AccessViolation. NetASCII translation is likewise out of scope; DATA
// payloads are carried as opaque octets regardless of the negotiated mode.
package tftp
