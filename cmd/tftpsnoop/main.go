// Command tftpsnoop issues a single RRQ against a TFTP server and dumps
// every packet it gets back, for manually poking at option negotiation.
package main

import (
	"flag"
	"log"

	"github.com/kwabena-asare/tftpd"
	"github.com/kwabena-asare/tftpd/internal/diagnose"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:69", "host:port of the TFTP server to probe")
	filename := flag.String("file", "", "filename to request (required)")
	blksize := flag.Uint("blksize", 0, "blksize option to request (0 omits the option)")
	timeout := flag.Uint("timeout", 0, "timeout option to request, in seconds (0 omits the option)")
	tsize := flag.Bool("tsize", false, "request tsize=0 to query the file's size")
	flag.Parse()

	if *filename == "" {
		log.Fatal("tftpsnoop: -file is required")
	}

	var opts tftp.Options
	if *blksize != 0 {
		bs := uint16(*blksize)
		opts.BlockSize = &bs
	}
	if *timeout != 0 {
		t := uint8(*timeout)
		opts.Timeout = &t
	}
	if *tsize {
		var zero uint64
		opts.TransferSize = &zero
	}

	if err := diagnose.Snoop(*addr, *filename, opts); err != nil {
		log.Fatal(err)
	}
}
