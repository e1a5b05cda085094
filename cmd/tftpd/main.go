// Command tftpd serves a directory's files read-only over TFTP.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/kwabena-asare/tftpd"
	"github.com/kwabena-asare/tftpd/internal/config"
	"github.com/kwabena-asare/tftpd/internal/logging"
	"github.com/kwabena-asare/tftpd/internal/rrq"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "tftpd:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, opt := config.NewOpts()
	opts.Outputs(stdout, stderr)

	if _, err := opt.Parse(args); err != nil {
		return err
	}
	if opt.Called("help") {
		fmt.Fprintln(stderr, opt.Help())
		return nil
	}
	if opts.Version {
		fmt.Fprintln(stdout, "tftpd", version)
		return nil
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return fmt.Errorf("resolve --dir: %w", err)
	}

	log := logging.New(stderr, opts.Verbose)
	log.Info("starting tftpd", logging.Fields{"address": opts.Address, "dir": dir})

	lc := config.ListenConfig()
	conn, err := lc.ListenPacket(context.Background(), "udp", opts.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.Address, err)
	}
	defer conn.Close()

	handler := &dirHandler{
		dir:        dir,
		log:        log,
		blockSize:  opts.BlockSize,
		maxRetries: opts.Retransmit,
	}

	server := &tftp.Server{Addr: opts.Address, Handler: handler, Logger: log}
	return server.Serve(conn)
}

// dirHandler serves RRQ for any file under dir, launching each
// transfer in its own goroutine via internal/rrq. Requests for anything
// else fall back to BaseHandler's RFC-default rejections.
type dirHandler struct {
	tftp.BaseHandler
	dir        string
	log        logging.Logger
	blockSize  int
	maxRetries int
}

func (h *dirHandler) HandleRead(local, remote net.Addr, filename string, mode tftp.TransferMode, opts tftp.Options) tftp.Packet {
	path := filepath.Join(h.dir, filepath.Clean(string(filepath.Separator)+filename))
	if opts.BlockSize == nil && h.blockSize >= 512 {
		bs := uint16(h.blockSize)
		opts.BlockSize = &bs
	}

	t := &rrq.Transfer{
		Peer:       remote,
		Filename:   path,
		Options:    opts,
		Logger:     h.log,
		MaxRetries: h.maxRetries,
	}
	go rrq.Serve(t, openFile)
	return nil
}

func openFile(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, -1, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, -1, err
	}
	if info.IsDir() {
		f.Close()
		return nil, -1, fmt.Errorf("%s is a directory", path)
	}
	return f, info.Size(), nil
}
