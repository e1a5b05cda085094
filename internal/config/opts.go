// Package config parses tftpd's command-line flags and supplies the
// platform socket tuning the listener binds with.
package config

import (
	"io"

	"github.com/DavidGamba/go-getoptions"
)

// Opts holds tftpd's runtime configuration, populated by NewOpts's
// GetOpt.Parse. Only the read side of the teacher's flag set survives:
// --secure/--create/--user configured the write path, which this module
// doesn't serve.
type Opts struct {
	Address string // --address|-a [host]:port
	Dir     string // --dir|-d path

	BlockSize  int // --blocksize|-B, blksize applied to requests that carry none
	Timeout    int // --timeout|-t seconds (not passed to transfers)
	Retransmit int // --retransmit|-T max DATA retransmissions per block

	Verbose bool // --verbose|-v
	Version bool // --version|-V

	Out, Err io.Writer
}

// NewOpts builds an Opts and its GetOpt parser. Call opt.Parse(args) to
// populate the Opts fields.
func NewOpts() (*Opts, *getoptions.GetOpt) {
	var opts Opts
	opt := getoptions.New()

	opt.SetMode(getoptions.Bundling)
	opt.Bool("help", false, opt.Alias("h", "?"))

	opt.StringVar(&opts.Address, "address", ":69", opt.Alias("a"),
		opt.Description("address and port to listen on"))
	opt.StringVar(&opts.Dir, "dir", ".", opt.Alias("d"),
		opt.Description("directory whose files are served over RRQ"))

	opt.IntVar(&opts.BlockSize, "blocksize", 512, opt.Alias("B"),
		opt.Description("block size applied to requests without a blksize option (ignored below 512); a client's own blksize option is used instead whenever it sends one"))
	opt.IntVar(&opts.Timeout, "timeout", 8, opt.Alias("t"),
		opt.Description("accepted but not applied: transfers wait for the client's timeout option, or 8 seconds without one"))
	opt.IntVar(&opts.Retransmit, "retransmit", 8, opt.Alias("T"),
		opt.Description("maximum number of DATA retransmissions per block before aborting a transfer"))

	opt.BoolVar(&opts.Verbose, "verbose", false, opt.Alias("v"),
		opt.Description("verbose output"))
	opt.BoolVar(&opts.Version, "version", false, opt.Alias("V"),
		opt.Description("print version and exit"))

	return &opts, opt
}

// Outputs records where help and error output should go.
func (o *Opts) Outputs(out, err io.Writer) {
	o.Out = out
	o.Err = err
}
