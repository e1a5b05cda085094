//go:build darwin || freebsd || netbsd || openbsd

package config

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// ListenConfig returns a net.ListenConfig that sets SO_REUSEADDR, so a
// restarted server can rebind its port immediately. SO_PRIORITY isn't
// available on BSD-derived kernels.
func ListenConfig() *net.ListenConfig {
	return &net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var ctrlErr error
			err := c.Control(func(fd uintptr) {
				if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
					ctrlErr = err
				}
			})
			if err != nil {
				return err
			}
			return ctrlErr
		},
	}
}
