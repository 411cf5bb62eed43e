//go:build windows

package cmd

import "os"

// shutdownSignals returns the OS signals that trigger graceful shutdown.
func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
