//go:build !unix

package cli

import "os"

// без SIGUSR1 синхронизация запускается только по таймеру и изменениям
func wakeSignals() (<-chan os.Signal, func()) {
	return nil, func() {}
}
