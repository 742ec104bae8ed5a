package recovery

import (
	"runtime/debug"

	"github.com/dmalone/crossprep/internal/logger"
)

// SafeGo runs a function in a goroutine with automatic panic recovery so a
// single background worker cannot take down the server
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("panic recovered in goroutine %q: %v", name, r)
				logger.Errorf("stack trace:\n%s", debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithCleanup runs a function in a goroutine with panic recovery and
// a cleanup that runs whether or not the function panicked
func SafeGoWithCleanup(name string, fn func(), cleanup func()) {
	go func() {
		defer func() {
			if cleanup != nil {
				cleanup()
			}
			if r := recover(); r != nil {
				logger.Errorf("panic recovered in goroutine %q: %v", name, r)
				logger.Errorf("stack trace:\n%s", debug.Stack())
			}
		}()
		fn()
	}()
}
