package safe

import (
	"salachat/logger"
)

// Go starts a new goroutine that recovers from panic,
// so that a single connection or worker cannot crash the process.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}
