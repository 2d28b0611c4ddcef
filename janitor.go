package cachecore

import (
	"time"

	"go.uber.org/zap"
)

// startJanitor launches the periodic expiration sweep when auto_trim
// is enabled, generalizing the teacher's janitor.go (ticker + stop
// channel + goroutine) to call the new TrimExpired and to recover a
// panicking sweep rather than taking the whole process down with it.
func (c *Cache[V]) startJanitor() {
	if !c.config.autoTrim {
		return
	}

	c.janitorStop = make(chan struct{})
	c.janitorDone = make(chan struct{})

	ticker := time.NewTicker(c.config.autoTrimInterval)

	go func() {
		defer close(c.janitorDone)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.runSweepSafely()
			case <-c.janitorStop:
				return
			}
		}
	}()
}

func (c *Cache[V]) runSweepSafely() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("recovered panic during expiration sweep", zap.Any("panic", r))
		}
	}()
	c.TrimExpired()
}
