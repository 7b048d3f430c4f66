// flush.go -- optional background flush scheduler
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package slotdb

import "time"

// startAutoFlush runs Flush every d until stop is closed, logging (but not
// surfacing) any flush error — there is no caller left to hand an error to
// from inside a background goroutine. It is a convenience the host may use
// instead of calling Flush on its own schedule.
func (h *Handle) startAutoFlush(d time.Duration) {
	h.flushStop = make(chan struct{})
	h.flushDone = make(chan struct{})
	ticker := time.NewTicker(d)

	go func() {
		defer close(h.flushDone)
		defer ticker.Stop()
		for {
			select {
			case <-h.flushStop:
				return
			case <-ticker.C:
				if err := h.Flush(); err != nil {
					h.log.Debug("slotdb: background flush failed", "error", err)
				}
			}
		}
	}()
}
