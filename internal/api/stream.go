package api

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

// streamTasks sends the caller's filtered task list as server-sent events.
// Each "snapshot" event replaces the previous one; backend failures are
// sent as "error" events and end the stream.
func (s *Server) streamTasks(c *gin.Context) {
	opts, err := s.viewOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	b := s.boardFor(c)
	ctx := c.Request.Context()
	sub, err := b.Subscribe(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	defer sub.Unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, open := <-sub.C():
			if !open {
				return false
			}
			if snap.Err != nil {
				c.SSEvent("error", Response{Error: snap.Err.Error()})
				return false
			}
			c.SSEvent("snapshot", view.Rows(snap.Tasks, opts, s.deps.Now()))
			return true
		}
	})
}
