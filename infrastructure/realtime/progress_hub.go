package realtime

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

// Hub fans out extraction progress events to SSE subscribers, keyed by run id.
type Hub struct {
	mu   sync.RWMutex
	runs map[string]map[chan model.ProgressEvent]struct{}
}

func NewProgressHub() *Hub {
	return &Hub{runs: make(map[string]map[chan model.ProgressEvent]struct{})}
}

// Serve streams the events of the run named by the :runId path parameter.
// The stream ends after the run_finished event or when the client goes away.
func (h *Hub) Serve(c *gin.Context) {
	runID := c.Param("runId")
	if runID == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan model.ProgressEvent, 16)
	h.addSubscriber(runID, ch)
	defer h.removeSubscriber(runID, ch)

	// Initial comment to keep connection open
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case evt := <-ch:
			c.SSEvent(string(evt.Stage), evt)
			c.Writer.Flush()
			if evt.Stage == model.ProgressRunFinished {
				return
			}
		}
	}
}

// Publish delivers evt to every subscriber of runID without blocking.
func (h *Hub) Publish(runID string, evt model.ProgressEvent) {
	if runID == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.runs[runID] {
		select { // non-blocking
		case ch <- evt:
		default:
		}
	}
}

// Progress returns a callback publishing to runID, suitable for usecase.RunInput.
func (h *Hub) Progress(runID string) func(model.ProgressEvent) {
	return func(evt model.ProgressEvent) { h.Publish(runID, evt) }
}

// Subscribers returns the number of open streams for runID.
func (h *Hub) Subscribers(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.runs[runID])
}

func (h *Hub) addSubscriber(runID string, ch chan model.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.runs[runID] == nil {
		h.runs[runID] = make(map[chan model.ProgressEvent]struct{})
	}
	h.runs[runID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(runID string, ch chan model.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.runs[runID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.runs, runID)
		}
	}
}
