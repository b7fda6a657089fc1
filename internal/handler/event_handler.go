package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"partyround/backend/internal/hub"
)

// Events godoc
// @Summary      Subscribe to state-change events
// @Description  Server-sent event stream. Scope with lobbyId and repeatable
// @Description  topic params (lobby, round) at connect time; delivery is
// @Description  at-most-once with no backlog, so clients must re-fetch state
// @Description  after (re)connecting.
// @Tags         events
// @Produce      text/event-stream
// @Param        lobbyId query string false "Restrict to one lobby"
// @Param        topic   query []string false "Topic filter" collectionFormat(multi)
// @Success      200 {string} string "event stream"
// @Router       /events [get]
func (h *Handler) Events(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	// Tell the client how long to wait before reconnecting.
	fmt.Fprint(c.Writer, "retry: 3000\n\n")
	flusher.Flush()

	client := make(hub.Client, 16)
	h.hub.Subscribe(client, c.Query("lobbyId"), c.QueryArray("topic"))
	defer h.hub.Unsubscribe(client)

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case env, open := <-client:
			if !open {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", env.Event, env.Data)
			flusher.Flush()
		case <-keepalive.C:
			// Comment frame to keep intermediaries from closing the stream.
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
