package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antoine01000/bureau-main/notify"
)

// streamEvents relays broker messages to the client as server-sent events
// until the client leaves or stop is closed.
func streamEvents(broker *notify.Broker, stop <-chan struct{}) echo.HandlerFunc {
	return func(c echo.Context) error {
		w := c.Response()
		flusher, ok := w.Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		w.Header().Set(echo.HeaderContentType, "text/event-stream")
		w.Header().Set(echo.HeaderCacheControl, "no-cache")
		w.Header().Set(echo.HeaderConnection, "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		ctx := c.Request().Context()
		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		if _, err := w.Write([]byte(": connected\n\n")); err != nil {
			return nil
		}
		flusher.Flush()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-stop:
				return nil
			case data := <-ch:
				if _, err := w.Write([]byte("data: ")); err != nil {
					return nil
				}
				if _, err := w.Write(data); err != nil {
					return nil
				}
				if _, err := w.Write([]byte("\n\n")); err != nil {
					return nil
				}
				flusher.Flush()
			}
		}
	}
}
