package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/EnesMalik02/checkout-api/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	reqBodyLimit  = 8 * 1024 // 8KB
	respBodyLimit = 8 * 1024 // 8KB
)

type bodyLogWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	if w.buf != nil && w.buf.Len() < respBodyLimit {
		remain := respBodyLimit - w.buf.Len()
		if len(b) > remain {
			w.buf.Write(b[:remain])
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// Buyer PII and gateway credentials must never land in the log file.
func redactJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}
	var m any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw // not JSON
	}
	var scrub func(any) any
	scrub = func(x any) any {
		switch v := x.(type) {
		case map[string]any:
			for k, val := range v {
				kl := strings.ToLower(k)
				if kl == "token" || kl == "secret" || kl == "authorization" ||
					kl == "identitynumber" || kl == "email" || kl == "phone" {
					v[k] = "***redacted***"
					continue
				}
				v[k] = scrub(val)
			}
			return v
		case []any:
			for i := range v {
				v[i] = scrub(v[i])
			}
			return v
		default:
			return v
		}
	}
	out := scrub(m)
	b, err := json.Marshal(out)
	if err != nil {
		return raw
	}
	return b
}

// Logging logs each request/response pair and injects a request-scoped
// slog.Logger into the gin context.
func Logging(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
			c.Request.Header.Set("X-Request-Id", reqID)
		}
		c.Header("X-Request-Id", reqID)

		l := base.With(
			"req_id", reqID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"remote", c.ClientIP(),
		)
		logging.With(c, l)

		var reqBodyLogged string
		ct := c.GetHeader("Content-Type")
		if strings.Contains(ct, "application/json") && c.Request.Body != nil {
			body, _ := io.ReadAll(c.Request.Body)
			_ = c.Request.Body.Close()
			// handlers must see the full body; only the logged copy is capped
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			logged := redactJSON(body)
			if len(logged) > reqBodyLimit {
				// copy: logged may share body's backing array
				reqBodyLogged = string(logged[:reqBodyLimit]) + "...truncated..."
			} else {
				reqBodyLogged = string(logged)
			}
		}

		blw := &bodyLogWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		durMs := time.Since(start).Milliseconds()

		var respBodyLogged string
		if strings.Contains(c.Writer.Header().Get("Content-Type"), "application/json") {
			respBodyLogged = string(redactJSON(blw.buf.Bytes()))
			if blw.buf.Len() >= respBodyLimit {
				respBodyLogged += "...truncated..."
			}
		}

		attrs := []any{
			"status", status,
			"dur_ms", durMs,
		}
		if reqBodyLogged != "" {
			attrs = append(attrs, "req_body", reqBodyLogged)
		}
		if respBodyLogged != "" {
			attrs = append(attrs, "resp_body", respBodyLogged)
		}
		if loc := c.Writer.Header().Get("Location"); loc != "" {
			attrs = append(attrs, "location", loc)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		if status >= http.StatusInternalServerError {
			l.Error("http_request", attrs...)
			return
		}
		l.Info("http_request", attrs...)
	}
}
