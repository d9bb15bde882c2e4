package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ashkhen/user-accounts-service/internal/config"
)

// recordingWriter forwards every write to the client while keeping a
// capped copy for the cache. seen counts every byte the handler wrote,
// including bytes past the cap.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
	seen   int64
	limit  int64 // capture cap in bytes; <= 0 means unlimited
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if room := w.room(); room != 0 {
		if room < 0 || int64(len(b)) <= room {
			w.body.Write(b)
		} else {
			w.body.Write(b[:room])
		}
	}
	w.seen += int64(len(b))
	return w.ResponseWriter.Write(b)
}

// room reports how many more bytes fit in the capture buffer.
// Negative means unbounded, zero means full.
func (w *recordingWriter) room() int64 {
	if w.limit <= 0 {
		return -1
	}
	if n := w.limit - int64(w.body.Len()); n > 0 {
		return n
	}
	return 0
}

// cacheable reports whether the complete response fit in the buffer.
func (w *recordingWriter) cacheable() bool {
	return w.limit <= 0 || w.seen <= w.limit
}

// cacheKeyFrom derives the Redis key for a request; the variable part
// is hashed.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	route := c.Path()
	method := c.Request().Method
	query := c.Request().URL.RawQuery

	var ident string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		ident = "route:" + route
	case "method_route":
		ident = "method:" + method + ":route:" + route
	case "method_route_query":
		ident = "method:" + method + ":route:" + route + ":q:" + query
	default: // route_query
		ident = "route:" + route + ":q:" + query
	}

	sum := sha1.Sum([]byte(ident))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// Cached payload layout: status and header length as big‑endian
// uint32s, then the JSON‑encoded headers, then the raw body.
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:], uint32(len(hdrJSON)))
	out = append(out, hdrJSON...)
	out = append(out, body...)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || len(bs)-8 < hlen {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// serveCached replays a stored response. Content-Length is left for
// the server to recompute.
func serveCached(c echo.Context, bs []byte) bool {
	status, header, body, ok := decodePayload(bs)
	if !ok {
		return false
	}
	out := c.Response().Header()
	for k, vals := range header {
		for _, v := range vals {
			out.Add(k, v)
		}
	}
	out.Set("X-Cache", "HIT")
	c.Response().WriteHeader(status)
	if len(body) > 0 {
		_, _ = c.Response().Write(body)
	}
	return true
}

// NewRedisCache returns a middleware that serves successful responses
// from Redis, headers included, so clients see identical formatting on
// a HIT. The role directory is the intended target: it only changes
// through migrations, so entries may live out their full TTL without
// going stale. With caching disabled or no Redis client available the
// middleware is a no-op. Responses other than 200, and responses
// larger than the configured body cap, pass through unstored.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			key := cacheKeyFrom(cfg, c)
			if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil && serveCached(c, bs) {
				return nil
			}

			rec := &recordingWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && rec.cacheable() {
				hdr := c.Response().Header().Clone()
				hdr.Del("X-Cache")
				hdr.Del("Content-Length")
				if payload, err := encodePayload(rec.status, hdr, rec.body.Bytes()); err == nil {
					// The request context may already be done once the
					// response is out; the store must still happen.
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}
