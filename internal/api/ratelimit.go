package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Export endpoints render a whole document per request (the SVG map
// alone is a few hundred kilobytes), so they sit behind a fixed-window
// quota. The window is keyed per client AND per export route: pulling
// the CSV must not eat into the SVG budget.

const quotaSweepThreshold = 1024

type exportQuota struct {
	budget int
	period time.Duration

	mu   sync.Mutex
	open map[string]*quotaWindow
}

type quotaWindow struct {
	used    int
	started time.Time
}

func newExportQuota(budget int, period time.Duration) *exportQuota {
	return &exportQuota{
		budget: budget,
		period: period,
		open:   make(map[string]*quotaWindow),
	}
}

// take consumes one request from the key's current window. When the
// quota is exhausted it returns false and the seconds until the window
// rolls over, for the Retry-After header.
func (q *exportQuota) take(key string) (bool, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	win, ok := q.open[key]
	if !ok || now.Sub(win.started) >= q.period {
		if len(q.open) > quotaSweepThreshold {
			q.sweep(now)
		}
		q.open[key] = &quotaWindow{used: 1, started: now}
		return true, 0
	}
	if win.used < q.budget {
		win.used++
		return true, 0
	}
	retry := int(win.started.Add(q.period).Sub(now).Seconds()) + 1
	return false, retry
}

// sweep drops expired windows. Runs under the quota lock, triggered
// opportunistically from take rather than by a background goroutine.
func (q *exportQuota) sweep(now time.Time) {
	for key, win := range q.open {
		if now.Sub(win.started) >= q.period {
			delete(q.open, key)
		}
	}
}

// limit wraps an export handler with the quota.
func (q *exportQuota) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, retry := q.take(clientKey(r) + " " + r.URL.Path)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			http.Error(w, "export quota exhausted", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientKey identifies the caller: the first X-Forwarded-For hop when
// a proxy is in front, otherwise the connection address without its
// port.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
