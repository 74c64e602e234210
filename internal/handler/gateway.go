package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"krishimitra/internal/cache"
	"krishimitra/internal/logger"
)

const offlinePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>KrishiMitra - Offline</title></head>
<body>
<h1>You are offline</h1>
<p>KrishiMitra needs a connection for this page. Cached data is still
available from screens you have already visited.</p>
</body>
</html>`

// Gateway intercepts GET requests and decides between cache, network and a
// synthesized offline placeholder, so the app stays partially usable without
// connectivity. API calls are network-first with cache fallback; static
// assets are cache-first. Non-GET requests pass straight through.
type Gateway struct {
	store     cache.Store
	namespace string
	backend   *url.URL
	client    *http.Client

	pending sync.WaitGroup
}

func NewGateway(store cache.Store, namespace, backendURL string, timeout time.Duration) (*Gateway, error) {
	u, err := url.Parse(backendURL)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		store:     store,
		namespace: namespace,
		backend:   u,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// Activate purges every cache namespace except the current one. Run once at
// startup, before serving; afterwards exactly one namespace is live.
func (g *Gateway) Activate(ctx context.Context) error {
	namespaces, err := g.store.Namespaces(ctx)
	if err != nil {
		return err
	}
	for _, ns := range namespaces {
		if ns == g.namespace {
			continue
		}
		if err := g.store.DeleteNamespace(ctx, ns); err != nil {
			return err
		}
		logger.Info("gateway.namespace_purged", "namespace", ns)
	}
	logger.Info("gateway.activated", "namespace", g.namespace)
	return nil
}

// Flush waits for in-flight cache writes. Call on shutdown.
func (g *Gateway) Flush() { g.pending.Wait() }

func (g *Gateway) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "namespace": g.namespace})
	})
	r.NoRoute(g.Handle)
}

func (g *Gateway) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		g.passthrough(c)
		return
	}
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		g.networkFirst(c)
		return
	}
	g.cacheFirst(c)
}

// networkFirst serves API calls: fresh data when the network is up, the last
// snapshot when it is down, a placeholder when there is no snapshot.
func (g *Gateway) networkFirst(c *gin.Context) {
	key := requestKey(c.Request)

	status, header, body, err := g.fetch(c.Request)
	if err == nil {
		if status >= 200 && status < 300 {
			g.storeAsync(key, status, header, body)
		}
		serve(c, status, header, body)
		return
	}

	logger.Warn("gateway.network_failed", "url", key, "err", err)
	entry, cacheErr := g.store.Get(c.Request.Context(), g.namespace, key)
	if cacheErr == nil {
		serveCached(c, entry)
		return
	}

	c.JSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error":   "offline",
		"offline": true,
	})
}

// cacheFirst serves static assets and documents: a cached copy wins, the
// network fills misses, and a failure falls back to the offline page for
// navigations.
func (g *Gateway) cacheFirst(c *gin.Context) {
	key := requestKey(c.Request)

	entry, err := g.store.Get(c.Request.Context(), g.namespace, key)
	if err == nil {
		serveCached(c, entry)
		return
	}

	status, header, body, fetchErr := g.fetch(c.Request)
	if fetchErr == nil {
		if status >= 200 && status < 300 {
			g.storeAsync(key, status, header, body)
		}
		serve(c, status, header, body)
		return
	}

	logger.Warn("gateway.network_failed", "url", key, "err", fetchErr)
	if isNavigation(c.Request) {
		c.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", []byte(offlinePage))
		return
	}
	c.String(http.StatusServiceUnavailable, "service unavailable")
}

// passthrough forwards non-GET requests untouched. Mutating requests are
// never cached.
func (g *Gateway) passthrough(c *gin.Context) {
	req, err := g.backendRequest(c.Request, c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "bad gateway"})
		return
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Warn("gateway.passthrough_failed", "url", requestKey(c.Request), "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "backend unreachable"})
		return
	}
	defer resp.Body.Close()

	copyHeader(c.Writer.Header(), resp.Header)
	c.Status(resp.StatusCode)
	io.Copy(c.Writer, resp.Body)
}

func (g *Gateway) fetch(orig *http.Request) (int, http.Header, []byte, error) {
	req, err := g.backendRequest(orig, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

func (g *Gateway) backendRequest(orig *http.Request, body io.Reader) (*http.Request, error) {
	target := *orig.URL
	target.Scheme = g.backend.Scheme
	target.Host = g.backend.Host

	req, err := http.NewRequestWithContext(orig.Context(), orig.Method, target.String(), body)
	if err != nil {
		return nil, err
	}
	copyHeader(req.Header, orig.Header)
	return req, nil
}

// storeAsync writes through to the cache off the request path.
func (g *Gateway) storeAsync(key string, status int, header http.Header, body []byte) {
	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := g.store.Put(ctx, g.namespace, &cache.Entry{
			URL:      key,
			Status:   status,
			Header:   header.Clone(),
			Body:     bytes.Clone(body),
			StoredAt: time.Now(),
		})
		if err != nil {
			logger.Warn("gateway.cache_write_failed", "url", key, "err", err)
		}
	}()
}

func serve(c *gin.Context, status int, header http.Header, body []byte) {
	copyHeader(c.Writer.Header(), header)
	c.Status(status)
	c.Writer.Write(body)
}

func serveCached(c *gin.Context, e *cache.Entry) {
	copyHeader(c.Writer.Header(), e.Header)
	c.Header("X-Cache", "HIT")
	c.Status(e.Status)
	c.Writer.Write(e.Body)
}

// requestKey is the cache key: path plus query, host-independent.
func requestKey(r *http.Request) string {
	if r.URL.RawQuery != "" {
		return r.URL.Path + "?" + r.URL.RawQuery
	}
	return r.URL.Path
}

func isNavigation(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}
