package customHttpClient

import (
	"net/http"
	"sync"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
)

var (
	transportOnce   sync.Once
	customTransport *http.Transport
)

func pooledTransport() *http.Transport {
	transportOnce.Do(func() {
		customTransport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        config.MaxIdleConns,
			MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			IdleConnTimeout:     config.IdleConnTimeout,
		}
	})
	return customTransport
}

// NewPooledClient returns a client sharing one keep-alive transport across the
// process, so embedder calls reuse connections.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: pooledTransport(),
		Timeout:   timeout,
	}
}
