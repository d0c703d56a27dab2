package dispatcher

import (
	"crypto/tls"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPPool round-robins punitive REST calls across a small set of warm
// fasthttp clients so a slow ban never queues behind another.
type HTTPPool struct {
	clients []*fasthttp.Client
	size    uint32
	index   atomic.Uint32
}

func NewHTTPPool(size int) *HTTPPool {
	if size < 1 {
		size = 1
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ClientSessionCache: tls.NewLRUClientSessionCache(64),
	}

	clients := make([]*fasthttp.Client, size)
	for i := 0; i < size; i++ {
		clients[i] = &fasthttp.Client{
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 90 * time.Second,
			ReadTimeout:         5 * time.Second,
			WriteTimeout:        5 * time.Second,
			TLSConfig:           tlsConfig,
		}
	}

	return &HTTPPool{clients: clients, size: uint32(size)}
}

// GetClient is safe for concurrent workers.
func (hp *HTTPPool) GetClient() *fasthttp.Client {
	n := hp.index.Add(1) - 1
	return hp.clients[n%hp.size]
}
