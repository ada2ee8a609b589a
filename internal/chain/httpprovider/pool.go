// Package httpprovider supplies the generic JSON-RPC/REST client base every
// per-family Provider embeds: connection pooling and optional node-selection
// across multiple configured endpoints. The pooled resource is an
// *http.Client per endpoint (net/http already pools the underlying TCP
// connections); what this type adds on top is endpoint rotation and
// failure-based exclusion. Retries across endpoints are the caller's
// responsibility.
package httpprovider

import (
	"net/http"
	"sync"
	"time"
)

type endpoint struct {
	url          string
	client       *http.Client
	mu           sync.Mutex
	failures     int
	excludedTill time.Time
}

// EndpointPool rotates requests across a fixed set of RPC endpoints for one
// chain, excluding an endpoint for a cooldown window after each failure.
type EndpointPool struct {
	endpoints []*endpoint

	mu        sync.Mutex
	next      int
	closing   chan struct{}
	closeOnce sync.Once
}

// NewEndpointPool builds a pool over urls, each backed by an *http.Client
// with the given per-request timeout. maxIdleConnsPerHost is applied to
// net/http's own transport pool.
func NewEndpointPool(urls []string, timeout time.Duration, maxIdleConnsPerHost int) *EndpointPool {
	eps := make([]*endpoint, 0, len(urls))
	for _, u := range urls {
		eps = append(eps, &endpoint{
			url: u,
			client: &http.Client{
				Timeout: timeout,
				Transport: &http.Transport{
					MaxIdleConnsPerHost: maxIdleConnsPerHost,
					IdleConnTimeout:     90 * time.Second,
				},
			},
		})
	}
	p := &EndpointPool{endpoints: eps, closing: make(chan struct{})}
	go p.reaper()
	return p
}

// Acquire returns the next eligible (url, *http.Client) pair in round-robin
// order, skipping endpoints currently in their failure cooldown window.
func (p *EndpointPool) Acquire() (string, *http.Client, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.endpoints)
	if n == 0 {
		return "", nil, false
	}
	now := time.Now()
	for i := 0; i < n; i++ {
		idx := (p.next + i) % n
		ep := p.endpoints[idx]
		ep.mu.Lock()
		excluded := now.Before(ep.excludedTill)
		ep.mu.Unlock()
		if !excluded {
			p.next = (idx + 1) % n
			return ep.url, ep.client, true
		}
	}
	return "", nil, false
}

// ReportFailure records a failed call against url and excludes it from
// rotation for a cooldown of 2s per consecutive failure, capped at one
// minute.
func (p *EndpointPool) ReportFailure(url string) {
	for _, ep := range p.endpoints {
		if ep.url != url {
			continue
		}
		ep.mu.Lock()
		ep.failures++
		cooldown := time.Duration(ep.failures) * 2 * time.Second
		if cooldown > time.Minute {
			cooldown = time.Minute
		}
		ep.excludedTill = time.Now().Add(cooldown)
		ep.mu.Unlock()
		return
	}
}

// ReportSuccess clears the failure count for url.
func (p *EndpointPool) ReportSuccess(url string) {
	for _, ep := range p.endpoints {
		if ep.url != url {
			continue
		}
		ep.mu.Lock()
		ep.failures = 0
		ep.excludedTill = time.Time{}
		ep.mu.Unlock()
		return
	}
}

// Close stops the background reaper.
func (p *EndpointPool) Close() {
	p.closeOnce.Do(func() { close(p.closing) })
}

// reaper periodically resets the failure count of every endpoint whose
// cooldown has already expired, so its next failure starts again at the
// shortest cooldown even without an explicit ReportSuccess.
func (p *EndpointPool) reaper() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			for _, ep := range p.endpoints {
				ep.mu.Lock()
				if ep.failures > 0 && now.After(ep.excludedTill) {
					ep.failures = 0
				}
				ep.mu.Unlock()
			}
		case <-p.closing:
			return
		}
	}
}
