// Package dnscheck wraps hostname resolution as a registration pre-filter.
package dnscheck

import (
	"context"
	"net"
	"time"
)

// hostLookup is the slice of net.Resolver the pre-filter needs.
type hostLookup interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Resolver answers whether a hostname currently resolves. The availability
// checker treats a resolvable record as "registered", which avoids spending
// a metered WHOIS call on it.
type Resolver struct {
	resolver hostLookup
	timeout  time.Duration
}

// New constructs a Resolver using the system resolver.
func New(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		resolver: net.DefaultResolver,
		timeout:  timeout,
	}
}

// Resolves reports whether host has at least one address record. Lookup
// failures (including NXDOMAIN and timeouts) read as "does not resolve";
// the WHOIS check behind this filter supplies the authoritative answer.
func (r *Resolver) Resolves(ctx context.Context, host string) bool {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.resolver.LookupHost(lookupCtx, host)
	return err == nil && len(addrs) > 0
}
