// Package discovery finds network-attached RASDR units via mDNS.
package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const service = "_rasdr._tcp"

// Unit is a discovered network-attached receiver.
type Unit struct {
	Instance  string
	Hostname  string
	Addresses []net.IP
	Port      int
	TXT       []string
}

// Browse performs a blocking mDNS browse for receiver units and returns
// cleaned, deduplicated entries.
func Browse(timeout time.Duration) ([]Unit, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("resolver error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	results := make(map[string]Unit)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case e, ok := <-entries:
				if !ok {
					return
				}
				if e == nil {
					continue
				}
				addrs := make([]net.IP, 0, len(e.AddrIPv4)+len(e.AddrIPv6))
				addrs = append(addrs, e.AddrIPv4...)
				addrs = append(addrs, e.AddrIPv6...)

				key := fmt.Sprintf("%s|%d", e.HostName, e.Port)
				results[key] = Unit{
					Instance:  cleanInstance(e.Instance),
					Hostname:  e.HostName,
					Addresses: addrs,
					Port:      e.Port,
					TXT:       append([]string{}, e.Text...),
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, service, "local.", entries); err != nil {
		return nil, fmt.Errorf("browse error: %w", err)
	}

	<-done

	out := make([]Unit, 0, len(results))
	for _, u := range results {
		out = append(out, u)
	}
	return out, nil
}

// cleanInstance removes zeroconf escape sequences: "\ " => " ".
func cleanInstance(s string) string {
	return strings.ReplaceAll(s, `\ `, " ")
}
