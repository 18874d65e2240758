// Package labnet identifies which lab network an instance address belongs to,
// so the user knows which VPN pack reaches it.
package labnet

import (
	"net"

	"github.com/c-robinson/iplib"
)

type Network struct {
	Label string
	CIDR  string
	net   iplib.Net
}

var known = []struct{ cidr, label string }{
	{"10.10.10.0/23", "Labs"},
	{"10.129.0.0/16", "Labs"},
	{"10.13.37.0/24", "Fortresses"},
	{"10.10.110.0/24", "Pro Labs"},
	{"10.10.14.0/23", "Labs VPN clients"},
}

var networks = mustParse()

func mustParse() []Network {
	out := make([]Network, 0, len(known))
	for _, k := range known {
		_, n, err := iplib.ParseCIDR(k.cidr)
		if err != nil {
			panic(err)
		}
		out = append(out, Network{Label: k.label, CIDR: k.cidr, net: n})
	}
	return out
}

// Lookup returns the lab network containing addr. addr may carry a port.
func Lookup(addr string) (Network, bool) {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return Network{}, false
	}
	for _, n := range networks {
		if n.net.Contains(ip) {
			return n, true
		}
	}
	return Network{}, false
}
