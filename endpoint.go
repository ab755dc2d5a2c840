// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"net"
	"strconv"
)

// NewEndpointFunc returns a [Func] that always returns the "host:port"
// address of a Gopher server, suitable for [*ConnectFunc].
//
// IPv6 literals are bracketed, so "::1" and 70 yield "[::1]:70".
func NewEndpointFunc(host string, port int) Func[Unit, string] {
	return ConstFunc(net.JoinHostPort(host, strconv.Itoa(port)))
}
