// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

// Unit is the empty input or output of a [Func].
//
// For example, [NewEndpointFunc] returns a Func[Unit, string] that
// starts a client pipeline out of nothing.
type Unit struct{}
