//go:build baremetal

package mmio

import "unsafe"

// Direct returns the window over the SFR block of the running part.
func Direct(l Layout) *Window {
	// SFRBase is a fixed physical address, not a Go heap pointer; it is
	// reinterpreted in place rather than converted from uintptr.
	addr := uintptr(l.SFRBase)
	p := *(*unsafe.Pointer)(unsafe.Pointer(&addr))
	return NewWindow(unsafe.Slice((*byte)(p), l.SFRSize), l.SFRBase)
}
