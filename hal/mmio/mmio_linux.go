//go:build linux

package mmio

import (
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is a Window backed by an mmap of a memory device.
type Mapping struct {
	*Window
	f *os.File
}

// Map maps size bytes of path (normally /dev/mem) at physical offset phys
// and presents them as the registers at bus address base.
func Map(path string, phys int64, base uint32, size int) (*Mapping, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	mem, err := unix.Mmap(int(f.Fd()), phys, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Mapping{Window: NewWindow(mem, base), f: f}, nil
}

// MapLayout maps the SFR block of l from /dev/mem.
func MapLayout(l Layout) (*Mapping, error) {
	return Map("/dev/mem", l.SFRPhys, l.SFRBase, l.SFRSize)
}

func (m *Mapping) Close() error {
	err := unix.Munmap(m.mem)
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
