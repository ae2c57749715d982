package rc

import (
	"cmp"
	"reflect"
	"unsafe"
)

// Compare orders handles by raw pointer address.
func Compare[T, U any](a *Shared[T], b *Shared[U]) int {
	return cmp.Compare(addr(a.Get()), addr(b.Get()))
}

// Equal reports whether a and b point at the same address.
func Equal[T, U any](a *Shared[T], b *Shared[U]) bool {
	return Compare(a, b) == 0
}

// Less reports whether a's address orders before b's.
func Less[T, U any](a *Shared[T], b *Shared[U]) bool {
	return Compare(a, b) < 0
}

func addr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}

// OwnerLess orders control blocks by identity. Handles that share
// ownership compare equivalent even when they point at different
// addresses, as aliases do. Pass the results of Owner.
func OwnerLess(a, b ControlBlock) bool {
	return blockAddr(a) < blockAddr(b)
}

func blockAddr(b ControlBlock) uintptr {
	if b == nil {
		return 0
	}
	return reflect.ValueOf(b).Pointer()
}
