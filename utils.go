package bingo

// grow returns s with capacity for at least need elements, doubling the
// current length. The returned slice has len == cap so every slot is
// addressable.
func grow[T any](s []T, need int) []T {
	if need <= len(s) {
		return s
	}
	newLen := max(2*len(s), need)
	ns := make([]T, newLen)
	copy(ns, s)
	return ns
}
