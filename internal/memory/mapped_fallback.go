//go:build !unix

package memory

// NewMapped returns a heap backing where anonymous mappings are unavailable.
func NewMapped(size int) (Backing, error) {
	return NewHeap(size)
}
