package native

import (
	"fmt"
	"os"
	"sync"
)

// ResourceTable maps integer handles to open files. It is shared by every
// evaluator in the process, so all access is serialized.
type ResourceTable struct {
	mu    sync.Mutex
	next  int64
	files map[int64]*os.File
}

// DefaultResources is the process-wide table used by the io provider.
var DefaultResources = NewResourceTable()

func NewResourceTable() *ResourceTable {
	return &ResourceTable{next: 1, files: make(map[int64]*os.File)}
}

// Open opens path for reading and returns its handle.
func (t *ResourceTable) Open(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.files[h] = f
	return h, nil
}

// Get returns the file behind handle h.
func (t *ResourceTable) Get(h int64) (*os.File, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.files[h]
	if !ok {
		return nil, fmt.Errorf("invalid handle: %d", h)
	}
	return f, nil
}

// Close closes and forgets handle h.
func (t *ResourceTable) Close(h int64) error {
	t.mu.Lock()
	f, ok := t.files[h]
	delete(t.files, h)
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("invalid handle: %d", h)
	}
	return f.Close()
}

// Len returns the number of open handles.
func (t *ResourceTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}

// CloseAll closes every open handle.
func (t *ResourceTable) CloseAll() {
	t.mu.Lock()
	files := t.files
	t.files = make(map[int64]*os.File)
	t.mu.Unlock()
	for _, f := range files {
		f.Close()
	}
}
