package retort

import (
	"reflect"
	"sync"
)

// processorKey names one scan of answer tags: the struct type whose fields
// were read and the content type of the codec that carries its documents.
type processorKey struct {
	typ         reflect.Type
	contentType string
}

// processors holds one *Processor[T] per key. A struct's answer tags are
// parsed once per process, however many times Use is called.
var (
	processors   = make(map[processorKey]any)
	processorsMu sync.RWMutex
)

func cachedProcessor[T any](key processorKey) (*Processor[T], bool) {
	p, ok := processors[key]
	if !ok {
		return nil, false
	}
	return p.(*Processor[T]), true
}

// Use returns the shared processor for T on codec, scanning T's answer tags
// on first use. Options apply only to that first call; later calls receive
// the processor already built.
func Use[T any](codec Codec, opts ...ProcessorOption) (*Processor[T], error) {
	key := processorKey{typ: reflect.TypeFor[T](), contentType: codec.ContentType()}

	processorsMu.RLock()
	p, ok := cachedProcessor[T](key)
	processorsMu.RUnlock()
	if ok {
		return p, nil
	}

	processorsMu.Lock()
	defer processorsMu.Unlock()

	// Another caller may have scanned T while the write lock was pending.
	if p, ok := cachedProcessor[T](key); ok {
		return p, nil
	}

	p, err := NewProcessor[T](codec, opts...)
	if err != nil {
		return nil, err
	}
	processors[key] = p
	return p, nil
}

// Reset drops every shared processor so the next Use rescans answer tags.
func Reset() {
	processorsMu.Lock()
	defer processorsMu.Unlock()
	processors = make(map[processorKey]any)
}
