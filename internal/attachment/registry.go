package attachment

import (
	"fmt"
	"sort"
	"sync"

	"github.com/welldanyogia/webrana-attachments/internal/storage"
)

// Registry holds one Manager per record type. Types are configured once at
// startup; lookups may then happen concurrently.
type Registry struct {
	mu       sync.RWMutex
	store    storage.FileStorage
	opts     []Option
	managers map[string]*Manager
}

// NewRegistry creates a registry whose managers share store and opts.
func NewRegistry(store storage.FileStorage, opts ...Option) *Registry {
	return &Registry{
		store:    store,
		opts:     opts,
		managers: make(map[string]*Manager),
	}
}

// Configure registers the attachment fields of prototype's record type.
// Every field must exist on the record type, and a type can be configured
// only once.
func (r *Registry) Configure(prototype Record, fields ...FieldConfig) (*Manager, error) {
	recordType := prototype.RecordType()

	m, err := NewManager(recordType, fields, r.store, r.opts...)
	if err != nil {
		return nil, err
	}
	for _, name := range m.FieldNames() {
		if !prototype.HasField(name) {
			return nil, fmt.Errorf("attachment manager for %q: record has no field %q", recordType, name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.managers[recordType]; exists {
		return nil, fmt.Errorf("attachment manager for %q already configured", recordType)
	}
	r.managers[recordType] = m
	return m, nil
}

// For returns the manager of recordType.
func (r *Registry) For(recordType string) (*Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[recordType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecordType, recordType)
	}
	return m, nil
}

// RecordTypes lists configured record types in name order.
func (r *Registry) RecordTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.managers))
	for t := range r.managers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
