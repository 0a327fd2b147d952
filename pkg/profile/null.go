package profile

import "context"

// NullStore is a no-op store that never keeps anything.
// Useful for testing or when learning should not persist.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Load always reports a missing profile.
func (s *NullStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	return nil, false, nil
}

// Save does nothing.
func (s *NullStore) Save(ctx context.Context, name string, data []byte) error {
	return nil
}

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, name string) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
