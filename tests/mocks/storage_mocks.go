package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/webrana-attachments/internal/storage"
)

// MockFileStorage implements storage.FileStorage
type MockFileStorage struct {
	mock.Mock
}

// Root returns the web root
func (m *MockFileStorage) Root() string {
	args := m.Called()
	return args.String(0)
}

// Resolve maps a relative path to an absolute one
func (m *MockFileStorage) Resolve(relPath string) (string, error) {
	args := m.Called(relPath)
	return args.String(0), args.Error(1)
}

// Relative maps an absolute path back under the web root
func (m *MockFileStorage) Relative(absPath string) (string, error) {
	args := m.Called(absPath)
	return args.String(0), args.Error(1)
}

// CheckDestination applies the collision policy to a destination
func (m *MockFileStorage) CheckDestination(relPath string, policy storage.CollisionPolicy) (string, error) {
	args := m.Called(relPath, policy)
	return args.String(0), args.Error(1)
}

// Move moves a spooled file into the web root
func (m *MockFileStorage) Move(srcPath, relPath string, policy storage.CollisionPolicy) error {
	args := m.Called(srcPath, relPath, policy)
	return args.Error(0)
}

// Restore moves a stored file back out of the web root
func (m *MockFileStorage) Restore(relPath, dstPath string) error {
	args := m.Called(relPath, dstPath)
	return args.Error(0)
}

// Exists reports whether a stored file exists
func (m *MockFileStorage) Exists(relPath string) (bool, error) {
	args := m.Called(relPath)
	return args.Bool(0), args.Error(1)
}

// Get retrieves a file by its path
func (m *MockFileStorage) Get(relPath string) (io.ReadCloser, error) {
	args := m.Called(relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Delete removes a file by its path
func (m *MockFileStorage) Delete(relPath string) error {
	args := m.Called(relPath)
	return args.Error(0)
}

var _ storage.FileStorage = (*MockFileStorage)(nil)
