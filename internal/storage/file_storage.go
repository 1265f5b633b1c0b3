package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	apperrors "github.com/welldanyogia/webrana-attachments/internal/errors"
)

// Security errors
var (
	ErrPathTraversal     = apperrors.ErrPathTraversal
	ErrDestinationExists = apperrors.ErrDestinationExists
	ErrFileTooLarge      = apperrors.ErrFileTooLarge
	ErrFileNotFound      = errors.New("file not found")
	ErrSourceNotFound    = errors.New("source file not found")
	ErrBlockedExt        = errors.New("file extension is blocked")
	ErrInvalidPolicy     = errors.New("invalid collision policy")
)

// MaxFileSize is the default upload size limit (25 MB)
const MaxFileSize = 25 * 1024 * 1024

// BlockedExtensions contains file extensions that are never stored under the web root
var BlockedExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true,
	".pif": true, ".scr": true, ".vbs": true, ".js": true,
	".jar": true, ".ps1": true, ".sh": true, ".bash": true,
	".msi": true, ".dll": true, ".sys": true, ".php": true,
	".phtml": true, ".cgi": true,
}

// CollisionPolicy decides what happens when a move targets an existing file.
type CollisionPolicy string

const (
	CollisionOverwrite CollisionPolicy = "overwrite"
	CollisionFail      CollisionPolicy = "fail"
)

// ParseCollisionPolicy parses a policy name. An empty name means overwrite.
func ParseCollisionPolicy(name string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", CollisionOverwrite:
		return CollisionOverwrite, nil
	case CollisionFail:
		return CollisionFail, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
}

// FileStorage defines the web-root file operations used by the attachment manager.
// Relative paths always use forward slashes and are resolved against Root.
type FileStorage interface {
	Root() string
	Resolve(relPath string) (string, error)
	Relative(absPath string) (string, error)
	CheckDestination(relPath string, policy CollisionPolicy) (string, error)
	Move(srcPath, relPath string, policy CollisionPolicy) error
	Restore(relPath, dstPath string) error
	Exists(relPath string) (bool, error)
	Get(relPath string) (io.ReadCloser, error)
	Delete(relPath string) error
}

// localStorage implements FileStorage on the local filesystem
type localStorage struct {
	root string
}

// NewLocalStorage creates the web root if needed and returns a storage rooted at it
func NewLocalStorage(root string) (FileStorage, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localStorage{root: abs}, nil
}

// Root returns the absolute web root
func (s *localStorage) Root() string {
	return s.root
}

// validatePath ensures relPath stays inside the root (prevents traversal)
func (s *localStorage) validatePath(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("%w: empty path", ErrFileNotFound)
	}

	// Both separators count, whatever the host OS
	for _, part := range strings.FieldsFunc(relPath, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return "", ErrPathTraversal
		}
	}

	cleanPath := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleanPath) || strings.HasPrefix(relPath, "/") || strings.ContainsAny(relPath, ":\x00") {
		return "", ErrPathTraversal
	}

	fullPath := filepath.Join(s.root, cleanPath)
	if !strings.HasPrefix(fullPath, s.root+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	return fullPath, nil
}

// Resolve maps a stored relative path to its absolute location
func (s *localStorage) Resolve(relPath string) (string, error) {
	return s.validatePath(relPath)
}

// Relative maps an absolute path under the root back to a stored relative path
func (s *localStorage) Relative(absPath string) (string, error) {
	rel, err := filepath.Rel(s.root, filepath.Clean(absPath))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathTraversal, err)
	}
	rel = filepath.ToSlash(rel)
	if _, err := s.validatePath(rel); err != nil {
		return "", err
	}
	return rel, nil
}

// CheckUpload checks an upload's extension against the blocked list and its size against limit.
// A limit of zero or less disables the size check.
func CheckUpload(filename string, size, limit int64) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if BlockedExtensions[ext] {
		return ErrBlockedExt
	}

	if limit > 0 && size > limit {
		return ErrFileTooLarge
	}

	return nil
}

// CheckDestination resolves relPath and applies the collision policy without touching the disk
func (s *localStorage) CheckDestination(relPath string, policy CollisionPolicy) (string, error) {
	fullPath, err := s.validatePath(relPath)
	if err != nil {
		return "", err
	}

	info, err := os.Lstat(fullPath)
	switch {
	case err == nil && info.IsDir():
		return "", fmt.Errorf("destination %s is a directory", relPath)
	case err == nil && policy == CollisionFail:
		return "", fmt.Errorf("%w: %s", ErrDestinationExists, relPath)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("failed to stat destination: %w", err)
	}

	return fullPath, nil
}

// Move relocates srcPath to relPath under the root. The source disappears only once
// the destination is in place; on failure the source is left where it was.
func (s *localStorage) Move(srcPath, relPath string, policy CollisionPolicy) error {
	fullPath, err := s.CheckDestination(relPath, policy)
	if err != nil {
		return err
	}

	if _, err := os.Stat(srcPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, srcPath)
		}
		return fmt.Errorf("failed to stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return moveFile(srcPath, fullPath, policy)
}

// Restore moves a stored file back out of the root, undoing Move
func (s *localStorage) Restore(relPath, dstPath string) error {
	fullPath, err := s.validatePath(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create restore directory: %w", err)
	}
	return moveFile(fullPath, dstPath, CollisionOverwrite)
}

// Exists reports whether a regular file is stored at relPath
func (s *localStorage) Exists(relPath string) (bool, error) {
	fullPath, err := s.validatePath(relPath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Get retrieves a file by its path
func (s *localStorage) Get(relPath string) (io.ReadCloser, error) {
	fullPath, err := s.validatePath(relPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a file by its path. Missing files are not an error.
func (s *localStorage) Delete(relPath string) error {
	fullPath, err := s.validatePath(relPath)
	if err != nil {
		return err
	}

	info, err := os.Lstat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("refusing to delete directory %s", relPath)
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// moveFile renames src to dst, honouring policy. Rename and link keep the file at
// exactly one location; across devices the data is copied, synced and renamed into
// place before the source is removed.
func moveFile(src, dst string, policy CollisionPolicy) error {
	if policy == CollisionFail {
		err := os.Link(src, dst)
		switch {
		case err == nil:
			if err := os.Remove(src); err != nil {
				_ = os.Remove(dst)
				return fmt.Errorf("failed to remove source: %w", err)
			}
			return nil
		case errors.Is(err, os.ErrExist):
			return fmt.Errorf("%w: %s", ErrDestinationExists, filepath.Base(dst))
		default:
			// no hard links across devices or on some filesystems
			return copyAcross(src, dst, policy)
		}
	}

	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return copyAcross(src, dst, policy)
		}
		return fmt.Errorf("failed to move file: %w", err)
	}
	return nil
}

func copyAcross(src, dst string, policy CollisionPolicy) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".move-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmp, in); err != nil {
		cleanup()
		return fmt.Errorf("failed to copy file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close file: %w", err)
	}

	if policy == CollisionFail {
		if err := os.Link(tmpPath, dst); err != nil {
			_ = os.Remove(tmpPath)
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("%w: %s", ErrDestinationExists, filepath.Base(dst))
			}
			return fmt.Errorf("failed to place file: %w", err)
		}
		_ = os.Remove(tmpPath)
	} else if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to place file: %w", err)
	}

	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to remove source: %w", err)
	}
	return nil
}
