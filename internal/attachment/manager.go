// Package attachment moves uploaded files into the web root on save, stores
// their relative path on the owning record, and removes them when the record
// is deleted.
//
// A host drives the stages explicitly: Validate, then Commit, inside its save
// pipeline; CaptureForDeletion before the row is removed and FinalizeDeletion
// after.
package attachment

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/welldanyogia/webrana-attachments/internal/storage"
)

// Reporter receives attachment lifecycle events. CleanupFailed is the only
// channel through which post-deletion failures surface besides the returned error.
type Reporter interface {
	AttachmentStored(recordType, recordID, field, path string)
	AttachmentCleared(recordType, recordID, field string)
	AttachmentRemoved(field, path string)
	CleanupFailed(field, path string, err error)
}

type nopReporter struct{}

func (nopReporter) AttachmentStored(string, string, string, string) {}
func (nopReporter) AttachmentCleared(string, string, string)        {}
func (nopReporter) AttachmentRemoved(string, string)                {}
func (nopReporter) CleanupFailed(string, string, error)             {}

// Option customises a Manager.
type Option func(*Manager)

// WithCollisionPolicy sets what happens when a destination already exists.
func WithCollisionPolicy(p storage.CollisionPolicy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithReporter routes lifecycle events to r.
func WithReporter(r Reporter) Option {
	return func(m *Manager) {
		if r != nil {
			m.reporter = r
		}
	}
}

// WithMaxSize sets the size limit for fields without their own.
func WithMaxSize(n int64) Option {
	return func(m *Manager) { m.maxSize = n }
}

// WithFilenameFunc sets the generator used for records that do not implement FilenameGenerator.
func WithFilenameFunc(fn FilenameFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.filename = fn
		}
	}
}

// Manager handles the attachment fields of one record type. Its configuration
// is fixed at construction and safe to share between goroutines.
type Manager struct {
	recordType string
	fields     []FieldConfig
	store      storage.FileStorage
	policy     storage.CollisionPolicy
	maxSize    int64
	filename   FilenameFunc
	reporter   Reporter
}

// NewManager builds a manager for recordType. An empty field list selects the
// built-in image field.
func NewManager(recordType string, fields []FieldConfig, store storage.FileStorage, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("attachment manager for %q: storage is required", recordType)
	}
	merged, err := mergeDefaults(fields)
	if err != nil {
		return nil, fmt.Errorf("attachment manager for %q: %w", recordType, err)
	}

	m := &Manager{
		recordType: recordType,
		fields:     merged,
		store:      store,
		policy:     storage.CollisionOverwrite,
		maxSize:    storage.MaxFileSize,
		filename:   HashFilename,
		reporter:   nopReporter{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// RecordType returns the record type this manager was built for.
func (m *Manager) RecordType() string {
	return m.recordType
}

// Fields returns a copy of the effective field configuration, in order.
func (m *Manager) Fields() []FieldConfig {
	out := make([]FieldConfig, len(m.fields))
	for i, f := range m.fields {
		f.AllowedExtensions = slices.Clone(f.AllowedExtensions)
		out[i] = f
	}
	return out
}

// FieldNames returns the configured field names, in order.
func (m *Manager) FieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Field
	}
	return names
}

func (m *Manager) limit(f FieldConfig) int64 {
	if f.MaxSize > 0 {
		return f.MaxSize
	}
	return m.maxSize
}

// Validate checks the submitted uploads against the field rules. It never
// mutates rec, and Commit must not be called when it returns errors.
func (m *Manager) Validate(rec Record, uploads Uploads) ValidationErrors {
	var errs ValidationErrors
	for _, f := range m.fields {
		errs = append(errs, m.validateField(rec, f, uploads[f.Field])...)
	}
	return errs
}

func (m *Manager) validateField(rec Record, f FieldConfig, up *PendingUpload) ValidationErrors {
	var errs ValidationErrors
	uploadFailed := func(code UploadError) {
		errs = append(errs, ValidationError{Field: f.Field, Kind: KindUploadFailed, Message: msgUploadFailed, Upload: code})
	}

	switch {
	case up == nil:
		// nothing submitted: existing value is kept
		if f.Required && rec.Field(f.Field) == "" {
			uploadFailed(UploadErrorNoFile)
		}

	case up.Empty():
		// a part was sent without a file: a transport failure on any field,
		// or no file at all on a required one
		switch {
		case !up.clears():
			uploadFailed(up.Error)
		case f.Required:
			uploadFailed(UploadErrorNoFile)
		}

	default:
		blocked := storage.CheckUpload(up.OriginalName, 0, 0) != nil
		if blocked || (f.Required && !f.Allows(up.Extension())) {
			errs = append(errs, ValidationError{Field: f.Field, Kind: KindInvalidExtension, Message: msgInvalidExtension})
		}
		if up.Error != UploadErrorNone {
			uploadFailed(up.Error)
		}
		if err := storage.CheckUpload("", up.Size, m.limit(f)); err != nil {
			errs = append(errs, ValidationError{Field: f.Field, Kind: KindFileTooLarge, Message: msgFileTooLarge})
		}
	}
	return errs
}

// StoredAttachment is the outcome of Commit for one field.
type StoredAttachment struct {
	Field string
	// Path is the new relative value; empty when the field was cleared.
	Path     string
	Previous string
}

// CommitResult lists the fields Commit stored or cleared.
type CommitResult struct {
	Stored  []StoredAttachment
	Cleared []StoredAttachment
}

type plannedMove struct {
	field FieldConfig
	src   string
	dest  string
	prev  string
}

// Commit moves every fresh upload into its upload directory and rewrites the
// record's fields, in configuration order. Optional fields submitted without a
// file and without a transfer error are cleared; anything else is left untouched. All destinations are checked
// before the first move; if a move still fails, earlier moves are reverted
// and rec is unchanged.
func (m *Manager) Commit(rec Record, uploads Uploads) (*CommitResult, error) {
	var moves []plannedMove
	var clears []StoredAttachment
	dests := make(map[string]string)

	for _, f := range m.fields {
		up := uploads[f.Field]
		switch {
		case up != nil && !up.Empty():
			move, err := m.plan(rec, f, up)
			if err != nil {
				return nil, err
			}
			if other, dup := dests[move.dest]; dup {
				return nil, &StorageError{Field: f.Field, Op: "plan", Err: fmt.Errorf("destination %s already used by %s", move.dest, other)}
			}
			dests[move.dest] = f.Field
			moves = append(moves, move)

		case up.clears() && !f.Required:
			clears = append(clears, StoredAttachment{Field: f.Field, Previous: rec.Field(f.Field)})
		}
	}

	for i, mv := range moves {
		if err := m.store.Move(mv.src, mv.dest, m.policy); err != nil {
			m.revert(moves[:i])
			return nil, &StorageError{Field: mv.field.Field, Op: "move", Err: err}
		}
	}

	result := &CommitResult{Cleared: clears}
	for _, mv := range moves {
		rec.SetField(mv.field.Field, mv.dest)
		result.Stored = append(result.Stored, StoredAttachment{Field: mv.field.Field, Path: mv.dest, Previous: mv.prev})
		m.reporter.AttachmentStored(m.recordType, rec.RecordID(), mv.field.Field, mv.dest)
	}
	for _, c := range clears {
		rec.SetField(c.Field, "")
		m.reporter.AttachmentCleared(m.recordType, rec.RecordID(), c.Field)
	}
	return result, nil
}

func (m *Manager) plan(rec Record, f FieldConfig, up *PendingUpload) (plannedMove, error) {
	name, err := m.generateFilename(rec, f.Field, up)
	if err != nil {
		return plannedMove{}, &StorageError{Field: f.Field, Op: "generate filename", Err: err}
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return plannedMove{}, &StorageError{Field: f.Field, Op: "generate filename", Err: fmt.Errorf("%w: %q", storage.ErrPathTraversal, name)}
	}

	dest := f.UploadDir + name
	if _, err := os.Stat(up.TemporaryPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", storage.ErrSourceNotFound, up.TemporaryPath)
		}
		return plannedMove{}, &StorageError{Field: f.Field, Op: "move", Err: err}
	}
	if _, err := m.store.CheckDestination(dest, m.policy); err != nil {
		return plannedMove{}, &StorageError{Field: f.Field, Op: "move", Err: err}
	}
	return plannedMove{field: f, src: up.TemporaryPath, dest: dest, prev: rec.Field(f.Field)}, nil
}

func (m *Manager) generateFilename(rec Record, field string, up *PendingUpload) (string, error) {
	if gen, ok := rec.(FilenameGenerator); ok {
		return gen.GenerateFilename(field, up)
	}
	return m.filename(rec, field, up)
}

// revert puts already moved files back at their temporary paths.
func (m *Manager) revert(moves []plannedMove) {
	for i := len(moves) - 1; i >= 0; i-- {
		mv := moves[i]
		if err := m.store.Restore(mv.dest, mv.src); err != nil {
			m.reporter.CleanupFailed(mv.field.Field, mv.dest, err)
		}
	}
}

// CapturedPaths maps field names to the absolute files to remove once the
// record's row is gone.
type CapturedPaths map[string]string

// CaptureForDeletion resolves the files referenced by rec. It must run while
// the record's stored values are still readable, before its row is removed.
// Empty fields and values that resolve outside the web root are skipped.
func (m *Manager) CaptureForDeletion(rec Record) CapturedPaths {
	captured := make(CapturedPaths, len(m.fields))
	for _, f := range m.fields {
		value := rec.Field(f.Field)
		if value == "" {
			continue
		}
		abs, err := m.resolve(f, value)
		if err != nil {
			m.reporter.CleanupFailed(f.Field, value, err)
			continue
		}
		captured[f.Field] = abs
	}
	return captured
}

// resolve maps a stored field value to an absolute path. Values are stored
// with their upload directory; bare names get it prepended.
func (m *Manager) resolve(f FieldConfig, value string) (string, error) {
	rel := value
	if !strings.HasPrefix(rel, f.UploadDir) {
		rel = f.UploadDir + rel
	}
	return m.store.Resolve(rel)
}

// FinalizeDeletion removes the captured files. Missing files are skipped, so
// calling it twice is harmless. Failures are reported and joined into the
// returned error, which callers log rather than treat as fatal.
func (m *Manager) FinalizeDeletion(captured CapturedPaths) error {
	fields := make([]string, 0, len(captured))
	for field := range captured {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var errs []error
	for _, field := range fields {
		abs := captured[field]
		if err := m.remove(abs); err != nil {
			cleanupErr := &CleanupError{Field: field, Path: abs, Err: err}
			m.reporter.CleanupFailed(field, abs, err)
			errs = append(errs, cleanupErr)
			continue
		}
		m.reporter.AttachmentRemoved(field, abs)
	}
	return errors.Join(errs...)
}

func (m *Manager) remove(abs string) error {
	rel, err := m.store.Relative(abs)
	if err != nil {
		return err
	}
	return m.store.Delete(rel)
}

// Superseded returns the files a successful commit stopped referencing: the
// previous value of a cleared field, or of a stored field whose path changed.
func (m *Manager) Superseded(result *CommitResult) CapturedPaths {
	out := make(CapturedPaths)
	if result == nil {
		return out
	}
	add := func(s StoredAttachment) {
		if s.Previous == "" || s.Previous == s.Path {
			return
		}
		f, ok := m.field(s.Field)
		if !ok {
			return
		}
		if abs, err := m.resolve(f, s.Previous); err == nil {
			out[s.Field] = abs
		}
	}
	for _, s := range result.Stored {
		add(s)
	}
	for _, c := range result.Cleared {
		add(c)
	}
	return out
}

// Discard removes files stored by a commit whose record save was then rolled
// back. A file written over the previous value at the same path is kept: the
// old bytes are already gone, so the restored row points at the new content.
// Use the fail collision policy where that matters.
func (m *Manager) Discard(result *CommitResult) error {
	if result == nil {
		return nil
	}
	fresh := make(CapturedPaths)
	for _, s := range result.Stored {
		if s.Path == s.Previous {
			continue
		}
		if abs, err := m.store.Resolve(s.Path); err == nil {
			fresh[s.Field] = abs
		}
	}
	return m.FinalizeDeletion(fresh)
}

func (m *Manager) field(name string) (FieldConfig, bool) {
	for _, f := range m.fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldConfig{}, false
}
