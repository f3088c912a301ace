package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/oklahomer/go-kasumi/logger"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const indent = "    "

var idPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{1,64}$`)

// StoreOption defines a function signature for Store's functional options.
type StoreOption func(*Store)

// WithIdentityLock serialises read-modify-write cycles per identity ID.
// Without this option concurrent writers to the same ID race and the last full write wins.
func WithIdentityLock() StoreOption {
	return func(store *Store) {
		store.locks = &identityLocks{locks: map[string]*identityLock{}}
	}
}

// Store persists one JSON document per identity under a root directory.
type Store struct {
	dir   string
	locks *identityLocks
}

// NewStore creates a Store rooted at dir. The directory is created on the first write.
func NewStore(dir string, options ...StoreOption) *Store {
	store := &Store{
		dir: dir,
	}

	for _, opt := range options {
		opt(store)
	}

	return store
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file that holds the document of the given identity.
func (s *Store) Path(id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Read returns the document of the given identity, or nil.
// A missing file, malformed JSON, a missing discriminator and I/O errors all yield nil.
// Use Lookup to tell them apart.
func (s *Store) Read(id string) Document {
	doc, err := s.Lookup(id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Debugf("Treating settings of %s as absent: %+v", id, err)
		}
		return nil
	}
	return doc
}

// Lookup returns the document of the given identity.
// The error is ErrNotFound, ErrCorrupt, ErrInvalidID or an *IOError.
func (s *Store) Lookup(id string) (Document, error) {
	data, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// ReadUserConfig returns the document of the given identity as a user configuration, or nil.
// The discriminator is not checked: a server document is projected onto UserConfig.
func (s *Store) ReadUserConfig(id string) *UserConfig {
	switch doc := s.Read(id).(type) {
	case *UserConfig:
		return doc

	case *ServerConfig:
		return &UserConfig{Type: doc.Type, Language: doc.Language}

	default:
		return nil
	}
}

// ReadServerConfig returns the document of the given identity as a server configuration, or nil.
// The discriminator is not checked: a user document is projected onto ServerConfig.
func (s *Store) ReadServerConfig(id string) *ServerConfig {
	switch doc := s.Read(id).(type) {
	case *ServerConfig:
		return doc

	case *UserConfig:
		return &ServerConfig{Type: doc.Type, Language: doc.Language}

	default:
		return nil
	}
}

// Raw returns the stored bytes of the given identity's document without decoding them.
func (s *Store) Raw(id string) ([]byte, error) {
	return s.load(id)
}

// Write sets key to value in the identity's document.
// Nothing is written when the identity has no document yet. Failures are logged, never returned.
func (s *Store) Write(id string, key string, value any) {
	err := s.Set(id, key, value)
	if err == nil {
		return
	}

	if errors.Is(err, ErrNotFound) {
		logger.Debugf("Skipping write of %q for %s: no settings document.", key, id)
		return
	}
	logger.Errorf("Failed to write %q for %s: %+v", key, id, err)
}

// Set sets key to value in the identity's document and rewrites the whole file.
// Keys already present, including keys this package does not know, keep their place and value.
func (s *Store) Set(id string, key string, value any) error {
	unlock := s.lock(id)
	defer unlock()

	data, err := s.load(id)
	if err != nil {
		return err
	}

	doc, err := decode(data)
	if err != nil {
		return err
	}

	if !Writable(doc.Kind(), key) {
		return fmt.Errorf("%w: %q on %s document", ErrUnknownKey, key, doc.Kind())
	}

	updated, err := sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	if !validValue(doc.Kind(), gjson.ParseBytes(updated), key) {
		return fmt.Errorf("%w: %q=%v", ErrInvalidValue, key, value)
	}

	return s.store(id, updated)
}

// Create stores doc for the given identity unless a document already exists.
func (s *Store) Create(id string, doc Document) error {
	unlock := s.lock(id)
	defer unlock()

	path, err := s.Path(id)
	if err != nil {
		return err
	}

	doc.stamp()
	data, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", doc.Kind(), err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &IOError{Op: "create", ID: id, Err: err}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return &IOError{Op: "create", ID: id, Err: err}
	}

	_, err = file.Write(data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &IOError{Op: "create", ID: id, Err: err}
	}

	return nil
}

func (s *Store) load(id string) ([]byte, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &IOError{Op: "read", ID: id, Err: err}
	}

	return data, nil
}

// store pretty-prints data and replaces the identity's file through a temporary file and rename.
func (s *Store) store(id string, data []byte) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	// Each writer gets its own temporary file so that unlocked writers never rename each other's data.
	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", ID: id, Err: err}
	}

	_, err = tmp.Write(buf.Bytes())
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return &IOError{Op: "write", ID: id, Err: err}
	}

	return nil
}

func (s *Store) lock(id string) func() {
	if s.locks == nil {
		return func() {}
	}
	return s.locks.lock(id)
}

// identityLocks hands out one mutex per identity ID and forgets it once nobody holds or waits for it.
type identityLocks struct {
	mu    sync.Mutex
	locks map[string]*identityLock
}

type identityLock struct {
	mu   sync.Mutex
	refs int
}

func (l *identityLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &identityLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
