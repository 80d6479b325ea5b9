package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNoCredentials signals that no session is persisted.
	ErrNoCredentials = errors.New("session: no stored credentials")
)

// Credentials is the durable record: the bearer token and the identity it was
// issued for. The pair is always written and cleared together so a reader can
// never observe one half without the other.
type Credentials struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Storage persists credentials across restarts.
type Storage interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// FileStorage keeps credentials in a single JSON file, the local analogue of
// the browser's durable key-value storage.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at path. Parent directories
// are created on first save.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("session: empty storage path")
	}
	return &FileStorage{path: path}, nil
}

// Load reads the persisted credential pair.
func (f *FileStorage) Load(_ context.Context) (Credentials, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("session: read storage: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt record is indistinguishable from no record.
		return Credentials{}, ErrNoCredentials
	}
	if creds.Token == "" {
		return Credentials{}, ErrNoCredentials
	}
	return creds, nil
}

// Save writes both fields in one atomic swap so a crash mid-write cannot
// leave a half-written pair behind.
func (f *FileStorage) Save(_ context.Context, creds Credentials) error {
	if creds.Token == "" {
		return fmt.Errorf("session: refusing to save empty token")
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("session: encode credentials: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("session: write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("session: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("session: commit credentials: %w", err)
	}
	return nil
}

// Clear removes the persisted pair. Clearing an empty storage is a no-op.
func (f *FileStorage) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear storage: %w", err)
	}
	return nil
}
