package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatTOML     = "toml"
	checksumSuffix = ".checksum"
)

// fileDocument is the on-disk shape of one document. Body is stored as
// a string so it survives all three formats unchanged.
type fileDocument struct {
	ID        string    `json:"id" yaml:"id" toml:"id"`
	OwnerID   string    `json:"ownerId" yaml:"ownerId" toml:"ownerId"`
	Body      string    `json:"body" yaml:"body" toml:"body"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

// documentFile is the on-disk shape of the file backend.
type documentFile struct {
	Documents []fileDocument `json:"documents" yaml:"documents" toml:"documents"`
	Count     int            `json:"count" yaml:"count" toml:"count"`
}

// FileDocumentStore implements DocumentStore over a single data file.
// It supports JSON, YAML, and TOML formats, guards the file with an
// advisory flock, and keeps a SHA-256 checksum sidecar so corruption is
// detected on load. Writes go through a temp file and an atomic rename.
type FileDocumentStore struct {
	filePath string
	format   string
	flk      *flock.Flock
	docs     map[string]Document
}

// NewFileDocumentStore opens (creating if needed) the data file at path
// in the given format ("json", "yaml" or "toml"; empty means json).
func NewFileDocumentStore(path, format string) (*FileDocumentStore, error) {
	if format == "" {
		format = formatJSON
	}
	formatLower := strings.ToLower(format)
	switch formatLower {
	case formatJSON, formatYAML, formatTOML:
	default:
		return nil, fmt.Errorf("unsupported data file format: %s (supported: json, yaml, toml)", format)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s := &FileDocumentStore{
		filePath: path,
		format:   formatLower,
		flk:      flock.New(path),
		docs:     make(map[string]Document),
	}

	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire initial lock for %s: %w", path, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the data file path, used by the watch command.
func (s *FileDocumentStore) Path() string {
	return s.filePath
}

func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadInternal reads the file, verifies the checksum sidecar, and
// unmarshals. The caller must hold the lock.
func (s *FileDocumentStore) loadInternal() error {
	checksumPath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.docs = make(map[string]Document)
			_ = os.Remove(checksumPath)
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			}
			_ = f.Close()
			_ = os.WriteFile(checksumPath, []byte(calculateChecksum(nil)), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, statErr := os.Stat(checksumPath); statErr == nil {
		expectedBytes, readErr := os.ReadFile(checksumPath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumPath, readErr)
		}
		expected := strings.TrimSpace(string(expectedBytes))
		actual := calculateChecksum(data)
		if actual != expected {
			return fmt.Errorf("checksum mismatch for %s: expected %s, got %s - file is corrupt or was modified outside the store", s.filePath, expected, actual)
		}
	} else if !os.IsNotExist(statErr) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumPath, statErr)
	}
	// No checksum file means pre-checksum data; allow it, the next save
	// creates one.

	if len(data) == 0 {
		s.docs = make(map[string]Document)
		return nil
	}

	var df documentFile
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &df); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &df); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &df); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	}

	s.docs = make(map[string]Document, len(df.Documents))
	for _, fd := range df.Documents {
		s.docs[fd.ID] = Document{
			ID:        fd.ID,
			OwnerID:   fd.OwnerID,
			Body:      []byte(fd.Body),
			UpdatedAt: fd.UpdatedAt,
		}
	}
	return nil
}

// saveInternal writes the documents to the data file, then its checksum.
// The caller must hold the lock.
func (s *FileDocumentStore) saveInternal() error {
	df := documentFile{
		Documents: make([]fileDocument, 0, len(s.docs)),
		Count:     len(s.docs),
	}
	for _, doc := range s.docs {
		df.Documents = append(df.Documents, fileDocument{
			ID:        doc.ID,
			OwnerID:   doc.OwnerID,
			Body:      string(doc.Body),
			UpdatedAt: doc.UpdatedAt,
		})
	}

	var marshaled []byte
	var err error
	switch s.format {
	case formatJSON:
		marshaled, err = json.MarshalIndent(df, "", "  ")
	case formatYAML:
		marshaled, err = yaml.Marshal(df)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(df); encodeErr != nil {
			err = encodeErr
		} else {
			marshaled = buf.Bytes()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to marshal documents to %s: %w", s.format, err)
	}

	tempPath := s.filePath + ".tmp"
	checksumPath := s.filePath + checksumSuffix
	tempChecksumPath := checksumPath + ".tmp"
	defer func() { _ = os.Remove(tempPath) }()
	defer func() { _ = os.Remove(tempChecksumPath) }()

	if err := os.WriteFile(tempPath, marshaled, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempPath, err)
	}
	if err := os.WriteFile(tempChecksumPath, []byte(calculateChecksum(marshaled)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumPath, err)
	}
	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file to %s: %w", s.filePath, err)
	}
	if err := os.Rename(tempChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("data file %s updated but checksum file %s was not: %w - store may report corruption on next load", s.filePath, checksumPath, err)
	}
	return nil
}

// withLock reloads fresh state, runs fn, and saves when fn mutated.
func (s *FileDocumentStore) withLock(mutate bool, fn func() error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock data file: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	if mutate {
		if err := s.saveInternal(); err != nil {
			// Reloading from the unchanged file is the simplest rollback.
			_ = s.loadInternal()
			return err
		}
	}
	return nil
}

// Create adds a new document to the store.
func (s *FileDocumentStore) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLock(true, func() error {
		if _, exists := s.docs[doc.ID]; exists {
			return fmt.Errorf("document with ID '%s' already exists", doc.ID)
		}
		doc.UpdatedAt = time.Now().UTC()
		s.docs[doc.ID] = doc
		return nil
	})
}

// Update replaces an existing document.
func (s *FileDocumentStore) Update(ctx context.Context, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLock(true, func() error {
		if _, exists := s.docs[id]; !exists {
			return fmt.Errorf("document with ID '%s' not found", id)
		}
		doc.ID = id
		doc.UpdatedAt = time.Now().UTC()
		s.docs[id] = doc
		return nil
	})
}

// Delete removes a document. Missing documents are ignored.
func (s *FileDocumentStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLock(true, func() error {
		delete(s.docs, id)
		return nil
	})
}

// QueryByOwner returns every document belonging to ownerID.
func (s *FileDocumentStore) QueryByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var result []Document
	err := s.withLock(false, func() error {
		result = make([]Document, 0)
		for _, doc := range s.docs {
			if doc.OwnerID == ownerID {
				result = append(result, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceByOwner swaps ownerID's documents for docs in one save.
func (s *FileDocumentStore) ReplaceByOwner(ctx context.Context, ownerID string, docs []Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLock(true, func() error {
		for id, doc := range s.docs {
			if doc.OwnerID == ownerID {
				delete(s.docs, id)
			}
		}
		now := time.Now().UTC()
		for _, doc := range docs {
			doc.OwnerID = ownerID
			doc.UpdatedAt = now
			s.docs[doc.ID] = doc
		}
		return nil
	})
}

// Close releases the file lock. flock.Unlock is idempotent.
func (s *FileDocumentStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
