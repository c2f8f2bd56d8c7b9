// Package recordstore persists student records to a flat file,
// one JSON-encoded record per line. It is the default store and assumes
// a single running process; an in-process lock guards the file handle.
package recordstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/trezcool/sajili/core/student"
)

// StorageError reports an unreadable, corrupt or unwritable backing file.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("record store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func newStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// record is the persisted form of a Student; the password hash is not
// exposed on the entity's JSON so it is carried alongside.
type record struct {
	student.Student
	PasswordHash []byte `json:"password_hash"`
}

type Store struct {
	mu   sync.RWMutex
	path string
}

// Open returns a Store backed by the file at `path`, creating it empty if absent.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, newStorageError("open", err)
	}
	if err = f.Close(); err != nil {
		return nil, newStorageError("open", err)
	}
	return &Store{path: path}, nil
}

// Load reads the whole backing file. A malformed line fails the load.
func (s *Store) Load() ([]student.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Store) load() ([]student.Student, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, newStorageError("load", err)
	}
	defer func() { _ = f.Close() }()

	var students []student.Student
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec record
		if err = json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, newStorageError(fmt.Sprintf("load: line %d", line), err)
		}
		std := rec.Student
		std.PasswordHash = rec.PasswordHash
		students = append(students, std)
	}
	if err = scanner.Err(); err != nil {
		return nil, newStorageError("load", err)
	}
	return students, nil
}

// SaveAll atomically rewrites the backing file from `students`;
// the previous content survives any failed write.
func (s *Store) SaveAll(students []student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAll(students)
}

func (s *Store) saveAll(students []student.Student) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return newStorageError("save", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, std := range students {
		if err = enc.Encode(record{Student: std, PasswordHash: std.PasswordHash}); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return newStorageError("save", err)
		}
	}
	if err = w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return newStorageError("save", err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(tmp)
		return newStorageError("save", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return newStorageError("save", err)
	}
	return nil
}

// Append adds one record without rereading the whole file.
func (s *Store) Append(std student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(std)
}

func (s *Store) append(std student.Student) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return newStorageError("append", err)
	}
	defer func() { _ = f.Close() }()

	if err = json.NewEncoder(f).Encode(record{Student: std, PasswordHash: std.PasswordHash}); err != nil {
		return newStorageError("append", err)
	}
	return nil
}
