package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// MarkerStore 本地持久化的去重标记（仅本机有效，不跨设备同步）
type MarkerStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// MemoryMarkerStore 进程内标记存储，进程退出即失效
type MemoryMarkerStore struct {
	mu      sync.RWMutex
	markers map[string]string
}

var _ MarkerStore = (*MemoryMarkerStore)(nil)

// NewMemoryMarkerStore ...
func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{markers: map[string]string{}}
}

// Get ...
func (s *MemoryMarkerStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.markers[key]
	return value, ok, nil
}

// Set ...
func (s *MemoryMarkerStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[key] = value
	return nil
}

// FileMarkerStore 以 JSON 文件保存标记，写入时先写临时文件再 rename，避免写坏
type FileMarkerStore struct {
	mu   sync.Mutex
	path string
}

var _ MarkerStore = (*FileMarkerStore)(nil)

// NewFileMarkerStore ...
func NewFileMarkerStore(path string) *FileMarkerStore {
	return &FileMarkerStore{path: path}
}

// Get ...
func (s *FileMarkerStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := markers[key]
	return value, ok, nil
}

// Set ...
func (s *FileMarkerStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers, err := s.load()
	if err != nil {
		// 文件损坏时直接覆盖，标记只是尽力而为的优化
		markers = map[string]string{}
	}
	markers[key] = value
	return s.save(markers)
}

func (s *FileMarkerStore) load() (map[string]string, error) {
	markers := map[string]string{}
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return markers, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read markers %s", s.path)
	}
	if len(content) == 0 {
		return markers, nil
	}
	if err = json.Unmarshal(content, &markers); err != nil {
		return nil, errors.Wrapf(err, "decode markers %s", s.path)
	}
	return markers, nil
}

func (s *FileMarkerStore) save(markers map[string]string) error {
	content, err := json.MarshalIndent(markers, "", "  ")
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "create markers dir of %s", s.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp markers file")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp markers file")
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replace markers file")
}
