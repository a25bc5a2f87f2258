package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnsafePath      = errors.New("unsafe file path")
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// Store 以 session 为单位管理临时文件，每个 session 一个目录
type Store struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{root: abs, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *Store) Root() string {
	return s.root
}

// NewSessionID 生成 UUID v4 格式的 session id
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID session id 必须是规范形式的 UUID v4
func ValidSessionID(id string) bool {
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return u.Version() == 4 && u.String() == id
}

// SanitizeFilename 去掉路径分隔符和 ..，只保留英数字、-、_、.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" {
		return "unnamed_file"
	}
	return name
}

// WithExt 把扩展名替换为 ext
func WithExt(name, ext string) string {
	if strings.HasSuffix(name, ext) {
		return name
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name + ext
}

// Path 返回 session 下文件的绝对路径，校验 id 格式和路径不越界，文件是否存在不检查
func (s *Store) Path(sessionID, filename string) (string, error) {
	if !ValidSessionID(sessionID) {
		return "", ErrSessionNotFound
	}
	dir := filepath.Join(s.root, sessionID)
	p := filepath.Join(dir, filename)
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return "", ErrUnsafePath
	}
	return p, nil
}

// Lookup 同 Path，但要求文件已存在
func (s *Store) Lookup(sessionID, filename string) (string, error) {
	p, err := s.Path(sessionID, filename)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", ErrSessionNotFound
	}
	return p, nil
}

// Save 把上传内容写入 session 目录，目录不存在时创建
func (s *Store) Save(sessionID, filename string, r io.Reader) (string, int64, error) {
	p, err := s.Path(sessionID, filename)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", 0, fmt.Errorf("create session dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return "", 0, fmt.Errorf("save file: %w", err)
	}
	return p, n, nil
}

// Lock 串行化同一 session 的写操作，返回解锁函数
func (s *Store) Lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Sweep 删除最后修改时间早于 now-ttl 的 session 目录，返回删除数量
func (s *Store) Sweep(now time.Time, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read storage root: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !ValidSessionID(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || now.Sub(info.ModTime()) < ttl {
			continue
		}

		unlock := s.Lock(e.Name())
		err = os.RemoveAll(filepath.Join(s.root, e.Name()))
		unlock()
		if err != nil {
			return removed, fmt.Errorf("remove session %s: %w", e.Name(), err)
		}

		s.mu.Lock()
		delete(s.locks, e.Name())
		s.mu.Unlock()
		removed++
	}
	return removed, nil
}
