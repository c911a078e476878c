package v1

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type outputDownload struct {
	filePath  string
	fileName  string
	expiresAt time.Time
}

type downloadStore struct {
	mu    sync.Mutex
	items map[string]outputDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]outputDownload),
	}
}

func (s *downloadStore) put(filePath, fileName string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = outputDownload{
		filePath:  filePath,
		fileName:  fileName,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (outputDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return outputDownload{}, false
	}
	return v, true
}

func (s *downloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

// purgeExpiredLocked 过期条目连同其导出目录一起删除
func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
			removeOutput(v.filePath)
		}
	}
}

// removeOutput 删除输出文件所在的导出目录（每次同步独占一个目录）
func removeOutput(filePath string) {
	_ = os.RemoveAll(filepath.Dir(filePath))
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
