// Package dedupe suppresses content a user has already received within
// a sliding retention window, and collapses duplicate stories within a
// single batch.
package dedupe

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"
	"unicode"

	"daily5/internal/core"
	"daily5/internal/logger"
	"daily5/internal/store"
)

// Manager answers duplicate checks against the persisted sent-content
// history. Store failures are treated as an empty cache: a broken cache
// must never block delivery.
type Manager struct {
	store     *store.Store
	retention time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(s *store.Store, retention time.Duration) *Manager {
	if retention <= 0 {
		retention = 72 * time.Hour
	}
	return &Manager{
		store:     s,
		retention: retention,
		locks:     make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing cache operations for one user.
func (m *Manager) userLock(userKey string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[userKey]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userKey] = lock
	}
	return lock
}

// Hash canonicalizes a (title, url) pair into the cache identity hash.
func Hash(title, url string) string {
	key := strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(url))
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// normalizedTitleHash hashes a title with punctuation stripped, for
// catching the same story under slightly different URLs across sources.
func normalizedTitleHash(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	normalized := strings.Join(strings.Fields(b.String()), " ")
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// prune removes expired entries. Called before every check so stale
// entries never falsely block re-sending after the window has elapsed.
func (m *Manager) prune() {
	if _, err := m.store.Prune(time.Now().UTC().Add(-m.retention)); err != nil {
		logger.Warn("Failed to prune dedup cache", "error", err.Error())
	}
}

// IsDuplicate reports whether the item was already sent to the user
// within the retention window. Lookup only; never mutates the cache.
func (m *Manager) IsDuplicate(userKey, title, url string) bool {
	lock := m.userLock(userKey)
	lock.Lock()
	defer lock.Unlock()

	m.prune()
	found, err := m.store.HasHash(userKey, Hash(title, url))
	if err != nil {
		logger.Warn("Dedup lookup failed, treating as new", "error", err.Error())
		return false
	}
	return found
}

// FilterNew returns the items not yet sent to the user.
func (m *Manager) FilterNew(userKey string, items []core.GeneratedItem) []core.GeneratedItem {
	lock := m.userLock(userKey)
	lock.Lock()
	defer lock.Unlock()

	m.prune()

	kept := make([]core.GeneratedItem, 0, len(items))
	for _, item := range items {
		found, err := m.store.HasHash(userKey, Hash(item.Title, item.URL))
		if err != nil {
			logger.Warn("Dedup lookup failed, treating as new", "error", err.Error())
			found = false
		}
		if found {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// RecordSent persists delivered items into the cache. Call only after
// delivery is confirmed, never speculatively.
func (m *Manager) RecordSent(userKey string, items []core.GeneratedItem) error {
	lock := m.userLock(userKey)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()
	entries := make([]core.CacheEntry, 0, len(items))
	for _, item := range items {
		title := item.Title
		if len(title) > 100 {
			title = title[:100]
		}
		entries = append(entries, core.CacheEntry{
			Hash:   Hash(item.Title, item.URL),
			Title:  title,
			URL:    item.URL,
			SentAt: now,
		})
	}
	return m.store.RecordSent(userKey, entries)
}

// CollapseBatch removes within-batch duplicates across sources. Identity
// is the exact (title, url) hash first, then a punctuation-stripped
// title hash to catch the same story from two feeds. First occurrence
// wins, preserving order.
func CollapseBatch(items []core.ContentItem) []core.ContentItem {
	seen := make(map[string]bool, len(items)*2)
	kept := make([]core.ContentItem, 0, len(items))
	for _, item := range items {
		exact := Hash(item.Title, item.URL)
		byTitle := normalizedTitleHash(item.Title)
		if seen[exact] || seen[byTitle] {
			continue
		}
		seen[exact] = true
		seen[byTitle] = true
		kept = append(kept, item)
	}
	return kept
}
