package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// SessionMaxAge is how long an idle portal session (cart and flashes) lives
const SessionMaxAge = 24 * time.Hour

// sessionFilePrefix is the name prefix FilesystemStore gives its files
const sessionFilePrefix = "session_"

// NewSessionStore returns the store for the portal session. Session data
// lives in dir and the browser only holds a signed session id, so the cart
// is not bound by the cookie size limit.
func NewSessionStore(dir string, secret []byte, secure bool) (*sessions.FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	store := sessions.NewFilesystemStore(dir, secret)
	store.MaxLength(0)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
	return store, nil
}

// PruneSessions removes session files in dir not written since maxAge before
// now and returns how many were removed.
func PruneSessions(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read session dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), sessionFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove session %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// RunSessionPruning prunes expired sessions every interval until stop is closed
func RunSessionPruning(dir string, maxAge, interval time.Duration, log *zap.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			removed, err := PruneSessions(dir, maxAge, now)
			if err != nil {
				log.Warn("session pruning failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Debug("pruned expired sessions", zap.Int("removed", removed))
			}
		case <-stop:
			return
		}
	}
}
