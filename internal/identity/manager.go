package identity

import (
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Manager owns the active identity for a session. It re-derives the identity
// whenever the credential file changes on disk, so separate processes sharing
// the file converge eventually; they may transiently disagree, which is
// accepted (no cross-process locking).
type Manager struct {
	mu      sync.RWMutex
	store   *CredentialStore
	current *Identity
	subs    []func(*Identity)
	watcher *fsnotify.Watcher
	done    chan struct{}
	logger  *log.Logger
}

// NewManager creates a Manager bound to the given credential store and
// derives the initial identity.
func NewManager(store *CredentialStore, logger *log.Logger) *Manager {
	m := &Manager{store: store, logger: logger}
	m.Refresh()
	return m
}

// Current returns the active identity, or nil when logged out.
func (m *Manager) Current() *Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the raw stored credential, or "" when logged out.
func (m *Manager) Token() string {
	token, err := m.store.Load()
	if err != nil {
		return ""
	}
	return token
}

// Refresh re-derives the identity from the credential store and notifies
// subscribers when the result differs from the cached one.
func (m *Manager) Refresh() *Identity {
	token, err := m.store.Load()
	if err != nil {
		m.logger.Warn("failed to read credential, treating as logged out", "err", err)
		token = ""
	}
	derived := Decode(token)

	m.mu.Lock()
	changed := !sameIdentity(m.current, derived)
	m.current = derived
	subs := m.subs
	m.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(derived)
		}
	}
	return derived
}

// Subscribe registers a callback invoked whenever the derived identity
// changes. Callbacks run on the watcher goroutine; keep them short.
func (m *Manager) Subscribe(fn func(*Identity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SignIn persists the credential and re-derives the identity.
func (m *Manager) SignIn(token string) (*Identity, error) {
	if err := m.store.Save(token); err != nil {
		return nil, err
	}
	return m.Refresh(), nil
}

// SignOut removes the stored credential and clears the identity.
func (m *Manager) SignOut() error {
	if err := m.store.Delete(); err != nil {
		return err
	}
	m.Refresh()
	return nil
}

// Watch starts an fsnotify watch on the credential file's directory and
// re-derives the identity on every change to the file. Watch failures degrade
// to "no external convergence" rather than breaking the session.
func (m *Manager) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.store.Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	m.mu.Lock()
	m.watcher = watcher
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) == filepath.Clean(m.store.Path()) {
					m.Refresh()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.logger.Debug("credential watch error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return nil
}

// Close stops the credential watch if one is running.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	if m.watcher != nil {
		err := m.watcher.Close()
		m.watcher = nil
		return err
	}
	return nil
}

func sameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
