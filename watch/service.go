// Package watch reports changes to a fixed set of files.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonwraymond/codecompare/logging"
)

// DefaultDebounce is the quiet period before a burst of events is reported.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("watcher closed")

// Service watches files and calls onChange with the sorted paths that
// changed once events stop arriving for the debounce period.
//
// Editors often save by writing a new file and renaming it over the old
// one, so the service watches each file's directory and filters by name.
type Service struct {
	mu       sync.Mutex
	w        *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	pending  map[string]struct{}
	timer    *time.Timer
	closed   bool
	done     chan struct{}
	onChange func(paths []string)
	logger   logging.Logger
	debounce time.Duration
}

// New starts a service. A non-positive debounce selects DefaultDebounce and
// a nil logger discards events.
func New(onChange func(paths []string), debounce time.Duration, logger logging.Logger) (*Service, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Service{
		w:        w,
		files:    map[string]struct{}{},
		dirs:     map[string]struct{}{},
		pending:  map[string]struct{}{},
		done:     make(chan struct{}),
		onChange: onChange,
		logger:   logger,
		debounce: debounce,
	}
	go s.observe()
	return s, nil
}

// Add starts watching path. Adding the same path twice is a no-op.
func (s *Service) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.dirs[dir]; !ok {
		if err := s.w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		s.dirs[dir] = struct{}{}
	}
	s.files[abs] = struct{}{}
	s.logger.Debug("watching file", "path", abs)
	return nil
}

// Files returns the watched paths, sorted.
func (s *Service) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.files)
}

// Close stops watching. Pending changes are dropped.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	err := s.w.Close()
	<-s.done
	return err
}

func (s *Service) observe() {
	defer close(s.done)
	for {
		select {
		case ev, ok := <-s.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.schedule(filepath.Clean(ev.Name))
		case err, ok := <-s.w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

func (s *Service) schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, ok := s.files[path]; !ok {
		return
	}
	s.pending[path] = struct{}{}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.flush)
}

func (s *Service) flush() {
	s.mu.Lock()
	if s.closed || len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	paths := sortedKeys(s.pending)
	s.pending = map[string]struct{}{}
	s.timer = nil
	fn := s.onChange
	s.mu.Unlock()

	s.logger.Debug("files changed", "paths", paths)
	if fn != nil {
		fn(paths)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
