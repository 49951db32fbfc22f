package patterns

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Store holds the current repository. Reload swaps in a new repository
// atomically; callers that already hold a repository keep using it.
type Store struct {
	path     string
	logger   *zap.Logger
	current  atomic.Pointer[Repository]
	onReload func(error)
}

// NewStore loads the table at path, or the embedded table when path is empty.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger}

	repo := Default()
	if path != "" {
		var err error
		if repo, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	s.current.Store(repo)
	logger.Info("pattern table loaded",
		zap.String("version", repo.Version()),
		zap.String("file", path),
	)
	return s, nil
}

// NewStaticStore wraps a repository that is never reloaded.
func NewStaticStore(repo *Repository) *Store {
	s := &Store{logger: zap.NewNop()}
	s.current.Store(repo)
	return s
}

// Current returns the repository in effect.
func (s *Store) Current() *Repository {
	return s.current.Load()
}

// Path returns the table file backing the store, or "" for the embedded table.
func (s *Store) Path() string {
	return s.path
}

// OnReload registers fn to be called after every reload attempt with its
// error, or nil on success. It must be set before Watch is started.
func (s *Store) OnReload(fn func(error)) {
	s.onReload = fn
}

// Reload rebuilds the repository from the table file. On failure the
// previous repository stays in effect and the error is returned.
func (s *Store) Reload() (*Repository, error) {
	if s.path == "" {
		return s.Current(), nil
	}
	repo, err := LoadFile(s.path)
	if s.onReload != nil {
		s.onReload(err)
	}
	if err != nil {
		s.logger.Error("pattern table reload failed, keeping previous table",
			zap.String("file", s.path),
			zap.String("version", s.Current().Version()),
			zap.Error(err),
		)
		return nil, err
	}
	previous := s.current.Swap(repo)
	s.logger.Info("pattern table reloaded",
		zap.String("file", s.path),
		zap.String("previous_version", previous.Version()),
		zap.String("version", repo.Version()),
	)
	return repo, nil
}
