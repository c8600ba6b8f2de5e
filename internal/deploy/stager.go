package deploy

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/catalystcommunity/hms/internal/errs"
)

// ErrLocked is returned when another publish holds the staging lock
var ErrLocked = errors.New("staging file is locked by another publish")

// Stager owns the local staging file that holds zone text before transfer.
// The file is shared by every zone of a run, so a lock file next to it keeps
// two runs from interleaving.
type Stager struct {
	Path string

	locked bool
}

// NewStager creates a stager for path
func NewStager(path string) *Stager {
	return &Stager{Path: path}
}

// LockPath returns the lock file path
func (s *Stager) LockPath() string {
	return s.Path + ".lock"
}

// Lock creates the lock file holding our pid. It fails while another live
// process holds the lock. A lock left by a process that no longer exists is
// removed and taken over.
func (s *Stager) Lock() error {
	err := s.createLock()
	if errors.Is(err, ErrLocked) && s.removeStale() {
		err = s.createLock()
	}
	if err != nil {
		return &errs.LocalIOError{Path: s.LockPath(), Err: err}
	}

	s.locked = true
	return nil
}

func (s *Stager) createLock() error {
	f, err := os.OpenFile(s.LockPath(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return ErrLocked
		}
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(strconv.Itoa(os.Getpid()) + "\n"); err != nil {
		os.Remove(s.LockPath())
		return err
	}
	return nil
}

// removeStale deletes the lock file when the pid in it is gone. A lock
// without a readable pid is left alone, its owner may still be writing it.
func (s *Stager) removeStale() bool {
	data, err := os.ReadFile(s.LockPath())
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 || processAlive(pid) {
		return false
	}
	return os.Remove(s.LockPath()) == nil
}

// Unlock removes the lock file and the staging file
func (s *Stager) Unlock() error {
	if !s.locked {
		return nil
	}
	s.locked = false

	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return &errs.LocalIOError{Path: s.Path, Err: err}
	}
	if err := os.Remove(s.LockPath()); err != nil && !os.IsNotExist(err) {
		return &errs.LocalIOError{Path: s.LockPath(), Err: err}
	}
	return nil
}

// Stage replaces the staging file with content. The data is synced and the
// file closed before Stage returns.
func (s *Stager) Stage(content string) error {
	f, err := os.OpenFile(s.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &errs.LocalIOError{Path: s.Path, Err: err}
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return &errs.LocalIOError{Path: s.Path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &errs.LocalIOError{Path: s.Path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &errs.LocalIOError{Path: s.Path, Err: err}
	}
	return nil
}

// Open reopens the staged file for reading
func (s *Stager) Open() (*os.File, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &errs.LocalIOError{Path: s.Path, Err: fmt.Errorf("failed to reopen staged zone: %w", err)}
	}
	return f, nil
}
