package state

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ChangeKind classifies an out-of-band change to the state file.
type ChangeKind int

const (
	// ChangeModified means the file was created or rewritten.
	ChangeModified ChangeKind = iota
	// ChangeRemoved means the file was deleted or renamed away, i.e. a full reset.
	ChangeRemoved
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change describes one observed change of the state file.
type Change struct {
	Kind ChangeKind
	Path string
}

// Watch reports changes to the state file at path until ctx is done. Changes are
// logged at debug only; notify decides what the user sees. The parent directory is
// watched so that deleting and recreating the file is observed. notify, if non-nil, is
// called for every change. Writes made by this process show up as modifications too.
func Watch(ctx context.Context, path string, logger logrus.FieldLogger, notify func(Change)) error {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve state path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch state directory: %w", err)
	}

	log := logger.WithField("path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}

			var change Change
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				change = Change{Kind: ChangeRemoved, Path: path}
				log.Debug("State file removed")
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				change = Change{Kind: ChangeModified, Path: path}
				log.Debug("State file changed")
			default:
				continue
			}
			if notify != nil {
				notify(change)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("State watcher error")
		}
	}
}
