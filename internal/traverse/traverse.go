// Package traverse enumerates the entries below a directory, either as one flat
// depth-first list or as a tree that nests every directory's children.
package traverse

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	logMessageStatFailed        = "metadata unavailable"
	logMessageTraversalFinished = "traversal finished"
)

// Traverser walks directories of a filesystem.
type Traverser struct {
	fileSystem afero.Fs
	logger     *zap.Logger
}

// New returns a Traverser reading from fileSystem. A nil fileSystem selects the
// operating system and a nil logger discards all messages.
func New(fileSystem afero.Fs, logger *zap.Logger) *Traverser {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Traverser{fileSystem: fileSystem, logger: logger}
}

// Traverse walks directoryPath on the operating system filesystem.
func Traverse(directoryPath string, options Options) ([]Entry, error) {
	return New(nil, nil).Traverse(directoryPath, options)
}

// directoryFrame is one directory on the work stack.
type directoryFrame struct {
	directoryPath string
	children      []fs.FileInfo
	nextChild     int
	// entries accumulates this level in TREE mode.
	entries []Entry
	// owner is this directory's own descriptor. It is emitted once the frame is
	// done: with its Content in TREE mode, after its descendants in LIST mode.
	owner     Entry
	hasOwner  bool
	emitOwner bool
}

// Traverse walks directoryPath depth-first and returns the visited entries
// shaped by options.Mode. Siblings keep the order of the directory listing and
// every child, including its whole subtree, is finished before the next sibling.
// In LIST mode a kept directory is appended after all of its descendants.
//
// A directory that cannot be listed aborts the walk with a *TraversalError and
// no partial result. A failed metadata lookup only leaves that entry's Stats nil.
func (traverser *Traverser) Traverse(directoryPath string, options Options) ([]Entry, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(directoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, directoryPath, absolutePathError)
	}

	matcher, matcherError := newExclusionMatcher(absoluteRootPath, options.Exclude, options.IgnoreRules)
	if matcherError != nil {
		return nil, matcherError
	}

	rootFrame, openError := traverser.openDirectory(absoluteRootPath)
	if openError != nil {
		return nil, openError
	}

	flatEntries := make([]Entry, 0, len(rootFrame.children))
	stack := []*directoryFrame{rootFrame}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]

		if frame.nextChild == len(frame.children) {
			stack = stack[:len(stack)-1]
			if !frame.hasOwner || !frame.emitOwner {
				continue
			}
			if options.Mode == ModeTree {
				frame.owner.Content = nonNilEntries(frame.entries)
				parentFrame := stack[len(stack)-1]
				parentFrame.entries = append(parentFrame.entries, frame.owner)
			} else {
				flatEntries = append(flatEntries, frame.owner)
			}
			continue
		}

		childInfo := frame.children[frame.nextChild]
		frame.nextChild++

		fullName := filepath.Join(frame.directoryPath, childInfo.Name())
		if matcher.excludes(fullName, childInfo.IsDir()) {
			continue
		}
		entry := traverser.describe(fullName, childInfo, options)

		if !entry.IsDirectory || !options.Recursive {
			if entry.IsDirectory && options.IgnoreFolders {
				continue
			}
			if options.Mode == ModeTree {
				frame.entries = append(frame.entries, entry)
			} else {
				flatEntries = append(flatEntries, entry)
			}
			continue
		}

		childFrame, childOpenError := traverser.openDirectory(entry.FullName)
		if childOpenError != nil {
			return nil, childOpenError
		}
		childFrame.owner = entry
		childFrame.hasOwner = true
		childFrame.emitOwner = !options.IgnoreFolders
		stack = append(stack, childFrame)
	}

	result := flatEntries
	if options.Mode == ModeTree {
		result = nonNilEntries(rootFrame.entries)
	}
	traverser.logger.Debug(logMessageTraversalFinished,
		zap.String("root", absoluteRootPath),
		zap.Stringer("mode", options.Mode),
		zap.Int("entries", len(result)),
	)
	return result, nil
}

func (traverser *Traverser) openDirectory(directoryPath string) (*directoryFrame, error) {
	children, readDirectoryError := afero.ReadDir(traverser.fileSystem, directoryPath)
	if readDirectoryError != nil {
		return nil, &TraversalError{Path: directoryPath, Err: readDirectoryError}
	}
	return &directoryFrame{directoryPath: directoryPath, children: children}, nil
}

// Describe returns the descriptor of a single path the way Traverse reports a
// listed child. It is used for roots that are files rather than directories.
func (traverser *Traverser) Describe(path string, options Options) (Entry, error) {
	absolutePath, absolutePathError := filepath.Abs(path)
	if absolutePathError != nil {
		return Entry{}, fmt.Errorf(errorAbsolutePathFormat, path, absolutePathError)
	}
	fileInfo, statError := traverser.fileSystem.Stat(absolutePath)
	if statError != nil {
		return Entry{}, statError
	}
	return traverser.describe(absolutePath, fileInfo, options), nil
}

// describe builds the descriptor of a listed child.
func (traverser *Traverser) describe(fullName string, childInfo fs.FileInfo, options Options) Entry {
	entry := Entry{
		Name:        childInfo.Name(),
		Title:       childInfo.Name(),
		FullName:    fullName,
		Path:        filepath.Dir(fullName),
		IsDirectory: childInfo.IsDir(),
	}
	if options.Extensions && !entry.IsDirectory {
		entry.Title, entry.Extension = splitExtension(entry.Name)
	}
	if options.Stats {
		stats, statError := lookupStats(traverser.fileSystem, fullName)
		if statError != nil {
			traverser.logger.Debug(logMessageStatFailed, zap.String("path", fullName), zap.Error(statError))
		} else {
			entry.Stats = stats
		}
	}
	return entry
}

func nonNilEntries(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}
	return entries
}
