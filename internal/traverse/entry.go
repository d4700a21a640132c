package traverse

import (
	"encoding/xml"
	"io/fs"
	"time"
)

// Entry describes one filesystem node visited during a traversal.
type Entry struct {
	XMLName     xml.Name `json:"-" yaml:"-" xml:"entry"`
	Name        string   `json:"name" yaml:"name" xml:"name"`
	Title       string   `json:"title" yaml:"title" xml:"title"`
	Extension   string   `json:"extension" yaml:"extension" xml:"extension"`
	FullName    string   `json:"fullname" yaml:"fullname" xml:"fullname"`
	Path        string   `json:"path" yaml:"path" xml:"path"`
	IsDirectory bool     `json:"isDirectory" yaml:"isDirectory" xml:"isDirectory"`
	Stats       *Stats   `json:"stats,omitzero" yaml:"stats,omitempty" xml:"stats,omitempty"`
	Content     []Entry  `json:"content,omitzero" yaml:"content,omitempty" xml:"content>entry,omitempty"`
}

// Stats is the filesystem metadata of an entry.
// Fields beyond size, mode and modification time are filled only where the platform exposes them.
type Stats struct {
	Size             int64       `json:"size" yaml:"size" xml:"size"`
	Mode             fs.FileMode `json:"mode" yaml:"mode" xml:"mode"`
	Permissions      string      `json:"permissions" yaml:"permissions" xml:"permissions"`
	ModificationTime time.Time   `json:"mtime" yaml:"mtime" xml:"mtime"`
	AccessTime       time.Time   `json:"atime,omitzero" yaml:"atime,omitempty" xml:"atime,omitempty"`
	ChangeTime       time.Time   `json:"ctime,omitzero" yaml:"ctime,omitempty" xml:"ctime,omitempty"`
	Device           uint64      `json:"dev,omitempty" yaml:"dev,omitempty" xml:"dev,omitempty"`
	Inode            uint64      `json:"ino,omitempty" yaml:"ino,omitempty" xml:"ino,omitempty"`
	Links            uint64      `json:"nlink,omitempty" yaml:"nlink,omitempty" xml:"nlink,omitempty"`
	UserID           uint32      `json:"uid" yaml:"uid" xml:"uid"`
	GroupID          uint32      `json:"gid" yaml:"gid" xml:"gid"`
	BlockSize        int64       `json:"blksize,omitempty" yaml:"blksize,omitempty" xml:"blksize,omitempty"`
	Blocks           int64       `json:"blocks,omitempty" yaml:"blocks,omitempty" xml:"blocks,omitempty"`
}

// Flatten returns the entries of a TREE result in depth-first order, each
// directory before its children. The returned entries carry no Content.
func Flatten(entries []Entry) []Entry {
	var flattened []Entry
	pending := make([][]Entry, 0, 1)
	pending = append(pending, entries)
	for len(pending) > 0 {
		level := pending[len(pending)-1]
		if len(level) == 0 {
			pending = pending[:len(pending)-1]
			continue
		}
		current := level[0]
		pending[len(pending)-1] = level[1:]
		children := current.Content
		current.Content = nil
		flattened = append(flattened, current)
		if len(children) > 0 {
			pending = append(pending, children)
		}
	}
	return flattened
}
