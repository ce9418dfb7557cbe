package tree

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind distinguishes the two kinds of entries in an archive tree.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Entry is a single node of the archive tree. It is either a file, identified
// by its name, or a folder that owns its own content.
type Entry struct {
	Kind   Kind
	Name   string  // Last path segment only
	Folder *Folder // Set for KindFolder, nil for files
}

// File returns a file entry.
func File(name string) Entry {
	return Entry{Kind: KindFile, Name: name}
}

// Dir returns a folder entry wrapping f.
func Dir(f *Folder) Entry {
	return Entry{Kind: KindFolder, Name: f.Name, Folder: f}
}

// IsFolder reports whether the entry is a folder.
func (e Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

// Folder is a named, ordered collection of entries. Names are unique within a
// folder and insertion order is display order. A folder has no reference to
// its parent.
type Folder struct {
	Name    string
	Content []Entry
}

// RootName is the name given to the archive's top level folder.
const RootName = "."

// NewFolder creates an empty folder.
func NewFolder(name string) *Folder {
	return &Folder{Name: name}
}

// NewRoot creates the empty top level folder of an archive.
func NewRoot() *Folder {
	return NewFolder(RootName)
}

// Len returns the number of direct entries.
func (f *Folder) Len() int {
	return len(f.Content)
}

// At returns the entry at index i.
func (f *Folder) At(i int) Entry {
	return f.Content[i]
}

// Contains reports whether an entry named name exists directly in f.
func (f *Folder) Contains(name string) bool {
	_, ok := f.Lookup(name)
	return ok
}

// Lookup returns the direct entry named name.
func (f *Folder) Lookup(name string) (Entry, bool) {
	for _, e := range f.Content {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Sub returns the direct subfolder named name, or nil when there is none or
// the name belongs to a file.
func (f *Folder) Sub(name string) *Folder {
	e, ok := f.Lookup(name)
	if !ok || !e.IsFolder() {
		return nil
	}
	return e.Folder
}

// Clone returns a deep copy of f. Changes to the copy never reach f.
func (f *Folder) Clone() *Folder {
	c := &Folder{Name: f.Name, Content: make([]Entry, len(f.Content))}
	for i, e := range f.Content {
		if e.IsFolder() {
			c.Content[i] = Dir(e.Folder.Clone())
		} else {
			c.Content[i] = e
		}
	}
	return c
}

// Walk calls fn for every entry below f in depth-first display order. The
// path passed to fn is relative to f and slash separated.
func (f *Folder) Walk(fn func(path string, e Entry)) {
	f.walk("", fn)
}

func (f *Folder) walk(prefix string, fn func(string, Entry)) {
	for _, e := range f.Content {
		p := e.Name
		if prefix != "" {
			p = prefix + "/" + e.Name
		}
		fn(p, e)
		if e.IsFolder() {
			e.Folder.walk(p, fn)
		}
	}
}

// Print writes an indented dump of the tree to w.
func (f *Folder) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s/\n", f.Name); err != nil {
		return err
	}
	return f.print(w, "")
}

func (f *Folder) print(w io.Writer, indent string) error {
	for i, e := range f.Content {
		branch, next := "├── ", "│   "
		if i == len(f.Content)-1 {
			branch, next = "└── ", "    "
		}
		name := e.Name
		if e.IsFolder() {
			name += "/"
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, branch, name); err != nil {
			return err
		}
		if e.IsFolder() {
			if err := e.Folder.print(w, indent+next); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the tree the same way Print does.
func (f *Folder) String() string {
	var b strings.Builder
	_ = f.Print(&b)
	return b.String()
}

// MarshalYAML encodes a folder as a mapping with its name and a sequence of
// children. Files are plain strings, folders nested mappings.
func (f *Folder) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	children := &yaml.Node{Kind: yaml.SequenceNode}
	for _, e := range f.Content {
		if e.IsFolder() {
			child, err := e.Folder.MarshalYAML()
			if err != nil {
				return nil, err
			}
			children.Content = append(children.Content, child.(*yaml.Node))
			continue
		}
		children.Content = append(children.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name})
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "name"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
		&yaml.Node{Kind: yaml.ScalarNode, Value: "content"},
		children,
	)
	return node, nil
}
