package tree

import "strings"

// Record is one flat path from an archive listing.
type Record struct {
	Path  string
	IsDir bool
}

// Insert adds the slash separated path to f, creating missing intermediate
// folders. Inserting a path that already exists is a no-op. It returns false
// when the record could not be placed: the path runs through an existing
// file, or its final segment names an entry of the other kind.
func (f *Folder) Insert(path string, isDir bool) bool {
	i := strings.IndexByte(path, '/')
	if i < 0 {
		return f.insertLeaf(path, isDir)
	}

	head, tail := path[:i], path[i+1:]
	if head == "" {
		return f.Insert(tail, isDir)
	}

	if e, ok := f.Lookup(head); ok {
		if !e.IsFolder() {
			return false
		}
		return e.Folder.Insert(tail, isDir)
	}

	sub := NewFolder(head)
	ok := sub.Insert(tail, isDir)
	f.Content = append(f.Content, Dir(sub))
	return ok
}

func (f *Folder) insertLeaf(name string, isDir bool) bool {
	if name == "" {
		return true
	}
	if e, ok := f.Lookup(name); ok {
		return e.IsFolder() == isDir
	}
	if isDir {
		f.Content = append(f.Content, Dir(NewFolder(name)))
	} else {
		f.Content = append(f.Content, File(name))
	}
	return true
}

// Build creates a root folder from records in order. It returns the paths that
// could not be inserted.
func Build(records []Record) (*Folder, []string) {
	root := NewRoot()
	var dropped []string
	for _, r := range records {
		if !root.Insert(r.Path, r.IsDir) {
			dropped = append(dropped, r.Path)
		}
	}
	return root, dropped
}
