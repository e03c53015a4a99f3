// Package vfs implements the kernel's in-memory FAT32-shaped filesystem: a flat, path-keyed entry
// table backed by a singly-linked cluster chain, with open-handle semantics and working-directory
// state. It is new code -- original_source/fat32.{c,h} are near-empty stubs in the retrieved
// source (the real implementation apparently lived elsewhere) -- so behavior here is derived
// directly from spec.md §3 and §4.3, with the command surface grounded on
// original_source/cli_apps/fs_commands.c.
package vfs

import (
	"fmt"

	"github.com/brewos/kernel/internal/log"
)

const (
	// ClusterSize is the fixed size of one storage unit.
	ClusterSize = 4096

	// EOC terminates a FAT chain.
	EOC uint32 = 0xFFFFFFFF

	// MaxEntries bounds the flat directory-entry table.
	MaxEntries = 256

	rootCluster uint32 = 2
)

// Attribute bits for a directory entry.
type Attr uint8

const (
	AttrRegular   Attr = 0
	AttrDirectory Attr = 1 << 0
)

// Entry is one row of the flat directory-entry table.
type Entry struct {
	Path         string
	Name         string
	Parent       string
	FirstCluster uint32
	Size         int
	Attr         Attr
}

// IsDir reports whether the entry carries the directory attribute.
func (e *Entry) IsDir() bool { return e.Attr&AttrDirectory != 0 }

// Mode selects how Open positions and permits access to a file.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeAppend
)

// Handle is open-file state: a cursor into a cluster chain plus a monotonic byte position.
//
// Per spec.md §4.3, Seek does not re-walk the cluster chain -- it repositions Pos within [0,
// Size] but leaves Cluster wherever it was, so correct use of Seek requires the caller to stay
// within the handle's current cluster, or re-open the file. This is an acknowledged limitation,
// not a bug; see DESIGN.md's Open Question resolution.
type Handle struct {
	entry   *Entry
	cluster uint32
	pos     int
	size    int
	mode    Mode
	valid   bool
}

// Valid reports whether the handle is still usable.
func (h *Handle) Valid() bool { return h != nil && h.valid }

// FS is the filesystem: a flat entry table, a FAT array, and a cluster store.
type FS struct {
	entries map[string]*Entry
	order   []string // insertion order, for stable ListDirectory output

	fat      map[uint32]uint32
	clusters map[uint32][]byte
	nextFree uint32

	cwd string

	log *log.Logger
}

// New creates a filesystem with just the root directory.
func New() *FS {
	fs := &FS{
		entries:  make(map[string]*Entry, MaxEntries),
		fat:      make(map[uint32]uint32),
		clusters: make(map[uint32][]byte),
		nextFree: rootCluster + 1,
		cwd:      "/",
		log:      log.DefaultLogger(),
	}

	fs.entries["/"] = &Entry{
		Path:         "/",
		Name:         "/",
		Parent:       "",
		FirstCluster: rootCluster,
		Attr:         AttrDirectory,
	}
	fs.order = append(fs.order, "/")
	fs.fat[rootCluster] = EOC

	return fs
}

func (fs *FS) normalize(path string) string {
	return Normalize(path, fs.cwd)
}

// Exists reports whether path names an entry.
func (fs *FS) Exists(path string) bool {
	_, ok := fs.entries[fs.normalize(path)]
	return ok
}

// IsDirectory reports whether path names a directory. A missing path is not a directory.
func (fs *FS) IsDirectory(path string) bool {
	e, ok := fs.entries[fs.normalize(path)]
	return ok && e.IsDir()
}

// GetCurrentDir returns the canonical current working directory.
func (fs *FS) GetCurrentDir() string {
	return fs.cwd
}

// Chdir changes the working directory. It fails if the target does not exist or is not a
// directory.
func (fs *FS) Chdir(path string) bool {
	np := fs.normalize(path)

	e, ok := fs.entries[np]
	if !ok || !e.IsDir() {
		return false
	}

	fs.cwd = np

	return true
}

// Mkdir creates a new, empty directory. It fails if the parent is missing, the table is full, or
// the path already exists.
func (fs *FS) Mkdir(path string) bool {
	np := fs.normalize(path)
	if np == "/" {
		return false
	}

	if _, exists := fs.entries[np]; exists {
		return false
	}

	if len(fs.entries) >= MaxEntries {
		return false
	}

	parent, name := Split(np)

	pe, ok := fs.entries[parent]
	if !ok || !pe.IsDir() {
		return false
	}

	cluster := fs.allocCluster()

	fs.entries[np] = &Entry{
		Path:         np,
		Name:         name,
		Parent:       parent,
		FirstCluster: cluster,
		Attr:         AttrDirectory,
	}
	fs.order = append(fs.order, np)

	return true
}

// Rmdir removes an empty directory.
func (fs *FS) Rmdir(path string) bool {
	np := fs.normalize(path)
	if np == "/" {
		return false
	}

	e, ok := fs.entries[np]
	if !ok || !e.IsDir() {
		return false
	}

	if len(fs.childrenOf(np)) > 0 {
		return false
	}

	fs.freeChain(e.FirstCluster)
	fs.removeEntry(np)

	return true
}

// Delete removes a regular file.
func (fs *FS) Delete(path string) bool {
	np := fs.normalize(path)

	e, ok := fs.entries[np]
	if !ok || e.IsDir() {
		return false
	}

	fs.freeChain(e.FirstCluster)
	fs.removeEntry(np)

	return true
}

func (fs *FS) removeEntry(path string) {
	delete(fs.entries, path)

	for i, p := range fs.order {
		if p == path {
			fs.order = append(fs.order[:i], fs.order[i+1:]...)
			break
		}
	}
}

// ListDirectory returns every entry whose parent is path, in creation order.
func (fs *FS) ListDirectory(path string) ([]Entry, bool) {
	np := fs.normalize(path)

	e, ok := fs.entries[np]
	if !ok || !e.IsDir() {
		return nil, false
	}

	return fs.childrenOf(np), true
}

func (fs *FS) childrenOf(parent string) []Entry {
	var out []Entry

	for _, p := range fs.order {
		e := fs.entries[p]
		if e.Parent == parent {
			out = append(out, *e)
		}
	}

	return out
}

// Open opens path with the given mode, creating it if necessary for WRITE/APPEND. READ fails for a
// missing or directory entry; WRITE truncates an existing file to zero length but keeps its first
// cluster; APPEND positions the cursor at the current end of file.
func (fs *FS) Open(path string, mode Mode) (*Handle, bool) {
	np := fs.normalize(path)

	e, exists := fs.entries[np]

	switch mode {
	case ModeRead:
		if !exists || e.IsDir() {
			return nil, false
		}
	case ModeWrite, ModeAppend:
		if !exists {
			if len(fs.entries) >= MaxEntries {
				return nil, false
			}

			parent, name := Split(np)

			pe, ok := fs.entries[parent]
			if !ok || !pe.IsDir() {
				return nil, false
			}

			e = &Entry{
				Path:         np,
				Name:         name,
				Parent:       parent,
				FirstCluster: fs.allocCluster(),
				Attr:         AttrRegular,
			}
			fs.entries[np] = e
			fs.order = append(fs.order, np)
		} else if e.IsDir() {
			return nil, false
		}
	default:
		return nil, false
	}

	h := &Handle{entry: e, cluster: e.FirstCluster, size: e.Size, mode: mode, valid: true}

	switch mode {
	case ModeWrite:
		fs.truncate(e)
		h.size = 0
	case ModeAppend:
		h.pos = e.Size
	}

	return h, true
}

func (fs *FS) truncate(e *Entry) {
	e.Size = 0
	fs.fat[e.FirstCluster] = EOC
	fs.clusters[e.FirstCluster] = make([]byte, ClusterSize)
}

// Read consumes up to min(len(buf), size-position) bytes from h, following the FAT chain across
// cluster boundaries. It returns the number of bytes read.
func (fs *FS) Read(h *Handle, buf []byte) int {
	if !h.Valid() || h.mode != ModeRead {
		return 0
	}

	remaining := h.size - h.pos
	if remaining <= 0 {
		return 0
	}

	n := len(buf)
	if n > remaining {
		n = remaining
	}

	read := 0

	for read < n {
		off := h.pos % ClusterSize
		chunk := ClusterSize - off

		if chunk > n-read {
			chunk = n - read
		}

		data := fs.clusters[h.cluster]
		copy(buf[read:read+chunk], data[off:off+chunk])

		read += chunk
		h.pos += chunk

		if h.pos%ClusterSize == 0 && h.pos < h.size {
			h.cluster = fs.fat[h.cluster]
		}
	}

	return read
}

// Write appends n bytes from buf at the handle's current position, allocating and linking new
// clusters as the cluster boundary is crossed. It grows the entry's size to max(size, position)
// and propagates the new size to the backing entry.
func (fs *FS) Write(h *Handle, buf []byte) int {
	if !h.Valid() || h.mode == ModeRead {
		return 0
	}

	written := 0

	for written < len(buf) {
		off := h.pos % ClusterSize
		chunk := ClusterSize - off

		if chunk > len(buf)-written {
			chunk = len(buf) - written
		}

		data := fs.clusters[h.cluster]
		if data == nil {
			data = make([]byte, ClusterSize)
			fs.clusters[h.cluster] = data
		}

		copy(data[off:off+chunk], buf[written:written+chunk])

		written += chunk
		h.pos += chunk

		if h.pos%ClusterSize == 0 && written < len(buf) {
			next := fs.allocCluster()
			fs.fat[h.cluster] = next
			h.cluster = next
		}
	}

	if h.pos > h.size {
		h.size = h.pos
	}

	if h.size > h.entry.Size {
		h.entry.Size = h.size
	}

	return written
}

// Whence values for Seek.
const (
	SeekSet = iota
	SeekCur
	SeekEnd
)

// Seek repositions the handle within [0, size]; out-of-range requests clamp to size. It does not
// re-walk the cluster chain -- see the Handle doc comment.
func (fs *FS) Seek(h *Handle, offset int, whence int) bool {
	if !h.Valid() {
		return false
	}

	var target int

	switch whence {
	case SeekSet:
		target = offset
	case SeekCur:
		target = h.pos + offset
	case SeekEnd:
		target = h.size + offset
	default:
		return false
	}

	if target < 0 {
		target = 0
	}

	if target > h.size {
		target = h.size
	}

	h.pos = target

	return true
}

// allocCluster hands out the next free cluster number. The simulator never reuses freed clusters
// (a real FAT would), which is consistent with spec.md's non-goal of on-disk persistence: clusters
// are an in-RAM bookkeeping device for chain-walking, not scarce physical media.
func (fs *FS) allocCluster() uint32 {
	c := fs.nextFree
	fs.nextFree++
	fs.fat[c] = EOC
	fs.clusters[c] = make([]byte, ClusterSize)

	return c
}

func (fs *FS) freeChain(start uint32) {
	cur := start

	for cur != EOC {
		next, ok := fs.fat[cur]

		delete(fs.fat, cur)
		delete(fs.clusters, cur)

		if !ok {
			break
		}

		cur = next
	}
}

// String renders a path for debugging; entries are otherwise opaque outside this package.
func (e Entry) String() string {
	kind := "file"
	if e.IsDir() {
		kind = "dir"
	}

	return fmt.Sprintf("%s (%s, %d bytes)", e.Path, kind, e.Size)
}
