package vfs

// tree.go implements recursive-shaped filesystem operations (copy/delete a whole directory) as an
// explicit work queue rather than function recursion, per spec.md §9's guidance to avoid kernel
// stack growth concerns for unbounded directory depth.

// DeleteTree removes path and, if it is a directory, everything beneath it. It returns the number
// of entries removed.
func (fs *FS) DeleteTree(path string) int {
	np := fs.normalize(path)

	e, ok := fs.entries[np]
	if !ok {
		return 0
	}

	if !e.IsDir() {
		if fs.Delete(np) {
			return 1
		}

		return 0
	}

	// Collect every descendant first (breadth order is fine; deletion order only needs to
	// process children before their parent).
	var (
		queue = []string{np}
		all   []string
	)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		all = append(all, cur)

		for _, child := range fs.childrenOf(cur) {
			queue = append(queue, child.Path)
		}
	}

	removed := 0

	for i := len(all) - 1; i >= 0; i-- {
		p := all[i]
		if p == np && p != "/" {
			if fs.Rmdir(p) {
				removed++
			}

			continue
		}

		if ent := fs.entries[p]; ent != nil && ent.IsDir() {
			if fs.Rmdir(p) {
				removed++
			}
		} else if fs.Delete(p) {
			removed++
		}
	}

	return removed
}

// CopyTree copies src (file or directory, recursively) to dst. It returns the number of files
// copied, or false if src does not exist.
func (fs *FS) CopyTree(src, dst string) (int, bool) {
	nsrc := fs.normalize(src)
	ndst := fs.normalize(dst)

	srcEntry, ok := fs.entries[nsrc]
	if !ok {
		return 0, false
	}

	if !srcEntry.IsDir() {
		if fs.copyFile(nsrc, ndst) {
			return 1, true
		}

		return 0, false
	}

	if !fs.Exists(ndst) {
		if !fs.Mkdir(ndst) {
			return 0, false
		}
	}

	type pending struct{ src, dst string }

	queue := []pending{{nsrc, ndst}}
	copied := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		children, _ := fs.ListDirectory(cur.src)

		for _, child := range children {
			childDst := cur.dst + "/" + child.Name

			if child.IsDir() {
				fs.Mkdir(childDst)
				queue = append(queue, pending{child.Path, childDst})
			} else if fs.copyFile(child.Path, childDst) {
				copied++
			}
		}
	}

	return copied, true
}

func (fs *FS) copyFile(src, dst string) bool {
	in, ok := fs.Open(src, ModeRead)
	if !ok {
		return false
	}

	buf := make([]byte, in.size)
	fs.Read(in, buf)

	out, ok := fs.Open(dst, ModeWrite)
	if !ok {
		return false
	}

	fs.Write(out, buf)

	return true
}
