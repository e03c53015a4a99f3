package vfs

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		path, cwd, want string
	}{
		{"/a/b/../c", "/", "/a/c"},
		{"./x", "/a", "/a/x"},
		{"/", "/a", "/"},
		{"../../x", "/a/b", "/x"},
		{"a/b/", "/", "/a/b"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.path, tc.cwd); got != tc.want {
			t.Errorf("Normalize(%q, %q) = %q, want %q", tc.path, tc.cwd, got, tc.want)
		}
	}
}

func TestRoundTripWriteThenRead(t *testing.T) {
	fs := New()

	h, ok := fs.Open("/a.txt", ModeWrite)
	if !ok {
		t.Fatal("open for write failed")
	}

	data := []byte("hi")
	if n := fs.Write(h, data); n != len(data) {
		t.Fatalf("write returned %d, want %d", n, len(data))
	}

	rh, ok := fs.Open("/a.txt", ModeRead)
	if !ok {
		t.Fatal("open for read failed")
	}

	buf := make([]byte, 16)
	n := fs.Read(rh, buf)

	if string(buf[:n]) != "hi" {
		t.Errorf("read %q, want %q", buf[:n], "hi")
	}
}

func TestAppendPreservesContent(t *testing.T) {
	fs := New()

	h, _ := fs.Open("/a.txt", ModeWrite)
	fs.Write(h, []byte("hello "))

	ah, _ := fs.Open("/a.txt", ModeAppend)
	fs.Write(ah, []byte("world"))

	rh, _ := fs.Open("/a.txt", ModeRead)
	buf := make([]byte, 32)
	n := fs.Read(rh, buf)

	if string(buf[:n]) != "hello world" {
		t.Errorf("got %q, want %q", buf[:n], "hello world")
	}
}

func TestWriteTruncatesOnReopen(t *testing.T) {
	fs := New()

	h, _ := fs.Open("/a.txt", ModeWrite)
	fs.Write(h, []byte("0123456789"))

	h2, _ := fs.Open("/a.txt", ModeWrite)
	fs.Write(h2, []byte("xy"))

	rh, _ := fs.Open("/a.txt", ModeRead)
	buf := make([]byte, 32)
	n := fs.Read(rh, buf)

	if string(buf[:n]) != "xy" {
		t.Errorf("got %q, want %q", buf[:n], "xy")
	}
}

func TestWriteAcrossClusterBoundary(t *testing.T) {
	fs := New()

	h, _ := fs.Open("/big.bin", ModeWrite)

	data := make([]byte, ClusterSize+100)
	for i := range data {
		data[i] = byte(i)
	}

	fs.Write(h, data)

	rh, _ := fs.Open("/big.bin", ModeRead)
	buf := make([]byte, len(data))
	n := fs.Read(rh, buf)

	if n != len(data) {
		t.Fatalf("read %d bytes, want %d", n, len(data))
	}

	for i := range data {
		if buf[i] != data[i] {
			t.Fatalf("byte %d = %d, want %d", i, buf[i], data[i])
		}
	}
}

func TestMkdirRequiresParent(t *testing.T) {
	fs := New()

	if fs.Mkdir("/a/b") {
		t.Error("mkdir with missing parent should fail")
	}

	if !fs.Mkdir("/a") {
		t.Fatal("mkdir /a should succeed")
	}

	if !fs.Mkdir("/a/b") {
		t.Error("mkdir /a/b should succeed once /a exists")
	}
}

func TestChdirAndPwd(t *testing.T) {
	fs := New()
	fs.Mkdir("/Documents")
	fs.Mkdir("/Projects")

	if !fs.Chdir("/Documents") {
		t.Fatal("chdir failed")
	}

	if !fs.Chdir("../Projects") {
		t.Fatal("relative chdir failed")
	}

	if got := fs.GetCurrentDir(); got != "/Projects" {
		t.Errorf("cwd = %q, want /Projects", got)
	}
}

func TestListDirectory(t *testing.T) {
	fs := New()
	fs.Mkdir("/dir")

	h, _ := fs.Open("/dir/a.txt", ModeWrite)
	fs.Write(h, []byte("x"))

	h2, _ := fs.Open("/dir/b.txt", ModeWrite)
	fs.Write(h2, []byte("yy"))

	entries, ok := fs.ListDirectory("/dir")
	if !ok || len(entries) != 2 {
		t.Fatalf("ListDirectory = %v, %v", entries, ok)
	}
}

func TestDeleteTree(t *testing.T) {
	fs := New()
	fs.Mkdir("/dir")
	fs.Mkdir("/dir/sub")

	h, _ := fs.Open("/dir/a.txt", ModeWrite)
	fs.Write(h, []byte("x"))

	h2, _ := fs.Open("/dir/sub/b.txt", ModeWrite)
	fs.Write(h2, []byte("y"))

	fs.DeleteTree("/dir")

	if fs.Exists("/dir") || fs.Exists("/dir/sub") || fs.Exists("/dir/sub/b.txt") {
		t.Error("DeleteTree left residue")
	}
}

func TestSeekClampsToSize(t *testing.T) {
	fs := New()
	h, _ := fs.Open("/a.txt", ModeWrite)
	fs.Write(h, []byte("0123456789"))

	rh, _ := fs.Open("/a.txt", ModeRead)

	if !fs.Seek(rh, 1000, SeekSet) {
		t.Fatal("seek failed")
	}

	if rh.pos != 10 {
		t.Errorf("pos after overshoot seek = %d, want 10", rh.pos)
	}

	if !fs.Seek(rh, -1000, SeekSet) {
		t.Fatal("seek failed")
	}

	if rh.pos != 0 {
		t.Errorf("pos after undershoot seek = %d, want 0", rh.pos)
	}
}

func TestOpenReadMissingFails(t *testing.T) {
	fs := New()

	if _, ok := fs.Open("/nope.txt", ModeRead); ok {
		t.Error("opening a missing file for read should fail")
	}

	fs.Mkdir("/d")

	if _, ok := fs.Open("/d", ModeRead); ok {
		t.Error("opening a directory for read should fail")
	}
}
