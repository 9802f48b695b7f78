package fsutil

import (
	"io"
	"testing"
)

func TestOSFileSystemExists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestMemoryFileSystemReadWrite(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("capture.bin", []byte{1, 2, 3})

	data, err := m.ReadFile("capture.bin")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string([]byte{1, 2, 3}) {
		t.Errorf("ReadFile = %v", data)
	}
	if !m.Exists("capture.bin") {
		t.Error("Exists should report stored file")
	}
	if m.Exists("other.bin") {
		t.Error("Exists should not report missing file")
	}
}

func TestMemoryFileSystemOpen(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("capture.bin", []byte("hello"))

	f, err := m.Open("capture.bin")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("read %q, want %q", data, "hello")
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("Size = %d, want 5", info.Size())
	}
}

func TestMemoryFileSystemOpenMissing(t *testing.T) {
	m := NewMemoryFileSystem()
	if _, err := m.Open("missing.bin"); err == nil {
		t.Error("Open of missing file should fail")
	}
	if _, err := m.ReadFile("missing.bin"); err == nil {
		t.Error("ReadFile of missing file should fail")
	}
}

func TestMemoryFileSystemCreateVisibleOnClose(t *testing.T) {
	m := NewMemoryFileSystem()
	w, err := m.Create("out.csv")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("a, b\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := w.Write([]byte("1, 2\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := m.ReadFile("out.csv")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "a, b\n1, 2\n" {
		t.Errorf("content = %q", data)
	}
}
