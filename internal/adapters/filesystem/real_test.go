package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRealFileSystem_WriteAndReadFile(t *testing.T) {
	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "test.txt")

	if err := fs.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "content" {
		t.Errorf("ReadFile() = %q, want %q", data, "content")
	}
}

func TestRealFileSystem_Exists(t *testing.T) {
	fs := NewRealFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")

	if fs.Exists(path) {
		t.Error("Exists() should be false before creation")
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !fs.Exists(path) {
		t.Error("Exists() should be true after creation")
	}
}

func TestRealFileSystem_MkdirAllAndIsDir(t *testing.T) {
	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := fs.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if !fs.IsDir(path) {
		t.Error("IsDir() should be true for created directory")
	}
	if fs.IsDir(filepath.Join(path, "missing")) {
		t.Error("IsDir() should be false for missing path")
	}
}

func TestRealFileSystem_Remove(t *testing.T) {
	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "doomed.txt")

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if fs.Exists(path) {
		t.Error("file should not exist after Remove()")
	}
}

func TestRealFileSystem_CopyFile(t *testing.T) {
	fs := NewRealFileSystem()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dest := filepath.Join(dir, "dest.txt")

	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := fs.CopyFile(src, dest); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	data, err := fs.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("copied content = %q, want %q", data, "payload")
	}

	info, err := fs.GetFileInfo(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode != 0o600 {
		t.Errorf("copied mode = %v, want 0600", info.Mode)
	}
}

func TestRealFileSystem_GetFileInfo(t *testing.T) {
	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "info.txt")

	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := fs.GetFileInfo(path)
	if err != nil {
		t.Fatalf("GetFileInfo() error = %v", err)
	}
	if info.Size != 5 {
		t.Errorf("Size = %d, want 5", info.Size)
	}
	if info.IsDir {
		t.Error("IsDir should be false for a file")
	}

	if _, err := fs.GetFileInfo(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("GetFileInfo() should fail for a missing file")
	}
}
