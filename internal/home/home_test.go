package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		d, err := New("/tmp/titlescan-test")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if d.Path() != "/tmp/titlescan-test" {
			t.Errorf("Path() = %q", d.Path())
		}
	})

	t.Run("default path", func(t *testing.T) {
		d, err := New("")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if filepath.Base(d.Path()) != DefaultDirName {
			t.Errorf("Path() = %q, want basename %q", d.Path(), DefaultDirName)
		}
	})
}

func TestPaths(t *testing.T) {
	d, err := New("/data/ts")
	if err != nil {
		t.Fatal(err)
	}
	if d.ExamplesPath() != filepath.Join("/data/ts", ExamplesDirName) {
		t.Errorf("ExamplesPath() = %q", d.ExamplesPath())
	}
	if d.ConfigPath() != filepath.Join("/data/ts", ConfigFileName) {
		t.Errorf("ConfigPath() = %q", d.ConfigPath())
	}
}

func TestEnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "home")
	d, err := New(root)
	if err != nil {
		t.Fatal(err)
	}

	if d.Exists() {
		t.Fatal("directory should not exist yet")
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	if !d.Exists() {
		t.Error("home directory missing after EnsureExists")
	}
	if _, err := os.Stat(d.ExamplesPath()); err != nil {
		t.Errorf("examples directory missing: %v", err)
	}
	if d.ConfigExists() {
		t.Error("config should not exist before being written")
	}
}
