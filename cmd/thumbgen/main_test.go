package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "regular.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		root    string
		wantErr bool
	}{
		{name: "existing directory", root: dir, wantErr: false},
		{name: "missing argument", root: "", wantErr: true},
		{name: "nonexistent path", root: filepath.Join(dir, "nope"), wantErr: true},
		{name: "regular file", root: file, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRoot(tt.root)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRoot(%q) error = %v, wantErr %v", tt.root, err, tt.wantErr)
			}
		})
	}
}
