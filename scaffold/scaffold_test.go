package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/c360studio/layerlint/rules"
)

func TestGenerateCreatesCanonicalLayout(t *testing.T) {
	root := t.TempDir()

	result, err := Generate(root, "orders")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.Module != "orders" {
		t.Errorf("Module = %q, want %q", result.Module, "orders")
	}
	if !reflect.DeepEqual(result.Created, rules.CanonicalDirs()) {
		t.Errorf("Created = %v, want %v", result.Created, rules.CanonicalDirs())
	}
	if len(result.Existed) != 0 {
		t.Errorf("Existed = %v, want empty", result.Existed)
	}

	for _, dir := range rules.CanonicalDirs() {
		layerDir := filepath.Join(root, "orders", dir)
		info, err := os.Stat(layerDir)
		if err != nil {
			t.Fatalf("missing layer dir %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
		if _, err := os.Stat(filepath.Join(layerDir, ".gitkeep")); err != nil {
			t.Errorf("missing .gitkeep in %s: %v", dir, err)
		}
	}
}

func TestGenerateIdempotent(t *testing.T) {
	root := t.TempDir()

	if _, err := Generate(root, "orders"); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	// Drop a marker file into an existing layer to prove the second run
	// leaves present directories untouched.
	marker := filepath.Join(root, "orders", "services", "order_service.py")
	if err := os.WriteFile(marker, []byte("x = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	second, err := Generate(root, "orders")
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if len(second.Created) != 0 {
		t.Errorf("second run Created = %v, want empty", second.Created)
	}
	if !reflect.DeepEqual(second.Existed, rules.CanonicalDirs()) {
		t.Errorf("second run Existed = %v, want %v", second.Existed, rules.CanonicalDirs())
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("marker file disturbed: %v", err)
	}
}

func TestGeneratePartialLayout(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"controllers", "services"} {
		if err := os.MkdirAll(filepath.Join(root, "orders", dir), 0755); err != nil {
			t.Fatal(err)
		}
	}

	result, err := Generate(root, "orders")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantExisted := []string{"controllers", "services"}
	if !reflect.DeepEqual(result.Existed, wantExisted) {
		t.Errorf("Existed = %v, want %v", result.Existed, wantExisted)
	}
	wantCreated := []string{"repositories", "entities", "dtos", "mappers", "utils"}
	if !reflect.DeepEqual(result.Created, wantCreated) {
		t.Errorf("Created = %v, want %v", result.Created, wantCreated)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name   string
		root   string
		module string
	}{
		{"reserved name", root, "config"},
		{"reserved name uppercase", root, "CONFIG"},
		{"empty name", root, ""},
		{"uppercase name", root, "Orders"},
		{"leading digit", root, "1orders"},
		{"path separator", root, "a/b"},
		{"missing root", filepath.Join(root, "nope"), "orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.root, tt.module)
			var se *ScaffoldError
			if !errors.As(err, &se) {
				t.Fatalf("expected ScaffoldError, got %v", err)
			}
		})
	}
}

func TestGenerateRootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "somefile")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Generate(file, "orders")
	var se *ScaffoldError
	if !errors.As(err, &se) {
		t.Fatalf("expected ScaffoldError, got %v", err)
	}
}

func TestGenerateLayerPathCollision(t *testing.T) {
	// A file squatting on a canonical layer path is an error, not
	// something to silently overwrite.
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "orders"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "orders", "controllers"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Generate(root, "orders")
	var se *ScaffoldError
	if !errors.As(err, &se) {
		t.Fatalf("expected ScaffoldError, got %v", err)
	}
}
