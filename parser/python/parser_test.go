package python

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func parseSource(t *testing.T, source string) []string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "unit.py")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewParser(root).ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	return result.Imports
}

func TestParseImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "plain import",
			source: "import orders.repositories.order_repo\n",
			want:   []string{"orders.repositories.order_repo"},
		},
		{
			name:   "from import",
			source: "from orders.services import order_service\n",
			want:   []string{"orders.services"},
		},
		{
			name:   "aliased import",
			source: "import orders.services.order_service as svc\n",
			want:   []string{"orders.services.order_service"},
		},
		{
			name:   "multiple imports",
			source: "import os, orders.entities.order\n",
			want:   []string{"os", "orders.entities.order"},
		},
		{
			name:   "relative import",
			source: "from .repositories import order_repo\n",
			want:   []string{".repositories"},
		},
		{
			name:   "duplicates collapse",
			source: "import orders.entities.order\nimport orders.entities.order\n",
			want:   []string{"orders.entities.order"},
		},
		{
			name:   "no imports",
			source: "x = 1\n",
			want:   []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSource(t, tc.source)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("imports = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	p := NewParser(t.TempDir())
	if _, err := p.ParseFile(context.Background(), "/no/such/file.py"); err == nil {
		t.Fatal("expected read error")
	}
}
