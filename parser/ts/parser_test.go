package ts

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func parseSource(t *testing.T, name, source string) []string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, name)
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
		file   string
		source string
		want   []string
	}{
		{
			name: "es module imports",
			file: "service.ts",
			source: `import { OrderRepo } from '../orders/repositories/order.repo';
import * as mapper from './mappers/user.mapper';
import express from 'express';
`,
			want: []string{
				"../orders/repositories/order.repo",
				"./mappers/user.mapper",
				"express",
			},
		},
		{
			name: "commonjs require",
			file: "service.js",
			source: `const repo = require('../orders/repositories/order.repo');
const fs = require('fs');
`,
			want: []string{
				"../orders/repositories/order.repo",
				"fs",
			},
		},
		{
			name:   "re-export",
			file:   "index.ts",
			source: "export { OrderService } from './services/order.service';\n",
			want:   []string{"./services/order.service"},
		},
		{
			name:   "tsx",
			file:   "view.tsx",
			source: "import { OrderDto } from './dtos/order.dto';\nexport const V = () => <div/>;\n",
			want:   []string{"./dtos/order.dto"},
		},
		{
			name:   "duplicates collapse",
			file:   "dup.ts",
			source: "import a from './x';\nimport b from './x';\n",
			want:   []string{"./x"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSource(t, tc.file, tc.source)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("imports = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	p := NewParser(t.TempDir())
	if _, err := p.ParseFile(context.Background(), "/no/such/file.ts"); err == nil {
		t.Fatal("expected read error")
	}
}
