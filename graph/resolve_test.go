package graph

import (
	"testing"

	"github.com/c360studio/layerlint/rules"
	"github.com/c360studio/layerlint/scanner"
)

func fixtureUnits() []scanner.Unit {
	return []scanner.Unit{
		{Module: "orders", Layer: rules.LayerRepository, Name: "order_repo", Path: "orders/repositories/order_repo.py"},
		{Module: "orders", Layer: rules.LayerService, Name: "order_service", Path: "orders/services/order_service.py"},
		{Module: "orders", Layer: rules.LayerEntity, Name: "order", Path: "orders/entities/order.py"},
		{Module: "users", Layer: rules.LayerService, Name: "user_service", Path: "users/services/user_service.py"},
		{Module: "users", Layer: rules.LayerService, Name: "index", Path: "users/services/index.ts"},
		{Module: "billing", Layer: rules.LayerRepository, Name: "InvoiceRepository", Path: "billing/repositories/InvoiceRepository.java"},
	}
}

func TestResolveDotted(t *testing.T) {
	r := newResolver(fixtureUnits())
	source := &scanner.Unit{Module: "users", Layer: rules.LayerService, Path: "users/services/user_service.py"}

	units := r.resolve(source, "orders.repositories.order_repo")
	if len(units) != 1 || units[0].Path != "orders/repositories/order_repo.py" {
		t.Fatalf("resolve = %v", units)
	}
}

func TestResolveDirectory(t *testing.T) {
	r := newResolver(fixtureUnits())
	source := &scanner.Unit{Module: "users", Layer: rules.LayerService, Path: "users/services/user_service.py"}

	// A package import resolves to every unit directly inside the
	// directory.
	units := r.resolve(source, "orders.services")
	if len(units) != 1 || units[0].Path != "orders/services/order_service.py" {
		t.Fatalf("resolve = %v", units)
	}
}

func TestResolveRelativeSlash(t *testing.T) {
	r := newResolver(fixtureUnits())
	source := &scanner.Unit{Module: "orders", Layer: rules.LayerService, Path: "orders/services/order_service.py"}

	units := r.resolve(source, "../repositories/order_repo")
	if len(units) != 1 || units[0].Path != "orders/repositories/order_repo.py" {
		t.Fatalf("resolve = %v", units)
	}
}

func TestResolveDotRelative(t *testing.T) {
	r := newResolver(fixtureUnits())

	tests := []struct {
		name   string
		source string
		spec   string
		want   string
	}{
		{"sibling package", "orders/services/order_service.py", "..entities.order", "orders/entities/order.py"},
		{"own package", "orders/repositories/other.py", ".order_repo", "orders/repositories/order_repo.py"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source := &scanner.Unit{Module: "orders", Path: tc.source}
			units := r.resolve(source, tc.spec)
			if len(units) != 1 || units[0].Path != tc.want {
				t.Fatalf("resolve(%q) = %v, want %s", tc.spec, units, tc.want)
			}
		})
	}
}

func TestResolvePackagePrefixStripping(t *testing.T) {
	r := newResolver(fixtureUnits())
	source := &scanner.Unit{Module: "users", Path: "users/services/user_service.py"}

	// Java-style fully qualified name with an org prefix that does not
	// exist on disk.
	units := r.resolve(source, "com.shop.billing.repositories.InvoiceRepository")
	if len(units) != 1 || units[0].Path != "billing/repositories/InvoiceRepository.java" {
		t.Fatalf("resolve = %v", units)
	}

	// Go-style module path import of a package directory.
	units = r.resolve(source, "example.com/shop/orders/repositories")
	if len(units) != 1 || units[0].Path != "orders/repositories/order_repo.py" {
		t.Fatalf("resolve = %v", units)
	}
}

func TestResolveIndexFile(t *testing.T) {
	r := newResolver(fixtureUnits())
	source := &scanner.Unit{Module: "orders", Path: "orders/controllers/orders_controller.ts"}

	// The index-file convention narrows a directory specifier to its
	// index unit.
	units := r.resolve(source, "../../users/services")
	if len(units) != 1 || units[0].Path != "users/services/index.ts" {
		t.Fatalf("resolve = %v", units)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := newResolver(fixtureUnits())
	source := &scanner.Unit{Module: "users", Path: "users/services/user_service.py"}

	for _, spec := range []string{"flask", "os.path", "@nestjs/common", ""} {
		if units := r.resolve(source, spec); units != nil {
			t.Errorf("resolve(%q) = %v, want nil", spec, units)
		}
	}
}
