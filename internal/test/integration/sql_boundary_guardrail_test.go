//go:build integration
// +build integration

package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestDirectSQLAccessStaysInStorageLayer scans every package in the
// module and fails when database/sql is imported outside the SQLite
// storage layer. Everything above that layer goes through the
// storage.Store interfaces.
func TestDirectSQLAccessStaysInStorageLayer(t *testing.T) {
	config := &packages.Config{
		Mode:  packages.NeedName | packages.NeedImports,
		Tests: false,
		Dir:   integrationRepoRoot(t),
	}
	pkgs, err := packages.Load(config, "./...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatal("package load errors")
	}
	if len(pkgs) == 0 {
		t.Fatal("no packages loaded")
	}

	var violations []string
	for _, pkg := range pkgs {
		if _, ok := pkg.Imports["database/sql"]; !ok {
			continue
		}
		if isSQLBoundaryPackage(pkg.PkgPath) {
			continue
		}
		violations = append(violations, pkg.PkgPath)
	}
	if len(violations) > 0 {
		t.Fatalf("database/sql must stay inside the storage layer:\n- %s", strings.Join(violations, "\n- "))
	}
}

func isSQLBoundaryPackage(path string) bool {
	switch path {
	case "github.com/freightpress/freightpress/internal/storage/sqlite",
		"github.com/freightpress/freightpress/internal/platform/storage/sqlitemigrate":
		return true
	}
	return false
}

func TestSQLBoundaryAllowsStorageLayer(t *testing.T) {
	if !isSQLBoundaryPackage("github.com/freightpress/freightpress/internal/storage/sqlite") {
		t.Fatal("expected sqlite store package to be allowed")
	}
	if !isSQLBoundaryPackage("github.com/freightpress/freightpress/internal/platform/storage/sqlitemigrate") {
		t.Fatal("expected migration runner package to be allowed")
	}
	if isSQLBoundaryPackage("github.com/freightpress/freightpress/internal/mcp/domain") {
		t.Fatal("expected MCP domain package to be scanned")
	}
}

func integrationRepoRoot(t *testing.T) string {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working dir: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			t.Fatal("go.mod not found")
		}
		wd = parent
	}
}
