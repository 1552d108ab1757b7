//go:build mage

// Package main provides build targets for the compass project using Mage.
//
// Usage:
//
//	mage build          Compile the compass binary to bin/
//	mage test           Run all tests
//	mage testRace       Run all tests with the race detector
//	mage lint           Run golangci-lint
//	mage catalog        Validate and lint the built-in framework catalog
//	mage exportCatalog  Write the built-in catalog as JSONL to CATALOG_OUT
//	mage clean          Remove build artifacts
//	mage install        Install compass to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "compass"
	binaryDir  = "bin"
	cmdDir     = "./cmd/compass"

	defaultCatalogOut = "dist/catalog"
)

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}

// Build compiles the compass binary to bin/. VERSION, when set, is stamped
// into the binary.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v"}
	if v := os.Getenv("VERSION"); v != "" {
		args = append(args, "-ldflags", "-X main.version="+v)
	}
	args = append(args, "-o", binaryPath(), cmdDir)
	return sh.RunV("go", args...)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs all tests with the race detector. The engine and the batch
// command are exercised concurrently.
func TestRace() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Catalog builds the binary and checks the built-in catalog for integrity
// errors and malformed anti-patterns. It runs against an empty config dir
// so a local config.yaml cannot point it at another catalog.
func Catalog() error {
	mg.Deps(Build)
	configDir, err := os.MkdirTemp("", "compass-mage-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(configDir)

	for _, sub := range []string{"validate", "lint"} {
		if err := sh.RunV(binaryPath(), "--config-dir", configDir, "--catalog-format", "builtin", "catalog", sub); err != nil {
			return err
		}
	}
	return nil
}

// ExportCatalog writes the built-in catalog as frameworks.jsonl to
// CATALOG_OUT (default dist/catalog) for deployments that serve a JSONL
// catalog.
func ExportCatalog() error {
	mg.Deps(Catalog)
	out := os.Getenv("CATALOG_OUT")
	if out == "" {
		out = defaultCatalogOut
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	configDir, err := os.MkdirTemp("", "compass-mage-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(configDir)
	return sh.RunV(binaryPath(), "--config-dir", configDir, "--catalog-format", "builtin", "catalog", "export", "--out", out)
}

// Clean removes build artifacts.
func Clean() error {
	for _, dir := range []string{binaryDir, filepath.Dir(defaultCatalogOut)} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), binaryPath())
}
