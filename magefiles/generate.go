//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sampleData is the fragment file used by the Sample and Stats targets.
const sampleData = "internal/fragments/testdata/data.json"

// Sample builds the CLI and generates a 300-character essay from the test data.
func Sample() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "generate", "买房",
		"-n", "300", "-d", sampleData)
}

// Fragments checks the sample data source for missing categories.
func Fragments() error {
	return sh.RunV("go", "run", cmdPkg, "fragments", "-d", sampleData)
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}
