//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const reportFixture = "../internal/blastxml/testdata/two_iterations.xml"

// CreateTestWorkspace creates a temporary directory the app runs in
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateReport copies the two-iteration BLAST report into the workspace
func (tf *TUITestFramework) CreateReport(name string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	data, err := os.ReadFile(reportFixture)
	if err != nil {
		return "", fmt.Errorf("read fixture: %w", err)
	}
	path := filepath.Join(tf.workspace, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// CreateFile writes arbitrary content into the workspace
func (tf *TUITestFramework) CreateFile(name, content string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	path := filepath.Join(tf.workspace, name)
	return path, os.WriteFile(path, []byte(content), 0644)
}
