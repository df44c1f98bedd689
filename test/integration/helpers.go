package integration

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// SiteStructure represents the generated content tree for golden testing.
type SiteStructure struct {
	Files []string `json:"files"`
}

// setupTestProject copies a testdata project into a temp directory and
// returns a config rooted there.
func setupTestProject(t *testing.T, projectPath string) *config.Config {
	t.Helper()

	tmpDir := t.TempDir()
	require.NoError(t, copyDir(projectPath, tmpDir), "failed to copy test project")

	cfg := config.Default()
	cfg.ProjectRoot = tmpDir
	return cfg
}

// copyDir recursively copies a directory tree.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		targetPath := filepath.Join(dst, relPath)
		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}
		return copyFile(path, targetPath)
	})
}

func copyFile(src, dst string) error {
	// #nosec G304 -- test utility with paths from test setup, not user input
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G304 -- test utility with paths from test setup, not user input
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// collectStructure walks the content directory and returns the sorted list of
// generated files, relative to the content root.
func collectStructure(t *testing.T, contentDir string) *SiteStructure {
	t.Helper()

	structure := &SiteStructure{Files: []string{}}
	err := filepath.Walk(contentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		relPath, relErr := filepath.Rel(contentDir, path)
		if relErr != nil {
			return relErr
		}
		structure.Files = append(structure.Files, filepath.ToSlash(relPath))
		return nil
	})
	require.NoError(t, err, "failed to walk content directory")

	sort.Strings(structure.Files)
	return structure
}

// verifySiteStructure compares the generated content tree against a golden file.
func verifySiteStructure(t *testing.T, contentDir, goldenPath string, updateGolden bool) {
	t.Helper()

	actual := collectStructure(t, contentDir)

	if updateGolden {
		data, err := json.MarshalIndent(actual, "", "  ")
		require.NoError(t, err, "failed to marshal site structure")

		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o750))
		require.NoError(t, os.WriteFile(goldenPath, data, 0o600))

		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	goldenData, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file: %s", goldenPath)

	var expected SiteStructure
	require.NoError(t, json.Unmarshal(goldenData, &expected), "failed to parse golden structure")

	require.Equal(t, expected.Files, actual.Files, "content tree mismatch")
}

// requireContainsAll asserts that every marker appears in the page, with a
// readable failure listing the missing ones.
func requireContainsAll(t *testing.T, page string, markers []string) {
	t.Helper()

	var missing []string
	for _, m := range markers {
		if !strings.Contains(page, m) {
			missing = append(missing, m)
		}
	}
	require.Empty(t, missing, "generated page is missing expected fragments")
}
