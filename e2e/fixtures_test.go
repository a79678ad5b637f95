//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const fixtureBooks = `books:
  - id: dune-1965
    title: Dune
    authors: [Frank Herbert]
    published_date: "1965-08-01"
  - id: dune-messiah
    title: Dune Messiah
    authors: [Frank Herbert]
    published_date: "1969"
  - id: children-of-dune
    title: Children of Dune
    authors: [Frank Herbert]
    published_date: "1976"
  - id: hobbit
    title: The Hobbit
    authors: [J. R. R. Tolkien]
    published_date: "1937-09-21"
`

// CreateWorkspace creates an isolated config dir that searches the local
// catalog, with the fixture books imported
func (tf *TUITestFramework) CreateWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "shelf-e2e-*")
	if err != nil {
		return "", err
	}
	tf.workspace = dir

	config := fmt.Sprintf(`version = 1

[search]
source = "local"
limit = 10
debounce_ms = 50
timeout_ms = 2000

[catalog]
path = %q

[ui]
max_visible = 8
width = 60
log_file = %q
`, filepath.Join(dir, "catalog.db"), filepath.Join(dir, "shelf.log"))

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0644); err != nil {
		return "", err
	}
	books := filepath.Join(dir, "books.yaml")
	if err := os.WriteFile(books, []byte(fixtureBooks), 0644); err != nil {
		return "", err
	}
	if out, err := tf.RunCLI("catalog", "import", books); err != nil {
		return "", fmt.Errorf("import fixtures: %v: %s", err, out)
	}
	return dir, nil
}

// RunCLI runs a non-interactive shelf command in the workspace
func (tf *TUITestFramework) RunCLI(args ...string) (string, error) {
	cmd := exec.Command(binPath, args...)
	cmd.Env = tf.env()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func (tf *TUITestFramework) env() []string {
	return append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace, // isolate $HOME
		"SHELF_CONFIG_DIR="+tf.workspace,
		"SHELF_BOOKS_API_KEY=",
	)
}
