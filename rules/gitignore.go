package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/denormal/go-gitignore"
)

// ignoreMatcher is the compiled .gitignore stage; nil disables the stage.
type ignoreMatcher = gitignore.GitIgnore

// LoadIgnoreFile arms the optional gitignore stage from root/.gitignore.
// The stage is evaluated before the rule set: a path the gitignore matcher
// ignores is excluded outright. A missing file leaves the stage disabled.
func (e *Engine) LoadIgnoreFile(root string) error {
	path := filepath.Join(root, ".gitignore")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.ignore = nil
			return nil
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	e.ignore = gitignore.New(f, root, nil)
	return nil
}
