package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Engine_RulePrecedence(t *testing.T) {
	e := NewEngine(Parse([]string{"*", "!temp/*", "!!temp/keep/*"}))

	if !e.IncludeFile("temp/keep/file.txt") {
		t.Error("reinclude must override the exclusion")
	}
	if e.IncludeFile("temp/other/file.txt") {
		t.Error("excluded path without a reinclude match must stay excluded")
	}
	if !e.IncludeFile("readme.md") {
		t.Error("path outside the exclusion must be included")
	}
}

func Test_Engine_Anchoring(t *testing.T) {
	anchored := NewEngine(Parse([]string{"/src/*.py"}))
	if !anchored.IncludeFile("src/foo.py") {
		t.Error("/src/*.py must match src/foo.py")
	}
	if anchored.IncludeFile("lib/src/foo.py") {
		t.Error("/src/*.py must not match lib/src/foo.py")
	}

	unanchored := NewEngine(Parse([]string{"src/*.py"}))
	if !unanchored.IncludeFile("src/foo.py") {
		t.Error("src/*.py must match src/foo.py")
	}
	if !unanchored.IncludeFile("lib/src/foo.py") {
		t.Error("src/*.py must match lib/src/foo.py at depth")
	}
}

func Test_Engine_UnanchoredMatchesMidPathSegment(t *testing.T) {
	e := NewEngine(Parse([]string{"*", "!node_modules/*"}))

	if e.IncludeFile("app/node_modules/lodash/index.js") {
		t.Error("exclusion must trigger on a mid-path segment")
	}
	if !e.IncludeFile("app/src/index.js") {
		t.Error("unrelated path must stay included")
	}
}

func Test_Engine_StarCrossesSeparators(t *testing.T) {
	e := NewEngine(Parse([]string{"*", "!temp/*"}))

	if e.IncludeFile("temp/nested/deep/file.txt") {
		t.Error("temp/* must exclude nested paths at any depth")
	}
}

func Test_Engine_BareExtensionAnyDepth(t *testing.T) {
	e := NewEngine(Parse([]string{"py"}))

	if !e.IncludeFile("main.py") {
		t.Error("*.py must match a top-level file")
	}
	if !e.IncludeFile("src/deep/util.py") {
		t.Error("*.py must match at depth")
	}
	if e.IncludeFile("main.go") {
		t.Error("*.py must not match other extensions")
	}
}

func Test_Engine_FileDefaultExcluded(t *testing.T) {
	e := NewEngine(Parse([]string{"*.py"}))

	if e.IncludeFile("notes.txt") {
		t.Error("a file matching no include pattern must be excluded")
	}
}

func Test_Engine_DirectoryDefaultIncluded(t *testing.T) {
	e := NewEngine(Parse([]string{"*.py"}))

	if !e.IncludeDir("docs") {
		t.Error("a directory matching no rule defaults to included")
	}
	if !e.IncludeDir("docs/examples") {
		t.Error("nested directories default to included as well")
	}
	if !e.IncludeDir(".") {
		t.Error("the root is always included")
	}
}

func Test_Engine_DirectoryExclusion(t *testing.T) {
	e := NewEngine(Parse([]string{"*.py", "!build/*"}))

	if e.IncludeDir("build") {
		t.Error("expressly excluded directory must be excluded")
	}
	if e.IncludeDir("build/out") {
		t.Error("children of an excluded directory inherit the exclusion prefix")
	}
	if !e.IncludeDir("src") {
		t.Error("unrelated directory must stay included")
	}
}

func Test_Engine_DirectoryReinstatedByInclude(t *testing.T) {
	e := NewEngine(Parse([]string{"docs/api/*", "!docs/*"}))

	if !e.IncludeDir("docs/api") {
		t.Error("an include naming the directory must reinstate it")
	}
	if e.IncludeDir("docs/internal") {
		t.Error("sibling directories stay excluded")
	}
	if e.IncludeDir("docs") {
		t.Error("the excluded parent itself is not reinstated")
	}
}

func Test_Engine_DirectoryReinstatedByReinclude(t *testing.T) {
	e := NewEngine(Parse([]string{"*.py", "!temp/*", "!!temp/keep/*"}))

	if !e.IncludeDir("temp/keep") {
		t.Error("a reinclude naming the directory must reinstate it")
	}
	if e.IncludeDir("temp/other") {
		t.Error("directories outside the reinclude stay excluded")
	}
}

func Test_Engine_CatchAllIncludeReinstatesDirectories(t *testing.T) {
	e := NewEngine(Parse([]string{"*", "!temp/*"}))

	// The catch-all include matches every directory/* form, so the directory
	// stays tracked even though files beneath it are excluded.
	if !e.IncludeDir("temp") {
		t.Error("catch-all include reinstates excluded directories")
	}
	if e.IncludeFile("temp/file.txt") {
		t.Error("files under the exclusion are still excluded")
	}
}

func Test_Engine_AnchoredDirectoryExclusion(t *testing.T) {
	e := NewEngine(Parse([]string{"*.py", "!/build/*"}))

	if e.IncludeDir("build") {
		t.Error("anchored exclude must match the directory at the root")
	}
	if !e.IncludeDir("lib/build") {
		t.Error("anchored exclude must not match the directory at depth")
	}
}

func Test_Engine_GitignoreStage(t *testing.T) {
	root := t.TempDir()
	content := "vendor/\n*.log\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing .gitignore: %v", err)
	}

	e := NewEngine(Parse([]string{"*"}))
	if err := e.LoadIgnoreFile(root); err != nil {
		t.Fatalf("LoadIgnoreFile failed: %v", err)
	}

	if e.IncludeFile("app.log") {
		t.Error("gitignored file must be excluded")
	}
	if e.IncludeDir("vendor") {
		t.Error("gitignored directory must be excluded")
	}
	if !e.IncludeFile("main.go") {
		t.Error("file outside the gitignore must stay included")
	}
}

func Test_Engine_GitignoreMissingFileDisablesStage(t *testing.T) {
	e := NewEngine(Parse([]string{"*"}))
	if err := e.LoadIgnoreFile(t.TempDir()); err != nil {
		t.Fatalf("LoadIgnoreFile failed: %v", err)
	}
	if !e.IncludeFile("anything.txt") {
		t.Error("absent .gitignore must not exclude anything")
	}
}
