// Package hostenv finds resources whose location depends on how the binary
// was launched: from a source checkout, an unpacked bundle or a packaged app.
package hostenv

import (
	"os"
	"path/filepath"
)

// Candidate is one place to look. Check reports the resolved path and
// whether it qualifies; path is recorded even on a miss.
type Candidate interface {
	Check() (path string, ok bool)
}

// Result of Locate. Tried lists every path checked, in order, including the
// one that matched.
type Result struct {
	Found bool
	Path  string
	Tried []string
}

// Locate checks candidates in order and stops at the first match. Later
// candidates are never evaluated.
func Locate(candidates ...Candidate) Result {
	var res Result
	for _, c := range candidates {
		if c == nil {
			continue
		}
		p, ok := c.Check()
		if p != "" {
			res.Tried = append(res.Tried, p)
		}
		if ok {
			res.Found = true
			res.Path = p
			return res
		}
	}
	return res
}

type staticDir string

// StaticDir matches a directory that contains an index.html.
func StaticDir(path string) Candidate { return staticDir(path) }

func (s staticDir) Check() (string, bool) {
	if s == "" {
		return "", false
	}
	p := filepath.Clean(string(s))
	if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
		return p, false
	}
	fi, err := os.Stat(filepath.Join(p, "index.html"))
	return p, err == nil && fi.Mode().IsRegular()
}

type entryFile string

// EntryFile matches an existing regular file.
func EntryFile(path string) Candidate { return entryFile(path) }

func (e entryFile) Check() (string, bool) {
	if e == "" {
		return "", false
	}
	p := filepath.Clean(string(e))
	fi, err := os.Stat(p)
	return p, err == nil && fi.Mode().IsRegular()
}

// Lazy defers computing a candidate until Locate reaches it.
type Lazy func() (string, bool)

func (l Lazy) Check() (string, bool) { return l() }

// DefaultStaticCandidates lists the places the web client is shipped to, in
// priority order. Empty base directories are skipped.
func DefaultStaticCandidates(exeDir, cwd, resourcesDir string) []Candidate {
	var out []Candidate
	add := func(base string, parts ...string) {
		if base == "" {
			return
		}
		out = append(out, StaticDir(filepath.Join(append([]string{base}, parts...)...)))
	}
	add(resourcesDir, "app.asar.unpacked", "dist", "public")
	add(resourcesDir, "dist", "public")
	add(resourcesDir, "public")
	add(exeDir, "..", "dist", "public")
	add(exeDir, "dist", "public")
	add(exeDir, "public")
	add(cwd, "dist", "public")
	add(cwd, "..", "dist", "public")
	add(cwd, "public")
	add(cwd, "resources", "app.asar.unpacked", "dist", "public")
	add(cwd, "client", "dist")
	return out
}

// ExecutableDir is the directory of the running binary, or "" when it cannot
// be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
