package engines

import (
	"path"
	"regexp"
	"strings"
)

var DefaultExtensions = []string{
	".java", ".js", ".jsx", ".ts", ".tsx", ".py", ".php", ".rb", ".go", ".cs",
	".cpp", ".c", ".h", ".sql", ".xml", ".html", ".css", ".json", ".yaml",
	".yml", ".properties", ".sh", ".bat",
}

var vendoredRe = regexp.MustCompile(`(^|/)(vendor|node_modules)/`)

type Eligibility struct {
	extensions map[string]struct{}
	admitted   map[string]struct{}
}

func NewEligibility(extensions []string) Eligibility {
	e := Eligibility{extensions: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		e.extensions[strings.ToLower(ext)] = struct{}{}
	}

	return e
}

var DefaultEligibility = NewEligibility(DefaultExtensions)

// Admitting returns a copy of e that also accepts the exact paths given,
// whatever their extension. Content piped into the CLI has no real file name.
func (e Eligibility) Admitting(paths ...string) Eligibility {
	admitted := make(map[string]struct{}, len(e.admitted)+len(paths))
	for p := range e.admitted {
		admitted[p] = struct{}{}
	}
	for _, p := range paths {
		admitted[p] = struct{}{}
	}

	return Eligibility{extensions: e.extensions, admitted: admitted}
}

// Eligible reports whether a file should be scanned. Files outside the
// extension allow-list and vendored paths are skipped.
func (e Eligibility) Eligible(filePath string) bool {
	if _, ok := e.admitted[filePath]; ok {
		return true
	}

	if filePath == "" || vendoredRe.MatchString(filePath) {
		return false
	}

	_, ok := e.extensions[strings.ToLower(path.Ext(filePath))]
	return ok
}

func (e Eligibility) Filter(files []FileChange) []FileChange {
	eligible := make([]FileChange, 0, len(files))
	for _, file := range files {
		if e.Eligible(file.Path) {
			eligible = append(eligible, file)
		}
	}

	return eligible
}
