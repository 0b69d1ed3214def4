package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/muesli/gitcha"
)

var (
	readmeNames = []string{"README.md", "README", "Readme.md", "Readme", "readme.md", "readme", "README.txt"}

	markdownExtensions = []string{
		"*.md", "*.mdown", "*.mkdn", "*.mkd", "*.markdown",
	}
	textExtensions = []string{"*.txt", "*.text"}
)

// FindInDir picks the file to read from dir: a README if there is one,
// otherwise the shallowest Markdown or text file, alphabetically. Files
// ignored by git are skipped.
func FindInDir(dir string) (string, error) {
	patterns := append(append(append([]string{}, markdownExtensions...), textExtensions...), readmeNames...)

	ch, err := gitcha.FindFilesExcept(dir, patterns, nil)
	if err != nil {
		return "", fmt.Errorf("unable to search %s: %w", dir, err)
	}

	var found []string
	for res := range ch {
		found = append(found, res.Path)
	}
	if len(found) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoSource, dir)
	}

	slices.SortFunc(found, func(a, b string) int {
		if ra, rb := isReadme(a), isReadme(b); ra != rb {
			if ra {
				return -1
			}
			return 1
		}
		if da, db := depth(a), depth(b); da != db {
			return da - db
		}
		return strings.Compare(a, b)
	})
	return found[0], nil
}

// IsMarkdownFile reports whether path has a Markdown extension.
func IsMarkdownFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, ext := range markdownExtensions {
		if strings.HasSuffix(base, strings.TrimPrefix(ext, "*")) {
			return true
		}
	}
	return false
}

func isReadme(path string) bool {
	base := filepath.Base(path)
	for _, v := range readmeNames {
		if strings.EqualFold(base, v) {
			return true
		}
	}
	return false
}

func depth(path string) int {
	return strings.Count(filepath.ToSlash(path), "/")
}
