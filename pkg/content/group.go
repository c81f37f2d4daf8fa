package content

import (
	"path"
	"regexp"
	"strings"
)

var languageFileRE = regexp.MustCompile(`^([a-z]{2}(?:-[a-z]{2})?)\.(?:ya?ml|md)$`)

// LanguageTag extracts the language tag from a per-language variant filename
// (e.g. "en.yml", "fr.md", "pt-br.md"). The second return is false for shared
// files such as the main descriptor.
func LanguageTag(filename string) (string, bool) {
	matches := languageFileRE.FindStringSubmatch(strings.ToLower(filename))
	if matches == nil {
		return "", false
	}
	return matches[1], true
}

// Group folds a flat list of changed files into logical content units keyed
// by stable path. Units preserve first-seen order so repeated files merge
// into one unit deterministically. A file with an unsupported path is
// skipped and reported; it never aborts grouping, because content
// repositories are authored by many contributors and malformed paths are
// expected, not exceptional.
func Group(files []ChangedFile, repoDir string) ([]*Unit, []error) {
	var errs []error

	units := make(map[string]*Unit)
	order := make([]string, 0)

	for _, file := range files {
		cls, err := Classify(file.Path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		unitPath := UnitPath(cls, file.Path)
		unit, ok := units[unitPath]
		if !ok {
			unit = &Unit{
				Type:          cls.Type,
				Category:      cls.Category,
				Path:          unitPath,
				FullPath:      path.Join(repoDir, unitPath),
				LanguageFiles: make(map[string][]ChangedFile),
			}
			units[unitPath] = unit
			order = append(order, unitPath)
		}

		unit.Files = append(unit.Files, file)
		if language, ok := LanguageTag(baseName(file.Path)); ok {
			unit.LanguageFiles[language] = append(unit.LanguageFiles[language], file)
		}
	}

	result := make([]*Unit, 0, len(order))
	for _, unitPath := range order {
		result = append(result, units[unitPath])
	}
	return result, errs
}
