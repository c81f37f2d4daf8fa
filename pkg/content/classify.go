package content

import (
	"strings"

	"github.com/studyforge/studyforge/pkg/errcodes"
)

// Resource subcategories are a fixed whitelist. Anything else under
// resources/ fails classification instead of silently grouping into a bucket.
const (
	CategoryBooks           = "books"
	CategoryBuilders        = "builders"
	CategoryConferences     = "conferences"
	CategoryGlossary        = "glossary"
	CategoryNewsletters     = "newsletters"
	CategoryPodcasts        = "podcasts"
	CategoryBets            = "bets"
	CategoryMovies          = "movies"
	CategoryYoutubeChannels = "youtube-channels"
)

var resourceCategories = map[string]struct{}{
	CategoryBooks:           {},
	CategoryBuilders:        {},
	CategoryConferences:     {},
	CategoryGlossary:        {},
	CategoryNewsletters:     {},
	CategoryPodcasts:        {},
	CategoryBets:            {},
	CategoryMovies:          {},
	CategoryYoutubeChannels: {},
}

// Classification is the result of mapping a file path to a content type.
type Classification struct {
	Type     Type
	Category string
}

// Classify maps a repository file path to a content type and, for resources,
// a subcategory. It is pure and deterministic. Paths that don't map to a
// known category fail with UnsupportedPath.
func Classify(path string) (Classification, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch parts[0] {
	case "courses":
		if len(parts) >= 5 && parts[2] == "quizzes" {
			return Classification{Type: TypeQuizQuestion}, nil
		}
		if len(parts) >= 3 {
			return Classification{Type: TypeCourse}, nil
		}
	case "events":
		if len(parts) >= 3 {
			return Classification{Type: TypeEvent}, nil
		}
	case "professors":
		if len(parts) >= 4 {
			return Classification{Type: TypeProfessor}, nil
		}
	case "tutorials":
		if len(parts) >= 4 {
			return Classification{Type: TypeTutorial}, nil
		}
	case "resources":
		if len(parts) >= 4 {
			if _, ok := resourceCategories[parts[1]]; !ok {
				return Classification{}, errcodes.UnsupportedPath(path)
			}
			return Classification{Type: TypeResource, Category: parts[1]}, nil
		}
	case "bcertificates":
		if len(parts) >= 4 {
			return Classification{Type: TypeBCertificate}, nil
		}
	case "blogs":
		if len(parts) >= 3 {
			return Classification{Type: TypeBlog}, nil
		}
	case "legals":
		if len(parts) >= 3 {
			return Classification{Type: TypeLegal}, nil
		}
	}

	return Classification{}, errcodes.UnsupportedPath(path)
}

// unitPrefixDepth is the number of path segments that form a unit's stable
// path. Tutorials are handled separately since their depth is variable.
func unitPrefixDepth(t Type) int {
	switch t {
	case TypeEvent, TypeLegal, TypeBlog, TypeCourse:
		return 2
	case TypeResource, TypeProfessor, TypeBCertificate:
		return 3
	case TypeQuizQuestion:
		return 4
	}
	return 0
}

// UnitPath computes the stable logical key for the unit a file belongs to.
func UnitPath(cls Classification, path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if cls.Type == TypeTutorial {
		// The unit path is the file's directory, truncated at the assets
		// marker so binary attachments group with their tutorial.
		dir := parts[:len(parts)-1]
		for i, part := range dir {
			if part == "assets" {
				dir = dir[:i]
				break
			}
		}
		return strings.Join(dir, "/")
	}

	depth := unitPrefixDepth(cls.Type)
	if depth > len(parts)-1 {
		depth = len(parts) - 1
	}
	return strings.Join(parts[:depth], "/")
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
