package content

import (
	"sort"
	"time"
)

// FileKind mirrors the change kind reported by the repository snapshot.
type FileKind string

const (
	FileAdded    FileKind = "added"
	FileModified FileKind = "modified"
	FileRemoved  FileKind = "removed"
	FileRenamed  FileKind = "renamed"
)

// ChangedFile is one changed file from a repository snapshot. It is consumed
// once per sync run and never persisted.
type ChangedFile struct {
	Path   string
	Kind   FileKind
	Data   []byte
	Time   time.Time
	Commit string
}

// ChangedAsset is a binary file destined for object storage rather than the
// relational store.
type ChangedAsset struct {
	Path string
	Kind FileKind
	Data []byte
}

// Snapshot is the shape the pipeline consumes from the repository snapshot
// collaborator. How repositories are cloned or diffed is not the pipeline's
// concern.
type Snapshot struct {
	Files          []ChangedFile
	PublicAssets   []ChangedAsset
	PrivateAssets  []ChangedAsset
	PublicRepoDir  string
	PrivateRepoDir string
}

// Type is the closed set of content types the classifier recognizes.
type Type string

const (
	TypeCourse       Type = "course"
	TypeQuizQuestion Type = "quiz_question"
	TypeEvent        Type = "event"
	TypeProfessor    Type = "professor"
	TypeTutorial     Type = "tutorial"
	TypeResource     Type = "resource"
	TypeBCertificate Type = "bcertificate"
	TypeBlog         Type = "blog"
	TypeLegal        Type = "legal"
)

// Unit is the grouped set of files representing one logical content item
// across languages. Units are constructed fresh each sync run from the
// current diff and never persisted.
type Unit struct {
	Type     Type
	Category string // resource subcategory, empty for other types
	Path     string // stable logical key, a fixed-depth prefix of the file paths
	FullPath string
	Files    []ChangedFile

	// LanguageFiles maps a language tag to the per-language variant files of
	// the unit. The shared main descriptor carries no tag and is not in here.
	LanguageFiles map[string][]ChangedFile
}

// MainFile returns the unit's main descriptor, matched by the fixed filename
// for the unit's type and category.
func (u *Unit) MainFile() (*ChangedFile, bool) {
	name := descriptorName(u.Type, u.Category)
	for i := range u.Files {
		if baseName(u.Files[i].Path) == name {
			return &u.Files[i], true
		}
	}
	return nil, false
}

// Languages returns the unit's language tags in sorted order so importers
// process variants deterministically.
func (u *Unit) Languages() []string {
	languages := make([]string, 0, len(u.LanguageFiles))
	for language := range u.LanguageFiles {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

func descriptorName(t Type, category string) string {
	switch t {
	case TypeCourse:
		return "course.yml"
	case TypeQuizQuestion:
		return "question.yml"
	case TypeEvent:
		return "event.yml"
	case TypeProfessor:
		return "professor.yml"
	case TypeTutorial:
		return "tutorial.yml"
	case TypeBCertificate:
		return "edition.yml"
	case TypeBlog:
		return "blog.yml"
	case TypeLegal:
		return "legal.yml"
	case TypeResource:
		switch category {
		case CategoryBooks:
			return "book.yml"
		case CategoryBuilders:
			return "builder.yml"
		case CategoryConferences:
			return "conference.yml"
		case CategoryGlossary:
			return "word.yml"
		case CategoryNewsletters:
			return "newsletter.yml"
		case CategoryPodcasts:
			return "podcast.yml"
		case CategoryBets:
			return "bet.yml"
		case CategoryMovies:
			return "movie.yml"
		case CategoryYoutubeChannels:
			return "channel.yml"
		}
	}
	return ""
}
