package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"en.yml", "en", true},
		{"fr.yaml", "fr", true},
		{"de.md", "de", true},
		{"pt-br.md", "pt-br", true},
		{"course.yml", "", false},
		{"en.txt", "", false},
		{"english.md", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			tag, ok := LanguageTag(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestGroupMergesFilesIntoOneUnit(t *testing.T) {
	t.Parallel()

	files := []ChangedFile{
		{Path: "events/2024-conf/main.yml", Kind: FileAdded},
		{Path: "events/2024-conf/en.yml", Kind: FileAdded},
	}

	units, errs := Group(files, "/repo")
	require.Empty(t, errs)
	require.Len(t, units, 1)

	unit := units[0]
	assert.Equal(t, TypeEvent, unit.Type)
	assert.Equal(t, "events/2024-conf", unit.Path)
	assert.Equal(t, "/repo/events/2024-conf", unit.FullPath)
	require.Len(t, unit.Files, 2)

	require.Len(t, unit.LanguageFiles, 1)
	require.Len(t, unit.LanguageFiles["en"], 1)
	assert.Equal(t, "events/2024-conf/en.yml", unit.LanguageFiles["en"][0].Path)
}

func TestGroupSeparatesUnits(t *testing.T) {
	t.Parallel()

	files := []ChangedFile{
		{Path: "courses/btc101/course.yml"},
		{Path: "courses/btc101/en.md"},
		{Path: "courses/btc101/quizzes/001/question.yml"},
		{Path: "courses/btc101/quizzes/001/en.yml"},
		{Path: "courses/btc102/course.yml"},
	}

	units, errs := Group(files, "/repo")
	require.Empty(t, errs)
	require.Len(t, units, 3)

	assert.Equal(t, "courses/btc101", units[0].Path)
	assert.Equal(t, TypeCourse, units[0].Type)
	assert.Equal(t, "courses/btc101/quizzes/001", units[1].Path)
	assert.Equal(t, TypeQuizQuestion, units[1].Type)
	assert.Equal(t, "courses/btc102", units[2].Path)
}

func TestGroupSkipsUnsupportedPaths(t *testing.T) {
	t.Parallel()

	files := []ChangedFile{
		{Path: "courses/btc101/course.yml"},
		{Path: "README.md"},
		{Path: "resources/rocketry/x/rocket.yml"},
	}

	units, errs := Group(files, "/repo")
	require.Len(t, units, 1)
	assert.Equal(t, "courses/btc101", units[0].Path)
	assert.Len(t, errs, 2)
}

func TestGroupIsDeterministic(t *testing.T) {
	t.Parallel()

	files := []ChangedFile{
		{Path: "blogs/second/blog.yml"},
		{Path: "blogs/first/blog.yml"},
		{Path: "blogs/second/en.md"},
	}

	for i := 0; i < 5; i++ {
		units, errs := Group(files, "")
		require.Empty(t, errs)
		require.Len(t, units, 2)
		assert.Equal(t, "blogs/second", units[0].Path)
		assert.Equal(t, "blogs/first", units[1].Path)
	}
}

func TestUnitMainFile(t *testing.T) {
	t.Parallel()

	files := []ChangedFile{
		{Path: "resources/books/mastering/en.yml"},
		{Path: "resources/books/mastering/book.yml", Data: []byte("id: mastering")},
	}

	units, errs := Group(files, "")
	require.Empty(t, errs)
	require.Len(t, units, 1)

	main, ok := units[0].MainFile()
	require.True(t, ok)
	assert.Equal(t, "resources/books/mastering/book.yml", main.Path)

	assert.Equal(t, []string{"en"}, units[0].Languages())
}

func TestUnitMainFileMissing(t *testing.T) {
	t.Parallel()

	units, errs := Group([]ChangedFile{{Path: "events/2024-conf/en.yml"}}, "")
	require.Empty(t, errs)
	require.Len(t, units, 1)

	_, ok := units[0].MainFile()
	assert.False(t, ok)
}
