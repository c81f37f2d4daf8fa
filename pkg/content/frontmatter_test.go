package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrontMatter(t *testing.T) {
	t.Parallel()

	input := []byte("---\nname: Sparrow Guide\nlevel: beginner\n---\n\n# Sparrow\n\nBody text.\n")

	var meta struct {
		Name  string `yaml:"name"`
		Level string `yaml:"level"`
	}
	body, err := DecodeFrontMatter(input, &meta)
	require.NoError(t, err)

	assert.Equal(t, "Sparrow Guide", meta.Name)
	assert.Equal(t, "beginner", meta.Level)
	assert.Equal(t, "\n# Sparrow\n\nBody text.\n", body)
}

func TestDecodeFrontMatterSkipsByteOrderMark(t *testing.T) {
	t.Parallel()

	input := []byte("\xef\xbb\xbf---\nname: Sparrow Guide\n---\nbody\n")

	var meta struct {
		Name string `yaml:"name"`
	}
	body, err := DecodeFrontMatter(input, &meta)
	require.NoError(t, err)

	assert.Equal(t, "Sparrow Guide", meta.Name)
	assert.Equal(t, "body\n", body)
}

func TestDecodeFrontMatterWithoutBlock(t *testing.T) {
	t.Parallel()

	input := []byte("# Just Markdown\n\nNo metadata here.\n")

	var meta struct {
		Name string `yaml:"name"`
	}
	body, err := DecodeFrontMatter(input, &meta)
	require.NoError(t, err)

	assert.Empty(t, meta.Name)
	assert.Equal(t, string(input), body)
}

func TestDecodeFrontMatterUnterminated(t *testing.T) {
	t.Parallel()

	input := []byte("---\nname: Broken\n")

	var meta struct{}
	_, err := DecodeFrontMatter(input, &meta)
	assert.Error(t, err)
}

func TestDecodeFrontMatterInvalidYAML(t *testing.T) {
	t.Parallel()

	input := []byte("---\nname: [unclosed\n---\nbody\n")

	var meta struct{}
	_, err := DecodeFrontMatter(input, &meta)
	assert.Error(t, err)
}

func TestDecodeDescriptor(t *testing.T) {
	t.Parallel()

	var desc struct {
		ID    string   `yaml:"id"`
		Level string   `yaml:"level"`
		Tags  []string `yaml:"tags"`
	}
	err := DecodeDescriptor([]byte("id: btc101\nlevel: beginner\ntags: [bitcoin, basics]\n"), &desc)
	require.NoError(t, err)

	assert.Equal(t, "btc101", desc.ID)
	assert.Equal(t, "beginner", desc.Level)
	assert.Equal(t, []string{"bitcoin", "basics"}, desc.Tags)
}
