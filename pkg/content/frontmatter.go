package content

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var frontMatterDelimiter = []byte("---")

// DecodeDescriptor unmarshals a YAML main descriptor into out.
func DecodeDescriptor(data []byte, out interface{}) error {
	return errors.WithStack(yaml.Unmarshal(data, out))
}

// DecodeFrontMatter splits a Markdown file into its YAML front matter and
// body. The front matter block is optional; without one the whole file is
// body and out is left untouched.
func DecodeFrontMatter(data []byte, out interface{}) (string, error) {
	trimmed := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(trimmed, frontMatterDelimiter) {
		return string(data), nil
	}

	rest := trimmed[len(frontMatterDelimiter):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if len(rest) == 0 || rest[0] != '\n' {
		// Not a front matter block, e.g. a horizontal rule at the top.
		return string(data), nil
	}
	rest = rest[1:]

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return "", errors.New("unterminated front matter block")
	}

	meta := rest[:end]
	body := rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	if err := yaml.Unmarshal(meta, out); err != nil {
		return "", errors.WithStack(err)
	}
	return string(body), nil
}
