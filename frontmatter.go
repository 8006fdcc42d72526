package propframe

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Front matter delimiter line
const frontMatterDelimiter = "---"

// ParseFrontMatter splits a document into its leading front matter
// block and body. The block is a YAML mapping between two "---" lines
// at the start of the document and becomes an ExplicitValues set for
// resolution. A document without front matter returns an empty set
// and the unchanged body; an opening delimiter without a closing one
// returns ErrFrontMatterUnterminated.
func ParseFrontMatter(src []byte) (ExplicitValues, []byte, error) {
	open := []byte(frontMatterDelimiter + "\n")
	if !bytes.HasPrefix(src, open) {
		return ExplicitValues{}, src, nil
	}

	rest := src[len(open):]

	var block, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte(frontMatterDelimiter+"\n")):
		// Empty front matter block
		body = rest[len(frontMatterDelimiter)+1:]
	case bytes.Equal(rest, []byte(frontMatterDelimiter)):
		// Empty block, no body
	default:
		if idx := bytes.Index(rest, []byte("\n"+frontMatterDelimiter+"\n")); idx >= 0 {
			block = rest[:idx]
			body = rest[idx+len(frontMatterDelimiter)+2:]
		} else if bytes.HasSuffix(rest, []byte("\n"+frontMatterDelimiter)) {
			block = rest[:len(rest)-len(frontMatterDelimiter)-1]
		} else {
			return nil, nil, ErrFrontMatterUnterminated
		}
	}

	values := ExplicitValues{}
	if len(block) > 0 {
		if err := yaml.Unmarshal(block, &values); err != nil {
			return nil, nil, fmt.Errorf("failed to parse front matter: %w", err)
		}
	}

	return values, body, nil
}
