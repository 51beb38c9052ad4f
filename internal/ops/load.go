package ops

import (
	"os"
	"unicode/utf8"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/errors"
	"github.com/ktruong/todomd/internal/todo"
)

// LoadFromText parses content into a Document. Content-shape problems
// never fail; the only hard error here is non-UTF-8 input.
func LoadFromText(content string) (*Document, error) {
	if !utf8.ValidString(content) {
		return nil, errors.NewEncoding("content is not valid UTF-8 text")
	}

	p := todo.NewParser()
	roots := p.ParseText(content)
	return newDocument("", roots, p.Tasks), nil
}

// LoadFromFile reads and parses the todo file at path. Read failures are
// IO_ERROR; content that is not text is ENCODING_ERROR; a file above the
// configured size cap is FILE_TOO_LARGE.
func LoadFromFile(cfg *config.Config, path string) (*Document, error) {
	if path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	if cfg != nil && cfg.MaxFileBytes > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > cfg.MaxFileBytes {
			return nil, errors.NewFileTooLarge(cfg.MaxFileBytes, info.Size())
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read todo file", err)
	}

	doc, err := LoadFromText(string(data))
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Render serializes the document back to markdown text.
func Render(doc *Document) string {
	return todo.RenderText(doc.Roots)
}

// SaveToFile serializes the document and writes it to path (the
// document's own path when empty). Write failures are IO_ERROR. The
// write replaces the whole file; a collapsed group keeps its own tasks
// but its subgroups are omitted, so saving a collapsed view is lossy.
func SaveToFile(doc *Document, path string) error {
	if path == "" {
		path = doc.Path
	}
	if path == "" {
		return errors.NewInvalidRequest("no path to save to")
	}

	if err := os.WriteFile(path, []byte(Render(doc)), 0o644); err != nil {
		return errors.NewIO("write todo file", err)
	}
	return nil
}
