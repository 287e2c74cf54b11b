package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/tree"
)

// DefaultMaxFileSize is the default limit on the size of a single document.
const DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

// Parser turns description documents into trees, selecting the format by
// file extension. It never resolves inclusion references.
type Parser struct {
	maxFileSize int64
	formats     map[string]Format
}

// NewParser creates a parser that understands XML and YAML documents.
func NewParser() *Parser {
	p := &Parser{
		maxFileSize: DefaultMaxFileSize,
		formats:     make(map[string]Format),
	}
	p.Register(XMLFormat{})
	p.Register(YAMLFormat{})
	return p
}

// WithMaxFileSize sets the maximum document size in bytes.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// Register installs a format for all of its extensions, replacing any format
// previously registered for them.
func (p *Parser) Register(f Format) *Parser {
	for _, ext := range f.Extensions() {
		p.formats[strings.ToLower(ext)] = f
	}
	return p
}

// Extensions returns the registered extensions in sorted order.
func (p *Parser) Extensions() []string {
	exts := make([]string, 0, len(p.formats))
	for ext := range p.formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports returns true if a format is registered for the path's extension.
func (p *Parser) Supports(path string) bool {
	_, ok := p.formats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// FormatFor returns the format registered for the path's extension.
func (p *Parser) FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := p.formats[ext]
	if !ok {
		err := stdrErrors.NewLoadError(path, 0, fmt.Errorf("unsupported extension %q", ext))
		err.Suggestion = fmt.Sprintf("Supported extensions: %s", strings.Join(p.Extensions(), ", "))
		return nil, err
	}
	return f, nil
}

// Parse reads the document at path and returns its tree.
// It returns a load error if the file cannot be read, is too large, has an
// unsupported extension, or is malformed for its format.
func (p *Parser) Parse(path string) (*tree.Node, error) {
	format, err := p.FormatFor(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, stdrErrors.NewLoadError(path, 0, err)
	}
	if info.IsDir() {
		return nil, stdrErrors.NewLoadError(path, 0, fmt.Errorf("is a directory"))
	}
	if info.Size() > p.maxFileSize {
		return nil, stdrErrors.NewLoadError(path, 0,
			fmt.Errorf("file size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stdrErrors.NewLoadError(path, 0, err)
	}

	return p.decode(format, data, path)
}

// ParseBytes parses an in-memory document; sourcePath selects the format and
// is recorded as the origin of every node.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*tree.Node, error) {
	format, err := p.FormatFor(sourcePath)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > p.maxFileSize {
		return nil, stdrErrors.NewLoadError(sourcePath, 0,
			fmt.Errorf("data size %d exceeds maximum %d bytes", len(data), p.maxFileSize))
	}
	return p.decode(format, data, sourcePath)
}

func (p *Parser) decode(format Format, data []byte, path string) (*tree.Node, error) {
	root, err := format.Decode(data, path)
	if err != nil {
		loadErr := stdrErrors.NewLoadError(path, syntaxErrorLine(err), fmt.Errorf("%s: %w", format.Name(), err))
		loadErr.Suggestion = fmt.Sprintf("Check %s syntax", strings.ToUpper(format.Name()))
		return nil, stdrErrors.AddContextToError(loadErr)
	}
	return root, nil
}
