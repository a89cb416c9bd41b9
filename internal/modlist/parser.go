package modlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/frederic-klein/ivyver/internal/coord"
)

// Parser reads module list files: one "org#name[;revision]" per line.
// Lines starting with "#" are comments, as is anything after " #".
type Parser struct{}

// NewParser creates a new module list parser.
func NewParser() *Parser {
	return &Parser{}
}

var trailingCommentRe = regexp.MustCompile(`\s+#.*$`)

// Parse parses a module list file.
func (p *Parser) Parse(path string) ([]coord.Module, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening module list: %w", err)
	}
	defer file.Close()

	return p.ParseReader(file)
}

// ParseReader parses module list lines from r.
func (p *Parser) ParseReader(r io.Reader) ([]coord.Module, error) {
	var modules []coord.Module
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = trailingCommentRe.ReplaceAllString(line, "")

		m, err := coord.ParseModule(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		modules = append(modules, m)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading module list: %w", err)
	}

	return modules, nil
}
