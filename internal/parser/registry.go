package parser

import (
	"path/filepath"
	"sort"
	"strings"
)

// Registry maps file extensions to parsers. It is built once at startup and
// passed explicitly to whoever needs it.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a registry with all built-in parsers registered.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(NewPythonParser())
	r.Register(NewGoParser())
	r.Register(NewJavaScriptParser())
	r.Register(NewShellParser())
	return r
}

// Register adds a parser for every extension it reports. Later registrations
// override earlier ones.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		r.parsers[strings.ToLower(ext)] = p
	}
}

// ForExtension returns the parser for an extension like ".py".
func (r *Registry) ForExtension(ext string) (Parser, bool) {
	p, ok := r.parsers[strings.ToLower(ext)]
	return p, ok
}

// ForFile returns the parser for a file path based on its extension.
func (r *Registry) ForFile(path string) (Parser, bool) {
	return r.ForExtension(filepath.Ext(path))
}

// Extensions lists all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
