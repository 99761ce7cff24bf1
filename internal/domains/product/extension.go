package product

import (
	"fmt"
	"sync"

	"augustlab-backend/internal/infrastructure/filestore"
)

// Extension customises how one product type's bundles are validated,
// post-processed and launched.
type Extension interface {
	// Validate inspects the extracted file listing and rejects bundles
	// that do not fit the product type.
	Validate(files []filestore.FileInfo) error
	// Process returns the file paths the front end should preload.
	Process(files []filestore.FileInfo) []string
	// LaunchConfig folds type defaults into the product's stored config.
	LaunchConfig(cfg map[string]any) map[string]any
	// EntryFiles lists the entry points the type accepts, preferred first.
	EntryFiles() []string
}

// Registry maps product type tags to extensions. Registration happens at
// startup; lookups afterwards are read-only.
type Registry struct {
	mu   sync.RWMutex
	exts map[string]Extension
}

func NewRegistry() *Registry {
	return &Registry{exts: make(map[string]Extension)}
}

func (r *Registry) Register(productType string, ext Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exts[productType] = ext
}

func (r *Registry) Get(productType string) (Extension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.exts[productType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, productType)
	}
	return ext, nil
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.exts))
	for t := range r.exts {
		types = append(types, t)
	}
	return types
}

// DefaultRegistry returns a registry with the built-in product types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeStatic, &baseExtension{
		entryFiles: []string{"index.html"},
		launch:     map[string]any{"mode": "iframe"},
	})
	r.Register(TypeSPA, &baseExtension{
		entryFiles: []string{"index.html"},
		launch:     map[string]any{"mode": "iframe", "history_fallback": true},
	})
	r.Register(TypeGame, &baseExtension{
		entryFiles: []string{"index.html", "main.html"},
		launch:     map[string]any{"mode": "fullscreen"},
	})
	r.Register(TypeTool, &baseExtension{
		entryFiles: []string{"tool.html", "index.html"},
		launch:     map[string]any{"mode": "iframe"},
	})
	return r
}

// baseExtension is the stock behaviour shared by the built-in types.
type baseExtension struct {
	entryFiles []string
	launch     map[string]any
}

func (e *baseExtension) EntryFiles() []string { return e.entryFiles }

func (e *baseExtension) Validate(files []filestore.FileInfo) error {
	for _, f := range files {
		for _, entry := range e.entryFiles {
			if f.Path == entry {
				return nil
			}
		}
	}
	return fmt.Errorf("bundle is missing an entry file for this product type")
}

func (e *baseExtension) Process(files []filestore.FileInfo) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths
}

func (e *baseExtension) LaunchConfig(cfg map[string]any) map[string]any {
	merged := make(map[string]any, len(e.launch)+len(cfg))
	for k, v := range e.launch {
		merged[k] = v
	}
	for k, v := range cfg {
		merged[k] = v
	}
	return merged
}
