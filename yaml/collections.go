// Package yaml loads collection configuration with gopkg.in/yaml.v3.
//
// The file is a single mapping under "books" keyed by collection ID:
//
//	books:
//	  os-notes:
//	    title: Operating Systems
//	    author: Remzi Arpaci-Dusseau
//	    githubPath: Notes/os-notes
//
// Collections keep the order they appear in. JSON files parse too.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/blaize/bookshelf"
	"gopkg.in/yaml.v3"
)

// collectionConfig is the per-book value in the configuration file.
type collectionConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	SpineColor  string `yaml:"spineColor"`
	TextColor   string `yaml:"textColor"`
	Description string `yaml:"description"`
	GithubPath  string `yaml:"githubPath"`
}

// LoadCollectionsFile reads collections from the file at path.
func LoadCollectionsFile(path string) ([]*bookshelf.Collection, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, bookshelf.Errorf(bookshelf.EMISCONFIGURED, "collections file %s not found", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadCollections(f)
}

// LoadCollections decodes collections from r in document order and
// validates each one.
func LoadCollections(r io.Reader) ([]*bookshelf.Collection, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, bookshelf.Errorf(bookshelf.EINVALID, "collections file is empty")
		}
		return nil, bookshelf.Errorf(bookshelf.EINVALID, "parse collections: %w", err)
	}

	books := lookup(&doc, "books")
	if books == nil {
		return nil, bookshelf.Errorf(bookshelf.EINVALID, "collections file has no books mapping")
	}
	if books.Kind != yaml.MappingNode {
		return nil, bookshelf.Errorf(bookshelf.EINVALID, "line %d: books must be a mapping", books.Line)
	}

	collections := make([]*bookshelf.Collection, 0, len(books.Content)/2)
	seen := make(map[string]bool, len(books.Content)/2)
	for i := 0; i+1 < len(books.Content); i += 2 {
		key, value := books.Content[i], books.Content[i+1]

		var cfg collectionConfig
		if err := value.Decode(&cfg); err != nil {
			return nil, bookshelf.Errorf(bookshelf.EINVALID, "line %d: book %q: %w", value.Line, key.Value, err)
		}
		if seen[key.Value] {
			return nil, bookshelf.Errorf(bookshelf.EINVALID, "line %d: duplicate book %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		c := &bookshelf.Collection{
			ID:          key.Value,
			Title:       cfg.Title,
			Author:      cfg.Author,
			SpineColor:  cfg.SpineColor,
			TextColor:   cfg.TextColor,
			Description: cfg.Description,
			RootPath:    cfg.GithubPath,
		}
		if err := c.Validate(); err != nil {
			return nil, bookshelf.Errorf(bookshelf.EINVALID, "line %d: %s", key.Line, bookshelf.ErrorMessage(err))
		}
		collections = append(collections, c)
	}

	return collections, nil
}

// lookup returns the value node for key in the document's top-level mapping.
func lookup(doc *yaml.Node, key string) *yaml.Node {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return root.Content[i+1]
		}
	}
	return nil
}
