package bookshelf

import (
	"path"
	"strings"
)

// Collection is one book's set of notes together with its display metadata.
// Collections come from static configuration and are never mutated.
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	SpineColor  string `json:"spineColor,omitempty"`
	TextColor   string `json:"textColor,omitempty"`
	Description string `json:"description,omitempty"`

	// RootPath is the repository path under which the notes live.
	RootPath string `json:"githubPath"`
}

// Validate returns an error if the collection contains invalid fields.
func (c *Collection) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "collection id required")
	}
	if Slugify(c.ID) != c.ID {
		return Errorf(EINVALID, "collection id %q must be lowercase letters, digits and hyphens", c.ID)
	}
	if c.Title == "" {
		return Errorf(EINVALID, "collection %q title required", c.ID)
	}
	if c.RootPath == "" {
		return Errorf(EINVALID, "collection %q github path required", c.ID)
	}
	return nil
}

// CleanRootPath returns RootPath in the form the crawler reports child paths:
// lexically cleaned, without leading or trailing slashes.
func (c *Collection) CleanRootPath() string {
	if c.RootPath == "" {
		return ""
	}
	return strings.Trim(path.Clean(c.RootPath), "/")
}
