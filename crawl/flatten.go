package crawl

import (
	"maps"
	"path"
	"strings"

	"github.com/blaize/bookshelf"
)

// Flatten builds the chapter index of one collection.
//
// Root chapters are added first and point at their file name. Folders follow
// depth-first, pre-order: a folder's own chapters before its subfolders'.
// Folder chapters point at the folder's path relative to the collection root.
// On ID collisions the chapter visited last wins.
func Flatten(c *bookshelf.Collection, chapters []*bookshelf.Chapter, folders []*bookshelf.NotesFolder) map[string]*bookshelf.ChapterEntry {
	index := make(map[string]*bookshelf.ChapterEntry, len(chapters))

	for _, ch := range chapters {
		index[ch.ID] = &bookshelf.ChapterEntry{
			Title:    ch.Title,
			File:     ch.FileName,
			BookPath: c.RootPath,
			Kind:     bookshelf.LocationRootFile,
		}
	}

	for _, folder := range folders {
		maps.Copy(index, flattenFolder(c.RootPath, folder))
	}

	return index
}

func flattenFolder(rootPath string, folder *bookshelf.NotesFolder) map[string]*bookshelf.ChapterEntry {
	index := make(map[string]*bookshelf.ChapterEntry, len(folder.Chapters))
	prefix := folderPrefix(rootPath, folder.RemotePath)

	for _, ch := range folder.Chapters {
		index[ch.ID] = &bookshelf.ChapterEntry{
			Title:    ch.Title,
			File:     prefix,
			BookPath: rootPath,
			Kind:     bookshelf.LocationFolderPrefix,
		}
	}

	for _, sub := range folder.Subfolders {
		maps.Copy(index, flattenFolder(rootPath, sub))
	}

	return index
}

// folderPrefix returns folderPath relative to rootPath with one trailing slash.
func folderPrefix(rootPath, folderPath string) string {
	root := strings.Trim(path.Clean("/"+rootPath), "/")
	rel := strings.Trim(path.Clean("/"+folderPath), "/")
	if root != "" {
		if rel == root {
			rel = ""
		} else {
			rel = strings.TrimPrefix(rel, root+"/")
		}
	}
	return rel + "/"
}
