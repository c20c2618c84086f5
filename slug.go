package bookshelf

import "strings"

// DocumentExt is the file extension of chapter documents.
const DocumentExt = ".md"

// Slugify derives a lookup key from a display name. The name is lowercased
// and every run of characters outside [a-z0-9] becomes a single hyphen, with
// leading and trailing hyphens removed.
//
// Distinct names may produce the same slug ("Chapter 1" and "Chapter  1!").
// Callers that index by slug must decide which one wins.
func Slugify(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	pendingHyphen := false

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return sb.String()
}

// IsDocument reports whether name has the chapter document extension.
func IsDocument(name string) bool {
	return strings.HasSuffix(name, DocumentExt)
}

// ChapterTitle strips the document extension from a file name.
func ChapterTitle(fileName string) string {
	return strings.TrimSuffix(fileName, DocumentExt)
}
