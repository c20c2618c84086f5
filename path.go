package bookshelf

import (
	"path"
	"strings"
)

// ConfinePath validates a repository path against a content root and returns
// it in clean form (no leading, trailing or doubled slashes). An empty root
// permits the whole repository.
//
// Parent-directory segments, absolute paths, backslashes and NUL bytes are
// rejected outright, as is any path outside root. Returns EINVALIDPATH.
func ConfinePath(root, p string) (string, error) {
	if strings.ContainsAny(p, "\\\x00") {
		return "", Errorf(EINVALIDPATH, "path %q contains forbidden characters", p)
	}
	if strings.HasPrefix(p, "/") {
		return "", Errorf(EINVALIDPATH, "path %q must be relative", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", Errorf(EINVALIDPATH, "path %q contains parent directory segment", p)
		}
	}

	clean := cleanRemotePath(p)
	root = cleanRemotePath(root)
	if root != "" && clean != root && !strings.HasPrefix(clean, root+"/") {
		return "", Errorf(EINVALIDPATH, "path %q is outside content root %q", p, root)
	}
	return clean, nil
}

// CommonRoot returns the deepest directory containing every given root.
// Roots are cleaned first. Returns "" when they share no directory.
func CommonRoot(roots ...string) string {
	var common []string
	for i, root := range roots {
		segs := strings.Split(cleanRemotePath(root), "/")
		if i == 0 {
			common = segs
			continue
		}
		n := 0
		for n < len(common) && n < len(segs) && common[n] == segs[n] {
			n++
		}
		common = common[:n]
	}
	return strings.Join(common, "/")
}

func cleanRemotePath(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}
