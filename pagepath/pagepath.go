// Package pagepath canonicalises wiki page paths so that paths derived from the local file system
// and paths returned by the wiki API can be compared directly.
package pagepath

import (
	"path"
	"strings"
)

// Normalize returns the canonical form of a page path: forward slashes only, no `.` or `..`
// segments, no repeated separators, and no leading or trailing slash.  The root is "".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	p = strings.TrimLeft(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Join glues parts together with slashes and normalizes the result.  Empty parts disappear.
func Join(parts ...string) string {
	return Normalize(strings.Join(parts, "/"))
}

// WikiPath is the absolute form the wiki API uses, e.g. "/docs/Classes".
func WikiPath(p string) string {
	return "/" + Normalize(p)
}

// Ancestors lists every proper ancestor of p, shortest first.  "a/b/c" gives ["a", "a/b"].
func Ancestors(p string) []string {
	p = Normalize(p)
	if p == "" {
		return nil
	}

	segments := strings.Split(p, "/")
	ancestors := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		ancestors = append(ancestors, strings.Join(segments[:i], "/"))
	}
	return ancestors
}

// Relative returns p relative to root.  The second return value is false if p does not live under
// root.
func Relative(root, p string) (string, bool) {
	root = Normalize(root)
	p = Normalize(p)

	if root == "" {
		return p, true
	}
	if p == root {
		return "", true
	}
	if strings.HasPrefix(p, root+"/") {
		return p[len(root)+1:], true
	}
	return p, false
}

// StripExtension drops everything from the last dot of the final segment onwards.  A segment with
// no dot, a trailing dot, or only a leading dot (".gitignore") is left alone.
func StripExtension(p string) string {
	slash := strings.LastIndexAny(p, `/\`)
	dot := strings.LastIndex(p, ".")

	// the dot has to sit inside the final segment, after its first character and before its last
	if dot <= slash+1 || dot == len(p)-1 {
		return p
	}
	return p[:dot]
}
