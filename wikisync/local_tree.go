package wikisync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLocalRootMissing means the directory we're supposed to publish isn't there.
var ErrLocalRootMissing = errors.New("local docs directory does not exist")

// CountLocalEntries counts the files and directories below root (root itself excluded), which is
// exactly the number of pages an upload of root will touch.  Symlinks are followed, except those
// leading back to a directory that's already being walked.
func CountLocalEntries(root string) (int, error) {
	stat, err := os.Stat(root)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("wikisync: %w: %s", ErrLocalRootMissing, root)
	} else if err != nil {
		return 0, fmt.Errorf("wikisync: cannot stat '%s': %w", root, err)
	}

	if !stat.IsDir() {
		// path is not a directory.  this is bad, we should bail
		return 0, fmt.Errorf("wikisync: local docs path not a directory: '%s'", root)
	}

	chain, err := newDirChain(root)
	if err != nil {
		return 0, err
	}

	return countEntries(root, chain)
}

func countEntries(directory string, chain dirChain) (int, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return 0, fmt.Errorf("wikisync: couldn't read directory %s: %w", directory, err)
	}

	count := 0
	for _, entry := range entries {
		filePath := filepath.Join(directory, entry.Name())
		info, err := os.Stat(filePath)
		if err != nil {
			return 0, fmt.Errorf("wikisync: cannot stat '%s': %w", filePath, err)
		}
		if !info.IsDir() {
			count++
			continue
		}

		resolved, loops, err := chain.loopsBack(filePath)
		if err != nil {
			return 0, err
		}
		if loops {
			continue
		}

		count++
		chain[resolved] = true
		n, err := countEntries(filePath, chain)
		delete(chain, resolved)
		if err != nil {
			return 0, err
		}
		count += n
	}

	return count, nil
}

// dirChain holds the resolved paths of the directories currently being walked, from the root down.
type dirChain map[string]bool

func newDirChain(root string) (dirChain, error) {
	resolved, err := resolveDir(root)
	if err != nil {
		return nil, err
	}
	return dirChain{resolved: true}, nil
}

// loopsBack resolves dir and reports whether it is one of the directories being walked, i.e. a
// symlink pointing back up the tree.
func (c dirChain) loopsBack(dir string) (string, bool, error) {
	resolved, err := resolveDir(dir)
	if err != nil {
		return "", false, err
	}
	return resolved, c[resolved], nil
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("wikisync: couldn't make %s absolute: %w", dir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("wikisync: couldn't resolve %s: %w", dir, err)
	}
	return resolved, nil
}
