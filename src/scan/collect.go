package scan

import (
	"os"
	"path/filepath"

	"github.com/sofmeright/lintscope/src/logging"
	"github.com/sofmeright/lintscope/src/resolver"
)

// FileInfo describes a file found during collection.
type FileInfo struct {
	Path    string // slash-separated, relative to the walk root
	AbsPath string
	Size    int64
}

// CollectFiles walks root and returns every regular file that r does not
// globally ignore, in lexical order. Directories whose whole subtree is
// ignored are not descended into. .git and the .lintscope state directory
// are always skipped.
func CollectFiles(root string, r *resolver.Resolver) ([]FileInfo, error) {
	logger := logging.WithComponent("scan")
	var files []FileInfo

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if d.Name() == ".git" || rel == stateDir {
				return filepath.SkipDir
			}
			if r.PrunesDir(rel) {
				logger.Debug().Str("dir", rel).Msg("pruned ignored directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if r.IsIgnored(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			Path:    rel,
			AbsPath: path,
			Size:    info.Size(),
		})
		return nil
	})

	return files, err
}
