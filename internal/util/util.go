// Package util provides content hashing helpers for ETags.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// HashFS hashes every regular file of fsys, keyed by prefix + path.
func HashFS(fsys fs.FS, prefix string) (map[string]string, error) {
	hashes := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		hashes[prefix+path] = `"` + ContentHash(data) + `"`
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}
