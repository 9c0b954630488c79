// Package fs provides file-based article sources and snapshot storage.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/kbase"
)

// Ensure Source implements kbase.SourceReader at compile time.
var _ kbase.SourceReader = (*Source)(nil)

// Source reads article files from the local filesystem. Markdown files are
// read as is; HTML files are reduced to their article body and converted
// when an Extractor and Converter are configured, and skipped otherwise.
type Source struct {
	Extractor kbase.Extractor
	Converter kbase.ArticleConverter
}

// NewSource creates a Source that reads Markdown only.
func NewSource() *Source {
	return &Source{}
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Read returns one blob per article file at location, which is a file or a
// directory walked recursively. Hidden files and directories are skipped.
// Blobs are ordered by path.
func (s *Source) Read(ctx context.Context, location string) ([]*kbase.Blob, error) {
	info, err := os.Stat(location)
	if os.IsNotExist(err) {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "source %s not found", location)
	}
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		blob, err := s.readFile(location)
		if err != nil {
			return nil, err
		}
		return []*kbase.Blob{blob}, nil
	}

	var paths []string
	err = filepath.WalkDir(location, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != location && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if isMarkdown(path) || (isHTML(path) && s.convertsHTML()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	blobs := make([]*kbase.Blob, 0, len(paths))
	for _, path := range paths {
		blob, err := s.readFile(path)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

func (s *Source) convertsHTML() bool {
	return s.Extractor != nil && s.Converter != nil
}

func (s *Source) readFile(path string) (*kbase.Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch {
	case isMarkdown(path):
		return &kbase.Blob{Origin: path, Content: string(data)}, nil
	case isHTML(path) && s.convertsHTML():
		md, err := s.toMarkdown(string(data))
		if err != nil {
			return nil, kbase.Errorf(kbase.EMALFORMED, "%s: %s", path, kbase.ErrorMessage(err))
		}
		return &kbase.Blob{Origin: path, Content: md}, nil
	default:
		return nil, kbase.Errorf(kbase.EINVALID, "%s: unsupported file type", path)
	}
}

func (s *Source) toMarkdown(html string) (string, error) {
	res, err := s.Extractor.Extract(html)
	if err != nil {
		return "", err
	}
	return s.Converter.ConvertArticle(res)
}
