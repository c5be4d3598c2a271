package ingestion

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ranker/internal/types"
)

// MaxFileBytes bounds the size of a single resume file, archived or not.
const MaxFileBytes = 20 << 20

// Skipped records a file that did not produce a document.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Batch is the result of loading a directory or archive of resumes.
type Batch struct {
	Documents []types.Document
	Metadata  []*Metadata
	Skipped   []Skipped
}

func (b *Batch) add(id, text string, meta *Metadata) {
	b.Documents = append(b.Documents, types.Document{ID: id, Text: text})
	b.Metadata = append(b.Metadata, meta)
}

func (b *Batch) skip(name, reason string, logger zerolog.Logger) {
	logger.Warn().Str("file", name).Str("reason", reason).Msg("skipping resume file")
	b.Skipped = append(b.Skipped, Skipped{Name: name, Reason: reason})
}

// LoadPath loads resumes from a directory or a .zip archive.
func LoadPath(p string, logger zerolog.Logger) (*Batch, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() {
		return LoadDirectory(p, logger)
	}
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		return LoadZip(p, logger)
	}
	return nil, fmt.Errorf("%s is neither a directory nor a .zip archive", p)
}

// LoadDirectory extracts every supported file directly inside dir, in name
// order. The file name becomes the document ID. Files with an unsupported
// extension, no extractable text or a failed extraction are skipped.
func LoadDirectory(dir string, logger zerolog.Logger) (*Batch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	batch := &Batch{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			batch.skip(name, err.Error(), logger)
			continue
		}
		if info.Size() > MaxFileBytes {
			batch.skip(name, "file too large", logger)
			continue
		}

		text, meta, err := ExtractFile(full)
		if !batch.accept(name, text, err, logger) {
			continue
		}
		batch.add(name, text, meta)
	}

	logger.Debug().Str("dir", dir).Int("documents", len(batch.Documents)).Int("skipped", len(batch.Skipped)).Msg("loaded resumes")
	return batch, nil
}

// LoadZip extracts every supported file in a zip archive. Entries are ordered
// by path and the entry path becomes the document ID.
func LoadZip(archive string, logger zerolog.Logger) (*Batch, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archive, err)
	}
	defer func() { _ = reader.Close() }()

	files := make([]*zip.File, 0, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() || hiddenEntry(f.Name) {
			continue
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	batch := &Batch{}
	for _, f := range files {
		if f.UncompressedSize64 > MaxFileBytes {
			batch.skip(f.Name, "file too large", logger)
			continue
		}
		if _, err := DetectFormat(f.Name); err != nil {
			batch.skip(f.Name, err.Error(), logger)
			continue
		}

		data, err := readZipEntry(f)
		if err != nil {
			batch.skip(f.Name, err.Error(), logger)
			continue
		}

		text, meta, err := ExtractBytes(f.Name, data)
		if !batch.accept(f.Name, text, err, logger) {
			continue
		}
		meta.Source = archive + "!" + f.Name
		batch.add(f.Name, text, meta)
	}

	logger.Debug().Str("archive", archive).Int("documents", len(batch.Documents)).Int("skipped", len(batch.Skipped)).Msg("loaded resumes")
	return batch, nil
}

// accept records a skip and returns false when extraction failed or produced
// no text.
func (b *Batch) accept(name, text string, err error, logger zerolog.Logger) bool {
	if err != nil {
		b.skip(name, err.Error(), logger)
		return false
	}
	if strings.TrimSpace(text) == "" {
		b.skip(name, "no extractable text", logger)
		return false
	}
	return true
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry: %w", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, MaxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}
	if len(data) > MaxFileBytes {
		return nil, fmt.Errorf("file too large")
	}
	return data, nil
}

func hiddenEntry(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), ".")
}
