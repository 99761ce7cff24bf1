// Package filestore owns the on-disk directory tree for product bundles,
// one subdirectory per product id under a configured root.
package filestore

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// ErrNotUploaded reports a read against a product that has no stored
// bundle. The catalogue row may well exist; only the directory is absent.
var ErrNotUploaded = errors.New("no bundle uploaded")

// RejectError is a bundle validation failure. It maps to FILE_UPLOAD_ERROR
// at the HTTP boundary.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string { return e.Reason }

func reject(format string, args ...any) error {
	return &RejectError{Reason: fmt.Sprintf(format, args...)}
}

// FileInfo is one regular file inside a bundle.
type FileInfo struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Listing enumerates a bundle's regular files.
type Listing struct {
	Files     []FileInfo `json:"files"`
	TotalSize int64      `json:"total_size"`
}

// Store maps product ids to directories under root. Writes to the same id
// are serialised by a per-id mutex; reads run concurrently.
type Store struct {
	root          string
	maxBundleSize int64

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// entryFiles are accepted bundle entry points when the product does not
// declare its own.
var entryFiles = []string{"index.html", "tool.html", "main.html"}

func New(root string, maxBundleSize int64) *Store {
	return &Store{
		root:          root,
		maxBundleSize: maxBundleSize,
		locks:         make(map[int]*sync.Mutex),
	}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// lockFor returns the mutex serialising writes for one product id. The map
// lock is held only long enough to fetch or create the entry; orphan scans
// and reads never take per-id locks.
func (s *Store) lockFor(id int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) dir(id int) string {
	return filepath.Join(s.root, strconv.Itoa(id))
}

// Accept validates the uploaded archive and unpacks it into <root>/<id>/,
// replacing any previous bundle. entryFile, when non-empty, names the file
// the bundle must contain; otherwise any default entry point is accepted.
// Extraction checks for cancellation between files, and a failure rolls
// back the partially written directory, leaving the previous bundle intact.
func (s *Store) Accept(ctx context.Context, id int, archive io.ReaderAt, size int64, entryFile string) error {
	if size > s.maxBundleSize {
		return reject("bundle exceeds maximum size of %d bytes", s.maxBundleSize)
	}

	zr, err := zip.NewReader(archive, size)
	if err != nil {
		return reject("file is not a valid zip archive")
	}
	if err := s.validateArchive(zr, entryFile); err != nil {
		return err
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	dir := s.dir(id)
	staging := dir + ".partial"
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("failed to clear staging directory: %w", err)
	}
	if err := s.extract(ctx, zr, staging); err != nil {
		os.RemoveAll(staging)
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("failed to replace previous bundle: %w", err)
	}
	if err := os.Rename(staging, dir); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("failed to install bundle: %w", err)
	}
	return nil
}

func (s *Store) validateArchive(zr *zip.Reader, entryFile string) error {
	var total int64
	hasEntry := false

	for _, f := range zr.File {
		name, err := safePath(f.Name)
		if err != nil {
			return err
		}
		if f.Mode()&os.ModeSymlink != 0 {
			return reject("archive entry %q is a symlink", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		total += int64(f.UncompressedSize64)
		if total > s.maxBundleSize {
			return reject("bundle exceeds maximum uncompressed size of %d bytes", s.maxBundleSize)
		}
		if matchesEntry(name, entryFile) {
			hasEntry = true
		}
	}

	if !hasEntry {
		if entryFile != "" {
			return reject("bundle does not contain entry file %q", entryFile)
		}
		return reject("bundle does not contain an entry file (%s)", strings.Join(entryFiles, ", "))
	}
	return nil
}

// matchesEntry accepts the entry file at the archive root only.
func matchesEntry(name, entryFile string) bool {
	if entryFile != "" {
		return name == entryFile
	}
	for _, candidate := range entryFiles {
		if name == candidate {
			return true
		}
	}
	return false
}

// safePath normalises an archive entry name and rejects anything that
// would escape the extraction root.
func safePath(name string) (string, error) {
	if name == "" {
		return "", reject("archive contains an entry with an empty name")
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", reject("archive entry %q escapes the bundle directory", name)
	}
	for _, part := range strings.Split(clean, string(filepath.Separator)) {
		if part == ".." {
			return "", reject("archive entry %q escapes the bundle directory", name)
		}
	}
	return filepath.ToSlash(clean), nil
}

func (s *Store) extract(ctx context.Context, zr *zip.Reader, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		name, err := safePath(f.Name)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, filepath.FromSlash(name))

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	defer dst.Close()

	// The declared size was already checked against the cap; LimitReader
	// keeps a lying header from writing past it.
	if _, err := io.Copy(dst, io.LimitReader(src, int64(f.UncompressedSize64)+1)); err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}

// List enumerates the bundle's regular files depth-first with sizes.
func (s *Store) List(id int) (*Listing, error) {
	dir := s.dir(id)
	listing := &Listing{Files: []FileInfo{}}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		listing.Files = append(listing.Files, FileInfo{Path: filepath.ToSlash(rel), Size: info.Size()})
		listing.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotUploaded)
		}
		return nil, fmt.Errorf("failed to list bundle %d: %w", id, err)
	}
	return listing, nil
}

// Verify checks that the bundle directory exists and contains its entry
// file, returning a reason when it does not.
func (s *Store) Verify(id int, entryFile string) (bool, string) {
	dir := s.dir(id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false, "bundle directory does not exist"
	}

	candidates := entryFiles
	if entryFile != "" {
		candidates = []string{entryFile}
	}
	for _, candidate := range candidates {
		if fi, err := os.Stat(filepath.Join(dir, candidate)); err == nil && fi.Mode().IsRegular() {
			return true, ""
		}
	}
	return false, fmt.Sprintf("entry file missing (expected %s)", strings.Join(candidates, " or "))
}

// Exists reports whether a bundle directory is present for the product.
func (s *Store) Exists(id int) bool {
	info, err := os.Stat(s.dir(id))
	return err == nil && info.IsDir()
}

// FindOrphans returns directories under root whose name is a decimal
// integer not present in knownIDs. Non-numeric names are ignored.
func (s *Store) FindOrphans(knownIDs map[int]struct{}) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to scan product store: %w", err)
	}

	orphans := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if _, known := knownIDs[id]; !known {
			orphans = append(orphans, entry.Name())
		}
	}
	return orphans, nil
}

// Delete removes the bundle directory recursively. Deleting an absent
// bundle is not an error.
func (s *Store) Delete(id int) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := os.RemoveAll(s.dir(id)); err != nil {
		return fmt.Errorf("failed to delete bundle %d: %w", id, err)
	}
	return nil
}

// Stats reports the number of bundle directories and their combined size.
func (s *Store) Stats() (count int, totalSize int64, err error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to scan product store: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		listing, err := s.List(id)
		if err != nil {
			continue
		}
		count++
		totalSize += listing.TotalSize
	}
	return count, totalSize, nil
}
