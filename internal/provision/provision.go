// Package provision obtains a local copy of the raw dataset file,
// downloading and extracting the distribution archive on first use.
package provision

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Error indicates the dataset could not be obtained or extracted.
// It is fatal for the invocation; there is no retry policy — rerunning
// the command is the retry.
type Error struct {
	Stage string // "download" or "extract"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provisioning dataset (%s): %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures where the dataset lives and where to get it.
type Options struct {
	DatasetPath string // decompressed semicolon-delimited text file
	ArchivePath string // local path for the downloaded zip
	DownloadURL string // archive source
}

// Ensure makes the dataset file available locally. Idempotent: if the
// dataset already exists it does nothing; if only the archive exists it
// extracts it; otherwise it downloads the archive first. A single
// attempt per call.
func Ensure(opts Options) error {
	if _, err := os.Stat(opts.DatasetPath); err == nil {
		return nil
	}

	if _, err := os.Stat(opts.ArchivePath); os.IsNotExist(err) {
		if err := download(opts.DownloadURL, opts.ArchivePath); err != nil {
			return &Error{Stage: "download", Err: err}
		}
	}

	if err := extract(opts.ArchivePath, filepath.Dir(opts.DatasetPath)); err != nil {
		return &Error{Stage: "extract", Err: err}
	}

	if _, err := os.Stat(opts.DatasetPath); err != nil {
		return &Error{Stage: "extract", Err: fmt.Errorf("archive did not contain %s: %w", filepath.Base(opts.DatasetPath), err)}
	}

	return nil
}

// download fetches the archive from url to path. A failed attempt
// removes the partial file so the next run downloads again instead of
// extracting garbage.
func download(url, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating archive directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer func() {
		out.Close()
		if err != nil {
			os.Remove(path)
		}
	}()

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("fetching archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching archive: status %d", resp.StatusCode)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	return nil
}

// extract unpacks every file in the zip archive into dest
func extract(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	for _, f := range r.File {
		if err := extractFile(f, dest); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, dest string) error {
	path := filepath.Join(dest, filepath.Base(f.Name))

	if f.FileInfo().IsDir() {
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.FileInfo().Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
