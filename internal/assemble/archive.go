package assemble

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeTarGz archives the given files (paths relative to root) into a
// gzip-compressed tarball at destPath, under a top-level prefix
// directory. Symlinks are preserved.
func writeTarGz(root string, files []string, prefix, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", destPath, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, rel := range files {
		full := filepath.Join(root, rel)
		info, err := os.Lstat(full)
		if err != nil {
			return fmt.Errorf("stating %s: %w", full, err)
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			link, err = os.Readlink(full)
			if err != nil {
				return fmt.Errorf("reading link %s: %w", full, err)
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("building tar header for %s: %w", rel, err)
		}
		hdr.Name = filepath.ToSlash(filepath.Join(prefix, rel))

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing tar header for %s: %w", rel, err)
		}
		if info.Mode().IsRegular() {
			f, err := os.Open(full)
			if err != nil {
				return fmt.Errorf("opening %s: %w", full, err)
			}
			if _, err := io.Copy(tw, f); err != nil {
				f.Close()
				return fmt.Errorf("archiving %s: %w", rel, err)
			}
			f.Close()
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalizing gzip: %w", err)
	}
	return out.Close()
}

// writeZip archives the given files (paths relative to root) into a zip
// at destPath under a top-level prefix directory. Symlinks are followed:
// zip consumers on Windows do not reliably support them.
func writeZip(root string, files []string, prefix, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", destPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for _, rel := range files {
		full := filepath.Join(root, rel)
		info, err := os.Stat(full)
		if err != nil {
			return fmt.Errorf("stating %s: %w", full, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("building zip header for %s: %w", rel, err)
		}
		hdr.Name = filepath.ToSlash(filepath.Join(prefix, rel))
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("writing zip header for %s: %w", rel, err)
		}
		f, err := os.Open(full)
		if err != nil {
			return fmt.Errorf("opening %s: %w", full, err)
		}
		if _, err := io.Copy(w, f); err != nil {
			f.Close()
			return fmt.Errorf("archiving %s: %w", rel, err)
		}
		f.Close()
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing zip: %w", err)
	}
	return out.Close()
}
