package assemble

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func stageFixture(t *testing.T) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	files := []string{
		filepath.Join("bin", "app"),
		filepath.Join("lib", "libcore.so.1"),
	}
	for _, rel := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(rel), 0755))
	}
	return dir, files
}

func TestWriteTarGzPreservesSymlinks(t *testing.T) {
	dir, files := stageFixture(t)

	link := filepath.Join("lib", "libcore.so")
	require.NoError(t, os.Symlink("libcore.so.1", filepath.Join(dir, link)))
	files = append(files, link)

	dest := filepath.Join(t.TempDir(), "pkg.tar.gz")
	require.NoError(t, writeTarGz(dir, files, "pkg-1.0.0", dest))

	names := tarEntries(t, dest)
	require.Contains(t, names, "pkg-1.0.0/bin/app")
	require.Contains(t, names, "pkg-1.0.0/lib/libcore.so.1")
	require.Contains(t, names, "pkg-1.0.0/lib/libcore.so")
}

func TestWriteZip(t *testing.T) {
	dir, files := stageFixture(t)

	dest := filepath.Join(t.TempDir(), "pkg.zip")
	require.NoError(t, writeZip(dir, files, "pkg-1.0.0", dest))

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{"pkg-1.0.0/bin/app", "pkg-1.0.0/lib/libcore.so.1"}, names)
}

func TestUnversionedName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"libcore.so.1.2.3", "libcore.so"},
		{"libcore.so.1", "libcore.so"},
		{"libcore.1.2.3.dylib", "libcore.dylib"},
		{"libcore.so", ""},
		{"core.dll", ""},
		{"app", ""},
	}

	for _, c := range cases {
		if got := unversionedName(c.in); got != c.want {
			t.Errorf("unversionedName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
