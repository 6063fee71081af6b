package assets

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
)

// defaultPayload is the frame name the decompiler gives a sprite's first image.
const defaultPayload = "1.png"

// SelectPayload picks the image to export from a sprite folder: 1.png when
// present, otherwise the first *.png in name order.
func SelectPayload(fs billy.Filesystem, dir string) (string, error) {
	candidate := fs.Join(dir, defaultPayload)
	if fi, err := fs.Stat(candidate); err == nil && !fi.IsDir() {
		return candidate, nil
	}

	infos, err := readDirSorted(fs, dir)
	if err != nil {
		return "", err
	}
	for _, fi := range infos {
		if !fi.IsDir() && strings.HasSuffix(fi.Name(), ".png") {
			return fs.Join(dir, fi.Name()), nil
		}
	}
	return "", ErrNoPayload
}

func readDirSorted(fs billy.Filesystem, dir string) ([]os.FileInfo, error) {
	infos, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

// copyFile duplicates src to dst, replacing dst if it exists.
func copyFile(fs billy.Filesystem, src, dst string) (os.FileInfo, error) {
	info, err := fs.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", src, err)
	}

	in, err := fs.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }() // read-only

	out, err := fs.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", dst, err)
	}
	return info, nil
}

// preserveMetadata copies mode and modification time when the filesystem
// supports changing them.
func preserveMetadata(fs billy.Filesystem, dst string, info os.FileInfo) error {
	ch, ok := fs.(billy.Change)
	if !ok {
		return nil
	}
	if err := ch.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return ch.Chtimes(dst, info.ModTime(), info.ModTime())
}
