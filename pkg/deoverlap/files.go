package deoverlap

import (
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/errors"
)

// linkFile points dest at the absolute path of src. An existing link to the
// same target is left alone; anything else at dest is replaced.
func linkFile(src, dest string) error {
	target, err := filepath.Abs(src)
	if err != nil {
		return errors.WrapIO("link", src, err)
	}
	if same, err := sameFile(target, dest); err != nil || same {
		return err
	}
	if existing, err := os.Readlink(dest); err == nil && existing == target {
		return nil
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("link", dest, err)
	}
	if err := os.Symlink(target, dest); err != nil {
		return errors.WrapIO("link", dest, err)
	}
	return nil
}

// copyFile copies src to dest through a temporary file and keeps the
// source modification time. A dest with the same size and modification
// time is left alone.
func copyFile(src, dest string) error {
	if same, err := sameFile(src, dest); err != nil || same {
		return err
	}
	st, err := os.Stat(src)
	if err != nil {
		return errors.WrapIO("copy", src, err)
	}
	if dt, err := os.Lstat(dest); err == nil && dt.Mode().IsRegular() &&
		dt.Size() == st.Size() && dt.ModTime().Equal(st.ModTime()) {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("copy", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), constants.TempPattern)
	if err != nil {
		return errors.WrapIO("copy", dest, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("copy", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("copy", dest, err)
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return errors.WrapIO("copy", dest, err)
	}
	if err := os.Chtimes(tmp.Name(), st.ModTime(), st.ModTime()); err != nil {
		return errors.WrapIO("copy", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return errors.WrapIO("rename", dest, err)
	}
	return nil
}

// sameFile reports whether dest already is src, as when the output
// directory is the source directory.
func sameFile(src, dest string) (bool, error) {
	a, err := os.Stat(src)
	if err != nil {
		return false, errors.WrapIO("read", src, err)
	}
	b, err := os.Lstat(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapIO("read", dest, err)
	}
	return os.SameFile(a, b), nil
}
