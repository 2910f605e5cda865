package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	cp "github.com/otiai10/copy"
)

// InstallTemplates copies an image bundle into dst. An existing dst is kept aside as dst.bkp,
// replacing any older backup.
func InstallTemplates(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return fmt.Errorf("template bundle not found at %s", src)
	}

	if _, err := os.Stat(dst); err == nil {
		if err = os.RemoveAll(dst + ".bkp"); err != nil {
			return fmt.Errorf("error removing previous template backup: %w", err)
		}
		if err = os.Rename(dst, dst+".bkp"); err != nil {
			return fmt.Errorf("error backing up templates: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return fmt.Errorf("error creating template folder: %w", err)
	}

	return cp.Copy(src, dst, cp.Options{
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			return !info.IsDir() && filepath.Ext(src) != ".png", nil
		},
	})
}

// MissingTemplates lists the configured keys whose image file does not exist in dir.
func MissingTemplates(dir string, files map[string]string) []string {
	var missing []string
	for key, name := range files {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)

	return missing
}
