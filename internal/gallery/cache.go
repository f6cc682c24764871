package gallery

import (
	"crypto/md5"
	"encoding/hex"
	"os"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

// Checksum returns the md5 fingerprint of the file's bytes, hex encoded.
func Checksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", gerrors.ArtifactError("read file for checksum", err).WithContext("path", path)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

// IsCached reports whether the example copy at path has a sidecar checksum
// matching its current content. A missing or unreadable sidecar is an
// ordinary miss, never an error.
func IsCached(path string) bool {
	stored, err := os.ReadFile(path + ".md5")
	if err != nil {
		return false
	}
	current, err := Checksum(path)
	if err != nil {
		return false
	}
	return string(stored) == current
}

// WriteChecksum stores the sidecar fingerprint next to the example copy so
// later runs can skip it while its content is unchanged.
func WriteChecksum(path string) error {
	sum, err := Checksum(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+".md5", []byte(sum), 0o644); err != nil {
		return gerrors.ArtifactError("write checksum sidecar", err).WithContext("path", path)
	}
	return nil
}
