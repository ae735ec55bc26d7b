package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
)

// Digest returns the hex SHA-1 of data. SHA-1 keeps digests compatible with
// cache files written by earlier site builds; collision resistance is not
// relied upon.
func Digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// DigestFile reads path and returns its digest together with the raw bytes
func DigestFile(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return Digest(data), data, nil
}
