// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"crypto/sha1" // nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
)

// HashAlgorithm ...
type HashAlgorithm string

const (
	HashAlgoSHA1   HashAlgorithm = "SHA1"
	HashAlgoSHA256 HashAlgorithm = "SHA256"
)

// Checksum hashes Content with Algorithm, lazily
type Checksum struct {
	Algorithm HashAlgorithm
	Content   []byte
	Value     string
}

func (c *Checksum) String() string {
	if c.Value == "" {
		c.Value = c.Compute(c.Content)
	}
	return c.Value
}

// Compute returns the lowercase hex digest of content
func (c *Checksum) Compute(content []byte) string {
	var h hash.Hash
	switch c.Algorithm {
	case HashAlgoSHA256:
		h = sha256.New()
	default:
		h = sha1.New() // nolint:gosec
	}
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Upper returns the digest in uppercase, the form the keychain tools print
func (c *Checksum) Upper() string {
	return strings.ToUpper(c.String())
}
