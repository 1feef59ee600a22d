// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"fmt"
	"os"
	"strings"

	"github.com/projectgen/generator/internal/helper"
)

const securityCmd = "security"

// SecurityCLI drives the macOS security tool
type SecurityCLI struct {
	// Keychain to use, the default keychain when empty
	Keychain string
}

// NewSecurityCLI ...
func NewSecurityCLI(keychain string) *SecurityCLI {
	return &SecurityCLI{Keychain: keychain}
}

func (s *SecurityCLI) withKeychain(args ...string) []string {
	if s.Keychain != "" {
		args = append(args, s.Keychain)
	}
	return args
}

// DecodeFile returns the property list embedded in a signed profile
func (s *SecurityCLI) DecodeFile(path string) ([]byte, error) {
	output, err := helper.NewCmd(helper.CmdOptions{
		Name: securityCmd,
		Args: []string{"cms", "-D", "-i", path},
	}).Output()
	if err != nil {
		return nil, err
	}
	return []byte(output), nil
}

// CertificateExists looks the certificate up by its SHA-1 fingerprint
func (s *SecurityCLI) CertificateExists(path string) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading certificate %s: %w", path, err)
	}
	fingerprint := helper.Checksum{Algorithm: helper.HashAlgoSHA1, Content: contents}

	output, err := helper.NewCmd(helper.CmdOptions{
		Name: securityCmd,
		Args: s.withKeychain("find-certificate", "-a", "-Z"),
	}).Output()
	if err != nil {
		return false, err
	}
	return strings.Contains(output, "SHA-1 hash: "+fingerprint.Upper()), nil
}

// ImportCertificate adds the certificate to the keychain
func (s *SecurityCLI) ImportCertificate(path string) error {
	args := []string{"import", path}
	if s.Keychain != "" {
		args = append(args, "-k", s.Keychain)
	}
	return helper.NewCmd(helper.CmdOptions{Name: securityCmd, Args: args}).Run()
}
