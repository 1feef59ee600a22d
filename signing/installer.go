// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/projectgen/generator/internal/helper"
	"github.com/projectgen/generator/internal/plist"
)

// Signing file extensions
const (
	ExtMobileProvision  = "mobileprovision"
	ExtProvisionProfile = "provisionprofile"
	ExtCertificate      = "cer"
)

// FilesLocator finds the signing files of a directory
type FilesLocator interface {
	LocateSigningFiles(path string) ([]string, error)
}

// SecurityController decodes profiles and manages the certificates of a keychain
type SecurityController interface {
	DecodeFile(path string) ([]byte, error)
	CertificateExists(path string) (bool, error)
	ImportCertificate(path string) error
}

// Installer installs provisioning profiles and certificates
type Installer struct {
	locator     FilesLocator
	security    SecurityController
	logger      logrus.FieldLogger
	profilesDir string
}

// NewInstaller ...
func NewInstaller(locator FilesLocator, security SecurityController, logger logrus.FieldLogger, profilesDir string) *Installer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Installer{
		locator:     locator,
		security:    security,
		logger:      logger,
		profilesDir: profilesDir,
	}
}

// New returns an installer writing profiles to the user's profile store and
// importing certificates into the default keychain
func New() (*Installer, error) {
	if !helper.Available(securityCmd) {
		return nil, errSecurityNotFound
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locating home directory: %w", err)
	}
	return NewInstaller(
		DirectoryLocator{},
		NewSecurityCLI(""),
		logrus.StandardLogger(),
		filepath.Join(home, "Library", "MobileDevice", "Provisioning Profiles"),
	), nil
}

// InstallSigning installs every signing file found in path. Files with an
// unknown extension are skipped with a warning.
func (i *Installer) InstallSigning(path string) error {
	files, err := i.locator.LocateSigningFiles(path)
	if err != nil {
		return err
	}

	for _, file := range files {
		switch extension(file) {
		case ExtMobileProvision, ExtProvisionProfile:
			if err := i.InstallProvisioningProfile(file); err != nil {
				return err
			}
		case ExtCertificate:
			if err := i.ImportCertificate(file); err != nil {
				return err
			}
		default:
			i.logger.Warnf("File %s has unknown extension", file)
		}
	}
	return nil
}

// InstallProvisioningProfile copies the profile at path into the profile
// store, named after its UUID
func (i *Installer) InstallProvisioningProfile(path string) error {
	decoded, err := i.security.DecodeFile(path)
	if err != nil {
		return fmt.Errorf("decoding provisioning profile %s: %w", path, err)
	}

	ext := extension(path)
	if ext == "" {
		return &NoFileExtensionError{Path: path}
	}

	uuid, err := ProfileUUID(decoded, path)
	if err != nil {
		return err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading provisioning profile %s: %w", path, err)
	}
	if err := os.MkdirAll(i.profilesDir, 0o755); err != nil {
		return fmt.Errorf("creating profile store %s: %w", i.profilesDir, err)
	}
	destination := filepath.Join(i.profilesDir, uuid+"."+ext)
	if err := os.WriteFile(destination, contents, 0o600); err != nil {
		return fmt.Errorf("installing provisioning profile %s: %w", path, err)
	}

	i.logger.Debugf("Installed provisioning profile %s", path)
	return nil
}

// ImportCertificate imports the certificate at path unless the keychain
// already holds it
func (i *Installer) ImportCertificate(path string) error {
	exists, err := i.security.CertificateExists(path)
	if err != nil {
		return fmt.Errorf("looking up certificate %s: %w", path, err)
	}
	if exists {
		i.logger.Debugf("Certificate at %s is already present in keychain", path)
		return nil
	}

	if err := i.security.ImportCertificate(path); err != nil {
		return fmt.Errorf("importing certificate %s: %w", path, err)
	}
	i.logger.Debugf("Imported certificate at %s", path)
	return nil
}

// ProfileUUID returns the value following the UUID key of a decoded profile
func ProfileUUID(decoded []byte, path string) (string, error) {
	root, err := plist.Parse(decoded)
	if err != nil {
		return "", &InvalidProvisioningProfileError{Path: path, Err: err}
	}

	nodes := root.Grandchildren()
	for idx, node := range nodes {
		if node.Value != "UUID" {
			continue
		}
		if idx+1 == len(nodes) || nodes[idx+1].Value == "" {
			break
		}
		return nodes[idx+1].Value, nil
	}
	return "", &InvalidProvisioningProfileError{Path: path}
}

func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
