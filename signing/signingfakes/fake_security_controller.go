// SPDX-License-Identifier: Apache-2.0

package signingfakes

import (
	"sync"

	"github.com/projectgen/generator/signing"
)

// FakeSecurityController is an in-memory signing.SecurityController whose
// keychain remembers imported certificates
type FakeSecurityController struct {
	mu sync.Mutex

	decoded   map[string][]byte
	decodeErr error

	keychain  map[string]bool
	importErr error

	decodeCalls []string
	importCalls []string
	existsCalls []string
}

var _ signing.SecurityController = &FakeSecurityController{}

// DecodeFileReturnsFor sets the decoded document returned for path
func (f *FakeSecurityController) DecodeFileReturnsFor(path string, decoded []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decoded == nil {
		f.decoded = map[string][]byte{}
	}
	f.decoded[path] = decoded
}

func (f *FakeSecurityController) DecodeFileReturns(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decodeErr = err
}

func (f *FakeSecurityController) ImportCertificateReturns(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.importErr = err
}

func (f *FakeSecurityController) DecodeFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decodeCalls = append(f.decodeCalls, path)
	if f.decodeErr != nil {
		return nil, f.decodeErr
	}
	return f.decoded[path], nil
}

func (f *FakeSecurityController) CertificateExists(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls = append(f.existsCalls, path)
	return f.keychain[path], nil
}

func (f *FakeSecurityController) ImportCertificate(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.importCalls = append(f.importCalls, path)
	if f.importErr != nil {
		return f.importErr
	}
	if f.keychain == nil {
		f.keychain = map[string]bool{}
	}
	f.keychain[path] = true
	return nil
}

func (f *FakeSecurityController) DecodeFileCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.decodeCalls)
}

func (f *FakeSecurityController) CertificateExistsCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.existsCalls)
}

func (f *FakeSecurityController) ImportCertificateCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.importCalls)
}
