package certs

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafOf(t *testing.T, s *Store) *x509.Certificate {
	t.Helper()
	cert, err := s.Certificate()
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return leaf
}

func TestStoreCertificate(t *testing.T) {
	tests := []struct {
		setup       func(t *testing.T, s *Store)
		name        string
		wantReissue bool
	}{
		{
			name: "reuses a valid pair",
		},
		{
			name: "replaces a corrupt pair",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				require.NoError(t, os.WriteFile(s.certFile, []byte("junk"), 0600))
			},
			wantReissue: true,
		},
		{
			name: "renews close to expiry",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				s.now = func() time.Time { return time.Now().Add(Validity - RenewBefore/2) }
			},
			wantReissue: true,
		},
		{
			name: "reissues for a new host",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				s.hosts = append(s.hosts, "dashboard.local")
			},
			wantReissue: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(filepath.Join(t.TempDir(), "certs"))
			first := leafOf(t, s)

			if tt.setup != nil {
				tt.setup(t, s)
			}
			second := leafOf(t, s)

			if tt.wantReissue {
				assert.NotEqual(t, first.SerialNumber, second.SerialNumber)
			} else {
				assert.Equal(t, first.SerialNumber, second.SerialNumber)
			}
		})
	}
}

func TestStoreCoversHosts(t *testing.T) {
	s := NewStore(t.TempDir(), "localhost", "127.0.0.1", "api.test")
	leaf := leafOf(t, s)

	assert.ElementsMatch(t, []string{"localhost", "api.test"}, leaf.DNSNames)
	require.Len(t, leaf.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", leaf.IPAddresses[0].String())
	assert.NoError(t, leaf.VerifyHostname("api.test"))

	info, err := os.Stat(filepath.Join(s.dir, "prdash.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Equal(t, filepath.Join(s.dir, "prdash.crt"), s.CertFile())
}
