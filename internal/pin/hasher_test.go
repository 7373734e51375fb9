package pin

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSaltedSHA256Hasher(t *testing.T) {
	h := SaltedSHA256Hasher{}

	first, err := h.Hash("123456")
	require.NoError(t, err)
	second, err := h.Hash("123456")
	require.NoError(t, err)

	require.Equal(t, first, second, "digest must be deterministic")
	require.Len(t, first, 64)
	require.NotContains(t, first, "123456")
	require.True(t, h.Verify("123456", first))
	require.False(t, h.Verify("654321", first))
	require.False(t, h.Verify("123456", ""))
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	digest, err := h.Hash("012345")
	require.NoError(t, err)
	require.True(t, h.Verify("012345", digest))
	require.False(t, h.Verify("012346", digest))

	other, err := h.Hash("012345")
	require.NoError(t, err)
	require.NotEqual(t, digest, other, "bcrypt digests use a per-record salt")
}

func TestNewHasher(t *testing.T) {
	tests := []struct {
		name    string
		algo    string
		cost    int
		want    Hasher
		wantErr bool
	}{
		{name: "Default", algo: "", want: SaltedSHA256Hasher{}},
		{name: "SHA256", algo: AlgorithmSHA256, want: SaltedSHA256Hasher{}},
		{name: "Bcrypt", algo: AlgorithmBcrypt, cost: 10, want: BcryptHasher{Cost: 10}},
		{name: "Bcrypt Bad Cost", algo: AlgorithmBcrypt, cost: 99, wantErr: true},
		{name: "Unknown", algo: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewHasher(tt.algo, tt.cost)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
