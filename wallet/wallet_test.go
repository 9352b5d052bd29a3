package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/passbook-go/address"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// --- Mnemonic tests ---

func TestGenerateMnemonic(t *testing.T) {
	tests := []struct {
		bits  int
		words int
	}{
		{Mnemonic12Words, 12},
		{Mnemonic24Words, 24},
	}
	for _, tt := range tests {
		mnemonic, err := GenerateMnemonic(tt.bits)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(mnemonic), tt.words)

		_, err = SeedFromMnemonic(mnemonic, "")
		assert.NoError(t, err)
	}
}

func TestGenerateMnemonic_InvalidEntropy(t *testing.T) {
	_, err := GenerateMnemonic(64)
	assert.ErrorIs(t, err, ErrInvalidEntropy)
}

func TestSeedFromMnemonic(t *testing.T) {
	s1, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Len(t, s1, 64)

	s2, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	s3, err := SeedFromMnemonic(testMnemonic, "passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, s1, s3)

	_, err = SeedFromMnemonic("foo bar baz", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

// --- HD derivation tests ---

func newTestWallet(t *testing.T) *Wallet {
	t.Helper()
	w, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	return w
}

func TestNewWallet_EmptySeed(t *testing.T) {
	_, err := NewWallet(nil)
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestDeriveKey(t *testing.T) {
	w := newTestWallet(t)

	kp, err := w.DeriveKey(RoleBuyer, 3)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/236'/1'/0/3", kp.Path)
	assert.NotNil(t, kp.PrivateKey)

	again, err := w.DeriveKey(RoleBuyer, 3)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), again.Address())
}

func TestDeriveKey_DistinctIdentities(t *testing.T) {
	w := newTestWallet(t)
	seen := map[address.Address]string{}
	for _, role := range []Role{RoleAuthority, RoleBuyer, RoleCreator, RoleOperator, RoleReferrer} {
		for i := uint32(0); i < 3; i++ {
			kp, err := w.DeriveKey(role, i)
			require.NoError(t, err)
			prev, dup := seen[kp.Address()]
			assert.False(t, dup, "%s collides with %s", kp.Path, prev)
			seen[kp.Address()] = kp.Path
		}
	}
}

func TestDeriveKey_IndexOutOfRange(t *testing.T) {
	w := newTestWallet(t)
	_, err := w.DeriveKey(RoleBuyer, MaxIndex+1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "operator", RoleOperator.String())
	assert.Equal(t, "role(42)", Role(42).String())
}

// --- Signature tests ---

func TestSignVerify(t *testing.T) {
	kp, err := NewKeyPair()
	require.NoError(t, err)

	msg := []byte("buy pass")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	assert.NoError(t, VerifySignature(kp.PublicKey, msg, sig))
	assert.ErrorIs(t, VerifySignature(kp.PublicKey, []byte("other"), sig), ErrInvalidSignature)

	other, err := NewKeyPair()
	require.NoError(t, err)
	assert.ErrorIs(t, VerifySignature(other.PublicKey, msg, sig), ErrInvalidSignature)

	assert.ErrorIs(t, VerifySignature(kp.PublicKey, msg, []byte{0x01}), ErrInvalidSignature)
}

func TestSign_NilKey(t *testing.T) {
	var kp *KeyPair
	_, err := kp.Sign([]byte("x"))
	assert.ErrorIs(t, err, ErrNilKey)
}

// --- Authorization tests ---

func TestSignAll(t *testing.T) {
	a, err := NewKeyPair()
	require.NoError(t, err)
	b, err := NewKeyPair()
	require.NoError(t, err)
	c, err := NewKeyPair()
	require.NoError(t, err)

	auth, err := SignAll([]byte("init"), a, b)
	require.NoError(t, err)
	assert.True(t, auth.Signed(a.Address()))
	assert.True(t, auth.Signed(b.Address()))
	assert.False(t, auth.Signed(c.Address()))
	assert.Equal(t, 2, auth.Signers())
}

func TestAuthorize_RejectsForgery(t *testing.T) {
	a, err := NewKeyPair()
	require.NoError(t, err)
	b, err := NewKeyPair()
	require.NoError(t, err)

	sig, err := a.Sign([]byte("init"))
	require.NoError(t, err)

	// b claims a's signature.
	_, err = Authorize([]byte("init"), Signature{PublicKey: b.PublicKey.Compressed(), Sig: sig})
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = Authorize([]byte("init"), Signature{PublicKey: []byte{0x02, 0x01}, Sig: sig})
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestAuthorization_Nil(t *testing.T) {
	var auth *Authorization
	assert.False(t, auth.Signed(address.Native))
	assert.Equal(t, 0, auth.Signers())

	empty, err := Authorize([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Signers())
}
