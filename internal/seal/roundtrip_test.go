package seal_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChronoCoders/hermes/internal/envelope"
	"github.com/ChronoCoders/hermes/internal/herrors"
	"github.com/ChronoCoders/hermes/internal/keystore"
	"github.com/ChronoCoders/hermes/internal/open"
	"github.com/ChronoCoders/hermes/internal/seal"
)

func newStore(t *testing.T) *keystore.Store {
	t.Helper()
	s, err := keystore.Open(filepath.Join(t.TempDir(), "keys"))
	require.NoError(t, err)
	return s
}

func TestPassphraseRoundTrip(t *testing.T) {
	plaintext := []byte("the treasure is buried under the old oak")
	data, err := seal.Seal(seal.Request{Plaintext: plaintext, Passphrase: "correct horse battery staple"}, nil)
	require.NoError(t, err)

	got, meta, err := open.Open(data, "correct horse battery staple", "", nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
	assert.Equal(t, time.Duration(0), meta.TTLRemaining)
}

func TestWrongPassphraseFails(t *testing.T) {
	data, err := seal.Seal(seal.Request{Plaintext: []byte("secret"), Passphrase: "right"}, nil)
	require.NoError(t, err)

	_, _, err = open.Open(data, "wrong", "", nil)
	assert.True(t, herrors.Is(err, herrors.DecryptionFailed))
}

func TestMultiRecipientRSARoundTrip(t *testing.T) {
	store := newStore(t)
	_, err := store.Generate("alice", keystore.GenerateOpts{})
	require.NoError(t, err)
	_, err = store.Generate("bob", keystore.GenerateOpts{})
	require.NoError(t, err)

	plaintext := []byte("quarterly figures attached")
	data, err := seal.Seal(seal.Request{
		Plaintext:  plaintext,
		Recipients: []string{"alice", "bob"},
		Filename:   "figures.txt",
	}, store)
	require.NoError(t, err)

	got, meta, err := open.Open(data, "", "bob", store)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
	assert.Equal(t, "figures.txt", meta.Filename)
	assert.ElementsMatch(t, []string{"alice", "bob"}, meta.RecipientNames)
}

func TestMultiRecipientKyberRoundTrip(t *testing.T) {
	store := newStore(t)
	_, err := store.Generate("carol", keystore.GenerateOpts{Kyber: true})
	require.NoError(t, err)

	plaintext := []byte("post-quantum payload")
	data, err := seal.Seal(seal.Request{
		Plaintext:  plaintext,
		Recipients: []string{"carol"},
		PQ:         true,
	}, store)
	require.NoError(t, err)

	got, _, err := open.Open(data, "", "carol", store)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestWrongRecipientFails(t *testing.T) {
	store := newStore(t)
	_, err := store.Generate("dave", keystore.GenerateOpts{})
	require.NoError(t, err)
	_, err = store.Generate("erin", keystore.GenerateOpts{})
	require.NoError(t, err)

	data, err := seal.Seal(seal.Request{Plaintext: []byte("x"), Recipients: []string{"dave"}}, store)
	require.NoError(t, err)

	_, _, err = open.Open(data, "", "erin", store)
	assert.True(t, herrors.Is(err, herrors.DecryptionFailed))
}

func TestTamperedCiphertextDetected(t *testing.T) {
	data, err := seal.Seal(seal.Request{Plaintext: []byte("do not touch"), Passphrase: "swordfish"}, nil)
	require.NoError(t, err)

	data[len(data)-1] ^= 0xFF

	_, _, err = open.Open(data, "swordfish", "", nil)
	assert.True(t, herrors.Is(err, herrors.DecryptionFailed))
}

func TestExpiredEnvelopeRejected(t *testing.T) {
	data, err := seal.Seal(seal.Request{
		Plaintext:  []byte("self-destructing message"),
		Passphrase: "pw",
		TTLHours:   -1,
	}, nil)
	require.NoError(t, err)

	_, _, err = open.Open(data, "pw", "", nil)
	assert.True(t, herrors.Is(err, herrors.Expired))
}

func TestFutureTTLLeavesTimeRemaining(t *testing.T) {
	data, err := seal.Seal(seal.Request{
		Plaintext:  []byte("time capsule"),
		Passphrase: "pw",
		TTLHours:   24,
	}, nil)
	require.NoError(t, err)

	_, meta, err := open.Open(data, "pw", "", nil)
	require.NoError(t, err)
	assert.Greater(t, meta.TTLRemaining, time.Duration(0))
}

func TestLargeCompressiblePlaintextIsCompressed(t *testing.T) {
	plaintext := make([]byte, 8192)
	for i := range plaintext {
		plaintext[i] = 'a'
	}
	data, err := seal.Seal(seal.Request{Plaintext: plaintext, Passphrase: "pw"}, nil)
	require.NoError(t, err)

	e, err := envelope.Parse(data)
	require.NoError(t, err)
	assert.True(t, e.Compressed)

	got, _, err := open.Open(data, "pw", "", nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestMutuallyExclusivePassphraseAndRecipientsRejected(t *testing.T) {
	_, err := seal.Seal(seal.Request{Plaintext: []byte("x")}, nil)
	assert.True(t, herrors.Is(err, herrors.ConfigError))

	_, err = seal.Seal(seal.Request{
		Plaintext:  []byte("x"),
		Passphrase: "pw",
		Recipients: []string{"alice"},
	}, nil)
	assert.True(t, herrors.Is(err, herrors.ConfigError))
}

func TestPQRequiresRecipients(t *testing.T) {
	_, err := seal.Seal(seal.Request{Plaintext: []byte("x"), Passphrase: "pw", PQ: true}, nil)
	assert.True(t, herrors.Is(err, herrors.ConfigError))
}
