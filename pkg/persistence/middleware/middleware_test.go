package middleware_test

import (
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/persistence/middleware"
	"github.com/codmetric/codmetricbot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, next ports.TranscriptStore, cfg middleware.EncryptionConfig) ports.TranscriptStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func TestEncryption_Contract(t *testing.T) {
	ports.RunTranscriptStoreContract(t, encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryption_Roundtrip(t *testing.T) {
	ctx := t.Context()
	underlying := memory.NewStore()
	store := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	require.NoError(t, store.Save(ctx, "chat.txt", "You: my secret sauce"))

	raw, err := underlying.Load(ctx, "chat.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "codmetric:enc:v1:"))
	assert.NotContains(t, raw, "secret")

	got, err := store.Load(ctx, "chat.txt")
	require.NoError(t, err)
	assert.Equal(t, "You: my secret sauce", got)

	_, err = store.Load(ctx, "missing.txt")
	assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)
}

func TestEncryption_KeyRotation(t *testing.T) {
	ctx := t.Context()
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	require.NoError(t, encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey}).Save(ctx, "a.txt", "hello"))

	rotated := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	got, err := rotated.Load(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	withoutOld := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey})
	_, err = withoutOld.Load(ctx, "a.txt")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestEncryption_FailsSecureOnPlainContent(t *testing.T) {
	ctx := t.Context()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, "plain.txt", "You: hi"))

	_, err := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)}).Load(ctx, "plain.txt")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestEncryptionConfig_Validate(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	key, err := middleware.ParseKey("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8=")
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.Equal(t, byte(31), key[31])

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)

	_, err = middleware.ParseKey("c2hvcnQ=")
	assert.ErrorContains(t, err, "32 bytes")
}

func TestRedaction(t *testing.T) {
	ctx := t.Context()
	underlying := memory.NewStore()
	mw, err := middleware.NewRedactionMiddleware([]string{middleware.EmailPattern, `\b\d{3}-\d{2}-\d{4}\b`})
	require.NoError(t, err)
	store := mw(underlying)

	require.NoError(t, store.Save(ctx, "a.txt", "You: mail me at jane.doe@example.com\nYou: ssn 123-45-6789\nCodmetricBot: Result = 1024"))

	got, err := underlying.Load(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "You: mail me at ***\nYou: ssn ***\nCodmetricBot: Result = 1024", got)

	_, err = middleware.NewRedactionMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_RedactsBeforeEncrypting(t *testing.T) {
	ctx := t.Context()
	underlying := memory.NewStore()
	key := generateKey(t)

	redact, err := middleware.NewRedactionMiddleware([]string{middleware.EmailPattern})
	require.NoError(t, err)
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	require.NoError(t, err)

	store := middleware.Chain(underlying, redact, encrypt)
	require.NoError(t, store.Save(ctx, "a.txt", "You: a@b.io"))

	got, err := store.Load(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "You: ***", got)

	raw, err := underlying.Load(ctx, "a.txt")
	require.NoError(t, err)
	assert.NotContains(t, raw, "***")
}
