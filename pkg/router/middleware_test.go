package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compactSignature converts a [R || S || V] signature to [V || R || S]
func compactSignature(sig []byte) string {
	compact := make([]byte, 65)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	return hexutil.Encode(compact)
}

func TestSignatureVerification(t *testing.T) {
	// generate a key pair
	k, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := crypto.PubkeyToAddress(k.PublicKey)

	t.Run("legacy", func(t *testing.T) {
		data := []byte("eyJoZWxsbyI6IndvcmxkIn0") // base64: '{"hello":"world"}'

		body := signedBody{
			Data:     data,
			Encoding: BodyEncodingBase64,
			Expiry:   time.Now().Add(time.Second * 5).Unix(),
		}

		sig, err := crypto.Sign(crypto.Keccak256(body.Data), k)
		require.NoError(t, err)

		compactedSig := compactSignature(sig)

		assert.True(t, verifySignature(body, addr, compactedSig))
		assert.False(t, verifySignature(body, common.HexToAddress("0x01"), compactedSig))

		expired := body
		expired.Expiry = time.Now().Add(-time.Minute).Unix()
		assert.False(t, verifySignature(expired, addr, compactedSig))
	})

	t.Run("v2", func(t *testing.T) {
		data := []byte("eyJoZWxsbyI6IndvcmxkIn0")

		body := signedBody{
			Data:     data,
			Encoding: BodyEncodingBase64,
			Expiry:   time.Now().Add(time.Second * 5).Unix(),
			Version:  2,
		}

		b, err := json.Marshal(body)
		require.NoError(t, err)

		sig, err := crypto.Sign(crypto.Keccak256(b), k)
		require.NoError(t, err)

		compactedSig := compactSignature(sig)

		assert.True(t, verifyV2Signature(body, addr, compactedSig))

		// the legacy check must not accept a v2 body
		assert.False(t, verifySignature(body, addr, compactedSig))

		tampered := body
		tampered.Data = []byte("e30")
		assert.False(t, verifyV2Signature(tampered, addr, compactedSig))
	})

	t.Run("malformed", func(t *testing.T) {
		body := signedBody{Expiry: time.Now().Add(time.Minute).Unix(), Version: 2}

		assert.False(t, verifyV2Signature(body, addr, "0x"))
		assert.False(t, verifyV2Signature(body, addr, "not hex"))
	})
}

func TestHealthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h := HealthMiddleware(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
