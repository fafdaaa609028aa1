package service

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newKeyServer 生成一把 ECDSA 金鑰並啟動提供其公鑰的測試端點
func newKeyServer(t *testing.T, keyID int64) (*ecdsa.PrivateKey, *httptest.Server, *int) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]interface{}{
				{"keyId": keyID, "pem": string(pemBytes), "base64": ""},
			},
		})
	}))
	t.Cleanup(server.Close)

	return priv, server, &fetches
}

func signMessage(t *testing.T, priv *ecdsa.PrivateKey, message string) string {
	t.Helper()
	digest := sha256.Sum256([]byte(message))
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(sig)
}

func TestAdMobVerifierVerify(t *testing.T) {
	priv, server, _ := newKeyServer(t, 3335741209)
	verifier := NewAdMobVerifier(server.URL, time.Hour)

	message := "ad_network=net&reward_amount=50&transaction_id=tx-1&user_id=7"
	signature := signMessage(t, priv, message)

	ok, err := verifier.Verify(message, signature, "3335741209")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("valid signature rejected")
	}

	// 內容被改動後簽名不再有效
	ok, err = verifier.Verify(message+"&extra=1", signature, "3335741209")
	if err != nil {
		t.Fatalf("Verify tampered: %v", err)
	}
	if ok {
		t.Error("tampered message accepted")
	}

	// 未知的 key_id 不算錯誤，只是驗證失敗
	ok, err = verifier.Verify(message, signature, "999")
	if err != nil {
		t.Fatalf("Verify unknown key: %v", err)
	}
	if ok {
		t.Error("unknown key id accepted")
	}

	// 壞掉的 base64 同樣只是驗證失敗
	ok, err = verifier.Verify(message, "!!!not-base64!!!", "3335741209")
	if err != nil {
		t.Fatalf("Verify bad encoding: %v", err)
	}
	if ok {
		t.Error("malformed signature accepted")
	}
}

func TestAdMobVerifierAcceptsPaddedSignature(t *testing.T) {
	priv, server, _ := newKeyServer(t, 1)
	verifier := NewAdMobVerifier(server.URL, time.Hour)

	message := "reward_amount=50"
	digest := sha256.Sum256([]byte(message))
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// 有些投遞帶 padding 的 websafe base64
	padded := base64.URLEncoding.EncodeToString(sig)
	ok, err := verifier.Verify(message, padded, "1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("padded signature rejected")
	}
}

func TestAdMobVerifierCachesKeys(t *testing.T) {
	priv, server, fetches := newKeyServer(t, 1)
	verifier := NewAdMobVerifier(server.URL, time.Hour)

	message := "reward_amount=50"
	signature := signMessage(t, priv, message)

	for i := 0; i < 5; i++ {
		if _, err := verifier.Verify(message, signature, "1"); err != nil {
			t.Fatalf("Verify %d: %v", i, err)
		}
	}
	if *fetches != 1 {
		t.Errorf("key endpoint fetched %d times, want 1", *fetches)
	}
}

func TestAdMobVerifierUsesStaleCacheOnRefreshFailure(t *testing.T) {
	priv, server, _ := newKeyServer(t, 1)
	// TTL 設為 0，每次驗證都會嘗試更新
	verifier := NewAdMobVerifier(server.URL, 0)

	message := "reward_amount=50"
	signature := signMessage(t, priv, message)

	if ok, err := verifier.Verify(message, signature, "1"); err != nil || !ok {
		t.Fatalf("initial Verify: ok=%v err=%v", ok, err)
	}

	// 金鑰端點掛掉後沿用過期快取
	server.Close()
	ok, err := verifier.Verify(message, signature, "1")
	if err != nil {
		t.Fatalf("Verify with stale cache: %v", err)
	}
	if !ok {
		t.Error("valid signature rejected after endpoint failure")
	}
}

func TestAdMobVerifierNoKeysAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	verifier := NewAdMobVerifier(server.URL, time.Hour)
	if _, err := verifier.Verify("m", "c2ln", "1"); err == nil {
		t.Error("expected error when no keys can be fetched")
	}
}
