package service

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// AdMobVerifier 以 AdMob 定期輪替並公開發布的公鑰驗證 SSV 簽名。
//
// 公鑰以 TTL 快取：過期後第一個請求觸發更新，singleflight 確保
// 併發請求不會同時打爆金鑰端點；更新失敗時沿用過期的快取，
// 而不是讓所有驗證請求一起失敗。
type AdMobVerifier struct {
	keysURL string
	ttl     time.Duration
	client  *http.Client

	mu        sync.RWMutex
	keys      map[string]*ecdsa.PublicKey
	fetchedAt time.Time

	group singleflight.Group
}

func NewAdMobVerifier(keysURL string, ttl time.Duration) *AdMobVerifier {
	return &AdMobVerifier{
		keysURL: keysURL,
		ttl:     ttl,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify 以 key_id 對應的公鑰做 ECDSA-SHA256 驗證。
// 找不到對應公鑰或簽名不符都回傳 false；只有拿不到任何公鑰才回傳錯誤。
func (v *AdMobVerifier) Verify(message, signature, keyID string) (bool, error) {
	keys, err := v.currentKeys()
	if err != nil {
		return false, err
	}

	pub, ok := keys[keyID]
	if !ok {
		return false, nil
	}

	// AdMob 的簽名是 websafe base64，可能不帶 padding
	sig, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(signature, "="))
	if err != nil {
		return false, nil
	}

	digest := sha256.Sum256([]byte(message))
	return ecdsa.VerifyASN1(pub, digest[:], sig), nil
}

// currentKeys 回傳快取中的公鑰，必要時觸發更新
func (v *AdMobVerifier) currentKeys() (map[string]*ecdsa.PublicKey, error) {
	v.mu.RLock()
	keys, fetchedAt := v.keys, v.fetchedAt
	v.mu.RUnlock()

	if keys != nil && time.Since(fetchedAt) < v.ttl {
		return keys, nil
	}

	result, err, _ := v.group.Do("refresh", func() (interface{}, error) {
		fresh, err := v.fetchKeys()
		if err != nil {
			return nil, err
		}
		v.mu.Lock()
		v.keys = fresh
		v.fetchedAt = time.Now()
		v.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		// 更新失敗時沿用過期快取
		if keys != nil {
			log.Printf("admob key refresh failed, using stale cache: %v", err)
			return keys, nil
		}
		return nil, err
	}
	return result.(map[string]*ecdsa.PublicKey), nil
}

// adMobKeySet 對應金鑰端點回傳的 JSON 結構
type adMobKeySet struct {
	Keys []struct {
		KeyID  int64  `json:"keyId"`
		Pem    string `json:"pem"`
		Base64 string `json:"base64"`
	} `json:"keys"`
}

func (v *AdMobVerifier) fetchKeys() (map[string]*ecdsa.PublicKey, error) {
	resp, err := v.client.Get(v.keysURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch public keys: status %d", resp.StatusCode)
	}

	var keySet adMobKeySet
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return nil, fmt.Errorf("failed to decode public keys: %w", err)
	}

	keys := make(map[string]*ecdsa.PublicKey, len(keySet.Keys))
	for _, k := range keySet.Keys {
		block, _ := pem.Decode([]byte(k.Pem))
		if block == nil {
			log.Printf("skipping admob key %d: invalid pem", k.KeyID)
			continue
		}
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			log.Printf("skipping admob key %d: %v", k.KeyID, err)
			continue
		}
		pub, ok := parsed.(*ecdsa.PublicKey)
		if !ok {
			log.Printf("skipping admob key %d: not an ecdsa key", k.KeyID)
			continue
		}
		keys[fmt.Sprintf("%d", k.KeyID)] = pub
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no usable public keys in response")
	}
	return keys, nil
}
