package iyzico

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

// authorization builds the IYZWSv2 header for one request: an HMAC-SHA256
// signature over randomKey + request path + body, wrapped in base64.
func (p *Provider) authorization(path string, body []byte) (header, randomKey string) {
	randomKey = fmt.Sprintf("%d%s", time.Now().UnixMilli(), randomHex(4))

	mac := hmac.New(sha256.New, []byte(p.cfg.SecretKey))
	mac.Write([]byte(randomKey))
	mac.Write([]byte(path))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	raw := "apiKey:" + p.cfg.APIKey + "&randomKey:" + randomKey + "&signature:" + signature
	return "IYZWSv2 " + base64.StdEncoding.EncodeToString([]byte(raw)), randomKey
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
