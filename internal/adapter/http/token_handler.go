package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/EnesMalik02/checkout-api/configs"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenHandler issues operator tokens for the payment-ops endpoints. The
// single ops client comes from configuration; there is no client registry.
type TokenHandler struct {
	cfg configs.Config
}

func NewTokenHandler(cfg configs.Config) *TokenHandler {
	return &TokenHandler{cfg: cfg}
}

// POST /v1/token (form)
// Accepts: client_id, client_secret
func (h *TokenHandler) IssueToken(c *gin.Context) {
	clientID := c.PostForm("client_id")
	clientSecret := c.PostForm("client_secret")
	if clientID == "" || clientSecret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid client"})
		return
	}

	sec := h.cfg.Security
	if sec.OpsClientID == "" ||
		subtle.ConstantTimeCompare([]byte(clientID), []byte(sec.OpsClientID)) != 1 ||
		subtle.ConstantTimeCompare([]byte(clientSecret), []byte(sec.OpsClientSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid client"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      sec.Issuer,
		"aud":      sec.Audience,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(sec.TTL).Unix(),
		"clientID": clientID,
		"perms":    []string{"payments.write"},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(sec.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(sec.TTL.Seconds()),
	})
}
