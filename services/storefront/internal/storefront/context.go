package storefront

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
)

const bearerPrefix = "Bearer "

// bearerToken returns the customer token of r, empty when absent.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) <= len(bearerPrefix) || !strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(bearerPrefix):])
}

// ownerKey identifies the holder of token without keeping the token.
func ownerKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// HintKey is where the delivery-time hint of a customer lives. The
// customer id is preferred so the hint survives a new login.
func HintKey(customerID int64, owner string) string {
	if customerID > 0 {
		return "customer:" + strconv.FormatInt(customerID, 10)
	}
	return "owner:" + owner
}
