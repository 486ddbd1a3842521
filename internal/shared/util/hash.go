package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignHex returns the hex HMAC-SHA256 of msg under secret.
func SignHex(secret []byte, msg string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHex reports whether sig is the SignHex of msg, in constant time.
func VerifyHex(secret []byte, msg, sig string) bool {
	return hmac.Equal([]byte(SignHex(secret, msg)), []byte(sig))
}
