package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignPayment computes the gateway's payment signature: the hex encoded
// HMAC-SHA256 of "{orderID}|{paymentID}" keyed by the account's key secret.
func SignPayment(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the valid signature for the
// (orderID, paymentID) pair. This is the sole authentication on the payment
// confirmation channel, so the comparison is constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := SignPayment(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
