package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// ComputeSignature builds the gateway's keyed hash over order code, status
// code and gross amount. The server key never travels over the wire; a
// notification is authentic only if its sender knew the key.
func ComputeSignature(orderCode, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderCode + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(orderCode, statusCode, grossAmount, serverKey, signature string) bool {
	expected := ComputeSignature(orderCode, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
