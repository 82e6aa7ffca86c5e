package hashing

import (
	"crypto/sha512"
	"encoding/hex"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

// Initialize sets the package logger. Safe to call more than once.
func Initialize(log *zap.Logger) {
	logger = log
}

// Calculate returns the hex encoded SHA-512 of data. Used for identity
// address derivation, PIN pre-hashing and fulfillment digests.
func Calculate(data []byte) string {
	hash := sha512.New()
	if _, err := hash.Write(data); err != nil {
		// sha512.Write never returns an error, keep it observable anyway
		logger.Error("failed to write data to the hash function: " + err.Error())
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))
}

func CalculateFromStr(data string) string {
	return Calculate([]byte(data))
}
