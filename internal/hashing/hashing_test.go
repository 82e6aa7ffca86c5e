package hashing_test

import (
	"medrecord-registry/internal/hashing"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// python script for obtaining hash, the hash output need to match
// // // // // // // // // // // // // // // // // // //
// import hashlib

// def hash(data):
//     return hashlib.sha512(data.encode()).hexdigest()
// // // // // // // // // // // // // // // // // // //

func TestHashing(t *testing.T) {
	text := "routine checkup"
	data := []byte(text)

	hashing.Initialize(zap.NewNop())
	output := hashing.Calculate(data)
	assert.Equal(t,
		"57f68c9ccce4afe8456022622b062a7377081f039af885a5811c3910a86eaaeac7a84ae24c5b0ec35082f51c3e7cd4a16fc2894ce543b1f3f6e4f90790723f2b",
		output)
}

func TestHashing2Times(t *testing.T) {
	hashing.Initialize(zap.NewNop())

	text := "routine checkup"
	output := hashing.Calculate([]byte(text))
	assert.Equal(t,
		"57f68c9ccce4afe8456022622b062a7377081f039af885a5811c3910a86eaaeac7a84ae24c5b0ec35082f51c3e7cd4a16fc2894ce543b1f3f6e4f90790723f2b",
		output)

	text = "acute bronchitis"
	output = hashing.Calculate([]byte(text))
	assert.Equal(t,
		"aa163ea999af6d757aaf71111721d82ad630479f5cb5d67eaa07efa22740de1c09c54d2743d029cdc7978067880f5dc4fe6118534c52b42046e14a83b9810270",
		output)
}

func TestHashingFromStr(t *testing.T) {
	hashing.Initialize(zap.NewNop())

	assert.Equal(t, hashing.Calculate([]byte("flu")), hashing.CalculateFromStr("flu"))
}
