package signkeys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"medrecord-registry/internal/hashing"
	"medrecord-registry/internal/model"
)

// addressLength is the number of hex chars of the public key hash used as
// the platform identity.
const addressLength = 64

type UserKeys struct {
	PrivateKey *secp256k1.PrivateKey
	PublicKey  *secp256k1.PublicKey
}

func GenerateKeys() (UserKeys, error) {
	key, err := ecdsa.GenerateKey(btcec.S256(), rand.Reader)
	if err != nil {
		return UserKeys{}, errors.New("failed to generate the keys: " + err.Error())
	}

	privkey := make([]byte, 32)
	blob := key.D.Bytes()
	copy(privkey[32-len(blob):], blob)

	private := secp256k1.PrivKeyFromBytes(privkey)

	return UserKeys{
		PrivateKey: private,
		PublicKey:  private.PubKey(),
	}, nil
}

func (u UserKeys) Valid() bool {
	return u.PrivateKey != nil && u.PublicKey != nil
}

// PublicHex returns the hex encoded uncompressed public key.
func (u UserKeys) PublicHex() string {
	return hex.EncodeToString(u.PublicKey.SerializeUncompressed())
}

// Address derives the platform identity of the key holder.
func (u UserKeys) Address() model.Identity {
	return AddressFromPublicHex(u.PublicHex())
}

// AddressFromPublicHex maps a hex encoded public key to its identity
// address: the first 64 hex chars of the key's SHA-512.
func AddressFromPublicHex(publicHex string) model.Identity {
	return model.Identity(hashing.CalculateFromStr(publicHex)[:addressLength])
}

// Sign signs the given digest, returning a hex encoded DER signature.
func (u UserKeys) Sign(digest []byte) string {
	signature := secpecdsa.Sign(u.PrivateKey, digest)
	return hex.EncodeToString(signature.Serialize())
}

// Verify checks a hex encoded DER signature over digest against the
// uncompressed hex public key.
func Verify(publicHex string, digest []byte, signatureHex string) error {
	pubBytes, err := hex.DecodeString(publicHex)
	if err != nil {
		return errors.New("failed to decode the public key: " + err.Error())
	}

	public, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return errors.New("failed to parse the public key: " + err.Error())
	}

	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return errors.New("failed to decode the signature: " + err.Error())
	}

	signature, err := secpecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return errors.New("failed to parse the signature: " + err.Error())
	}

	if !signature.Verify(digest, public) {
		return errors.New("signature does not match the given key")
	}

	return nil
}
