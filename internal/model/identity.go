package model

// Identity is the hex address of a platform account, as derived by the
// signkeys package from a secp256k1 public key. The substrate guarantees
// that the caller identity attached to a request is authenticated.
type Identity string

func (i Identity) IsZero() bool {
	return i == ""
}

func (i Identity) String() string {
	return string(i)
}
