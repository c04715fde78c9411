package cookie

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize = 32

	signInfo    = "authflow-cookie-sign-v1"
	encryptInfo = "authflow-cookie-encrypt-v1"
)

// keyPair holds the per-secret keys. Signing and encryption never share key material.
type keyPair struct {
	sign    []byte
	encrypt []byte
}

func deriveKeys(secret string) (keyPair, error) {
	sign, err := derive(secret, signInfo)
	if err != nil {
		return keyPair{}, err
	}
	enc, err := derive(secret, encryptInfo)
	if err != nil {
		return keyPair{}, err
	}
	return keyPair{sign: sign, encrypt: enc}, nil
}

func derive(secret, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, keySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}
