// Package gpg verifies detached PGP signatures over fetched manifests.
package gpg

import (
	"fmt"
	"os"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
)

const maxKeyFileSize = 1 * 1024 * 1024 // keys and signatures are small

// KeyRing verifies detached signatures against a set of trusted keys.
type KeyRing interface {
	VerifyDetached(message []byte, signature []byte) error
}

// PGPKeyRing implements KeyRing using gopenpgp.
type PGPKeyRing struct {
	keyRing *crypto.KeyRing
}

// NewKeyRingFromArmored builds a keyring from one or more
// ASCII-armored public keys.
func NewKeyRingFromArmored(armoredKeys ...string) (*PGPKeyRing, error) {
	if len(armoredKeys) == 0 {
		return nil, fmt.Errorf("no armored keys provided")
	}

	var ring *crypto.KeyRing
	for i, armored := range armoredKeys {
		key, err := crypto.NewKeyFromArmored(armored)
		if err != nil {
			return nil, fmt.Errorf("failed to parse armored key at index %d: %w", i, err)
		}
		if ring == nil {
			ring, err = crypto.NewKeyRing(key)
		} else {
			err = ring.AddKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to add key at index %d to keyring: %w", i, err)
		}
	}
	return &PGPKeyRing{keyRing: ring}, nil
}

// NewKeyRingFromFile builds a keyring from an armored public key file.
func NewKeyRingFromFile(path string) (*PGPKeyRing, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access key file: %w", err)
	}
	if info.Size() > maxKeyFileSize {
		return nil, fmt.Errorf("key file exceeds maximum allowed size of %d bytes", maxKeyFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return NewKeyRingFromArmored(string(data))
}

// VerifyDetached checks a detached signature over message. Armored
// signatures are tried first, then binary.
func (r *PGPKeyRing) VerifyDetached(message []byte, signature []byte) error {
	if r.keyRing == nil {
		return fmt.Errorf("no keys in keyring")
	}

	plain := crypto.NewPlainMessage(message)
	sig, err := crypto.NewPGPSignatureFromArmored(string(signature))
	if err != nil {
		sig = crypto.NewPGPSignature(signature)
	}

	if err := r.keyRing.VerifyDetached(plain, sig, crypto.GetUnixTime()); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

// VerifyDetachedFile verifies the signature file at sigPath over the
// contents of dataPath.
func VerifyDetachedFile(ring KeyRing, dataPath, sigPath string) error {
	if ring == nil {
		return fmt.Errorf("keyring cannot be nil")
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}
	sig, err := os.ReadFile(sigPath)
	if err != nil {
		return fmt.Errorf("failed to read signature file: %w", err)
	}
	return ring.VerifyDetached(data, sig)
}
