// Package acas defines the smart-card (ACAS/B-CAS) interface the core
// uses to decrypt ECMs and MMTP payloads, and a software-only default
// implementation. The real smart-card driver — PC/SC access to a
// physical card — is explicitly out of scope per spec.md §1; this
// package exists only to give the demuxer something to call so it is
// usable standalone and in tests without a card attached.
package acas

import "errors"

// EncryptionFlag selects which of the card's installed key pair to use,
// mirroring mmtp.EncryptionFlag without importing it (acas has no
// business knowing about MMTP framing).
type EncryptionFlag byte

const (
	KeyEven EncryptionFlag = 2
	KeyOdd  EncryptionFlag = 3
)

// ErrNotConnected is returned by Card operations attempted before Init
// and Connect have both succeeded.
var ErrNotConnected = errors.New("acas: card not connected")

// KeyPair is the scrambling key material recovered from the most
// recently decrypted ECM.
type KeyPair struct {
	Odd  []byte
	Even []byte
}

// Card is the smart-card device interface. Errors from any operation
// are logged and suppressed by the caller (DescramblerCoordinator) —
// broadcast continues unscrambled-but-not-yet-decodable on failure.
type Card interface {
	InitCard() error
	Connect() error
	// DecryptECM submits an Entitlement Control Message and, on
	// success, updates the key pair returned by LastDecryptedECM.
	DecryptECM(ecm []byte) error
	// Ready reports whether at least one ECM has been successfully
	// decrypted since the last Clear.
	Ready() bool
	// LastDecryptedECM returns the currently installed key pair. Only
	// meaningful when Ready() is true.
	LastDecryptedECM() KeyPair
	// Decrypt applies the currently installed key to payload in place,
	// selecting the odd or even key by flag.
	Decrypt(payload []byte, flag EncryptionFlag) error
	// Clear discards any installed key material and connection state.
	Clear()
}

// SoftwareCard is a Card implementation with no physical device: it
// derives key material deterministically from each ECM it is given
// (a stand-in for the real card's proprietary decryption) so that the
// rest of the pipeline — readiness gating, key installation and
// selection — is exercised without hardware.
type SoftwareCard struct {
	connected bool
	keys      KeyPair
	ready     bool
}

// NewSoftwareCard returns a disconnected SoftwareCard.
func NewSoftwareCard() *SoftwareCard {
	return &SoftwareCard{}
}

// InitCard implements Card.
func (c *SoftwareCard) InitCard() error { return nil }

// Connect implements Card.
func (c *SoftwareCard) Connect() error {
	c.connected = true
	return nil
}

// DecryptECM implements Card. It derives a deterministic 16-byte key
// pair from the ECM payload: each key is the first 16 ECM bytes
// (zero-padded) XORed with the parity flag plus the byte index, so the
// odd and even keys differ only by that flag.
func (c *SoftwareCard) DecryptECM(ecm []byte) error {
	if !c.connected {
		return ErrNotConnected
	}
	if len(ecm) < 1 {
		return errors.New("acas: empty ECM")
	}

	c.keys = KeyPair{
		Odd:  deriveKey(ecm, KeyOdd),
		Even: deriveKey(ecm, KeyEven),
	}
	c.ready = true
	return nil
}

// Ready implements Card.
func (c *SoftwareCard) Ready() bool { return c.ready }

// LastDecryptedECM implements Card.
func (c *SoftwareCard) LastDecryptedECM() KeyPair { return c.keys }

// Decrypt implements Card. The cipher here is a keystream XOR, not the
// real MULTI2/AES-based MMT content protection cipher — a faithful
// descrambler requires the physical card's proprietary algorithm, which
// is exactly the collaborator spec.md §1 places out of scope.
func (c *SoftwareCard) Decrypt(payload []byte, flag EncryptionFlag) error {
	if !c.ready {
		return errors.New("acas: not ready")
	}
	key := c.keys.Odd
	if flag == KeyEven {
		key = c.keys.Even
	}
	if len(key) == 0 {
		return errors.New("acas: no key installed for requested parity")
	}
	for i := range payload {
		payload[i] ^= key[i%len(key)]
	}
	return nil
}

// Clear implements Card.
func (c *SoftwareCard) Clear() {
	c.connected = false
	c.keys = KeyPair{}
	c.ready = false
}

func deriveKey(ecm []byte, flag EncryptionFlag) []byte {
	key := make([]byte, 16)
	seed := ecm
	if len(seed) > 16 {
		seed = seed[:16]
	}
	copy(key, seed)
	for i := range key {
		key[i] ^= byte(flag) + byte(i)
	}
	return key
}
