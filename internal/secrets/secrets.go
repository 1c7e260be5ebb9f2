// テナントごとの決済プロバイダsecretを保存時に暗号化する。
// 鍵はPLATFORM_MASTER_KEYからscryptで導出し、AES-256-GCMで包む。
// 保存形式: base64(salt || nonce || ciphertext)
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen = 16
	keyLen  = 32
)

var ErrInvalidCiphertext = errors.New("invalid ciphertext")

type Box struct {
	masterKey []byte
}

func NewBox(masterKey string) (*Box, error) {
	if masterKey == "" {
		return nil, errors.New("master key is empty")
	}
	return &Box{masterKey: []byte(masterKey)}, nil
}

func (b *Box) deriveKey(salt []byte) ([]byte, error) {
	//scryptの標準パラメータ（N=2^15）
	return scrypt.Key(b.masterKey, salt, 1<<15, 8, 1, keyLen)
}

func (b *Box) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := b.deriveKey(salt)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	out := make([]byte, 0, saltLen+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)

	return base64.StdEncoding.EncodeToString(out), nil
}

func (b *Box) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(raw) < saltLen {
		return "", ErrInvalidCiphertext
	}

	salt := raw[:saltLen]
	key, err := b.deriveKey(salt)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	rest := raw[saltLen:]
	if len(rest) < gcm.NonceSize() {
		return "", ErrInvalidCiphertext
	}
	nonce := rest[:gcm.NonceSize()]
	sealed := rest[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plain), nil
}
