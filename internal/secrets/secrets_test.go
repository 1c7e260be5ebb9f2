package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_RoundTrip(t *testing.T) {
	box, err := NewBox("master-key")
	assert.NoError(t, err)

	enc, err := box.Encrypt("provider-secret")
	assert.NoError(t, err)
	assert.NotEqual(t, "provider-secret", enc)

	dec, err := box.Decrypt(enc)
	assert.NoError(t, err)
	assert.Equal(t, "provider-secret", dec)
}

func TestBox_EncryptIsSalted(t *testing.T) {
	box, _ := NewBox("master-key")

	//同じ平文でもsalt/nonceで毎回違う暗号文になる
	a, err := box.Encrypt("same")
	assert.NoError(t, err)
	b, err := box.Encrypt("same")
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBox_WrongKey(t *testing.T) {
	box1, _ := NewBox("master-key-1")
	box2, _ := NewBox("master-key-2")

	enc, err := box1.Encrypt("secret")
	assert.NoError(t, err)

	_, err = box2.Decrypt(enc)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestBox_GarbageInput(t *testing.T) {
	box, _ := NewBox("master-key")

	_, err := box.Decrypt("not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = box.Decrypt("aGVsbG8=") //短すぎる
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestNewBox_EmptyKey(t *testing.T) {
	_, err := NewBox("")
	assert.Error(t, err)
}
