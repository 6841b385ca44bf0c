// Package credentials derives and verifies salted password hashes and
// issues the opaque bearer tokens used as session credentials.
package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/argon2"
)

const (
	SaltLength  = 16
	TokenLength = 64

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// argon2id parameters
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// ErrPasswordUnchanged is returned by Rotate when the new password hashes
// the same as the previous one.
var ErrPasswordUnchanged = errors.New("новый пароль совпадает с текущим")

// Credentials is the security triple stored with an account.
type Credentials struct {
	Salt  string
	Hash  string
	Token string
}

// Derive is deterministic: the same password and salt always give the same hash.
func Derive(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.StdEncoding.EncodeToString(key)
}

func IssueSalt() (string, error) {
	return randomString(SaltLength)
}

func IssueToken() (string, error) {
	return randomString(TokenLength)
}

// Verify recomputes the hash of password with salt and compares it in constant time.
func Verify(password, salt, hash string) bool {
	derived := Derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}

// New builds the credentials of a freshly registered account.
func New(password string) (*Credentials, error) {
	salt, err := IssueSalt()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации соли: %w", err)
	}

	token, err := IssueToken()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токена: %w", err)
	}

	return &Credentials{
		Salt:  salt,
		Hash:  Derive(password, salt),
		Token: token,
	}, nil
}

// Rotate issues a new salt, hash and token for next. Both passwords are
// hashed with the new salt; equal hashes mean the password did not change.
func Rotate(previous, next string) (*Credentials, error) {
	salt, err := IssueSalt()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации соли: %w", err)
	}

	nextHash := Derive(next, salt)
	if subtle.ConstantTimeCompare([]byte(Derive(previous, salt)), []byte(nextHash)) == 1 {
		return nil, ErrPasswordUnchanged
	}

	token, err := IssueToken()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токена: %w", err)
	}

	return &Credentials{
		Salt:  salt,
		Hash:  nextHash,
		Token: token,
	}, nil
}

func randomString(length int) (string, error) {
	size := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}

	return string(b), nil
}
