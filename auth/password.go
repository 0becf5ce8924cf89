package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is the minimum accepted password length on registration.
const MinPasswordLength = 6

// HashPassword derives an irreversible credential from a plaintext password.
// The plaintext is never persisted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored credential.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
