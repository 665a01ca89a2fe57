package utils

import "golang.org/x/crypto/bcrypt"

// passwordCost is bcrypt's default; raise only with a migration plan since
// existing hashes keep the cost they were created with.
const passwordCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext account password for storage. The bcrypt
// output embeds its own salt, so equal inputs yield distinct hashes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// An empty or malformed hash never matches.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
