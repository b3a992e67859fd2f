package pkg

import "golang.org/x/crypto/bcrypt"

const secretHashCost = 14

// HashSecret bcrypt-hashes a shared secret, e.g. the identity provider callback secret,
// so only the hash has to live in the environment.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), secretHashCost)
	return BytesToString(bytes), err
}

func CheckSecretHash(secret, hash string) bool {
	if secret == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
