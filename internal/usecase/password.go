package usecase

import "golang.org/x/crypto/bcrypt"

// passwordCost matches the work factor the platform has always used; bumping
// it only affects newly hashed passwords.
const passwordCost = 10

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// verifyPassword reports whether plain matches hash. A malformed or empty
// hash verifies false rather than erroring.
func verifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
