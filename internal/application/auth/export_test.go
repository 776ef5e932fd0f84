package auth

// SetCompareHash reemplaza la verificación bcrypt durante un test.
func SetCompareHash(f func(hash, password []byte) error) (restore func()) {
	prev := compareHash
	compareHash = f
	return func() { compareHash = prev }
}
