package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short URL-safe identifier, used for registration
// reference codes and storage object keys.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateCode returns an uppercase human-readable reference code, e.g. a
// check-in code printed on a registration confirmation.
func GenerateCode() string {
	code, err := gonanoid.Generate("0123456789ABCDEFGHJKLMNPQRSTUVWXYZ", 8)
	if err != nil {
		return ""
	}
	return code
}
