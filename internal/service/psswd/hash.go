// Package psswd хэширует пароли по схеме HMAC-SHA512: для каждого юзера
// генерируется случайный ключ, он же хранится рядом с дайджестом как соль.
package psswd

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
)

const saltLength = 64

type PasswordHash struct{}

// HashPassword возвращает дайджест пароля и сгенерированную соль.
func (p PasswordHash) HashPassword(password string) (hash []byte, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, randErr := rand.Read(salt); randErr != nil {
		return nil, nil, fmt.Errorf("generating password salt: %s", randErr.Error())
	}

	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil), salt, nil
}

// ComparePassword пересчитывает дайджест с сохраненной солью и сравнивает
// за константное время.
func (p PasswordHash) ComparePassword(password string, hash []byte, salt []byte) bool {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return hmac.Equal(mac.Sum(nil), hash)
}
