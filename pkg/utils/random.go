package utils

import (
	"crypto/rand"
	"encoding/hex"
	"hash/fnv"
	mrand "math/rand"
)

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// StringToSeed превращает строку в стабильный сид (FNV-1a)
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// NewRand возвращает генератор, зависящий только от мастер-сида и имени.
// Добавление нового актора не сдвигает случайные последовательности остальных.
func NewRand(masterSeed int64, name string) *mrand.Rand {
	return mrand.New(mrand.NewSource(masterSeed ^ StringToSeed(name)))
}
