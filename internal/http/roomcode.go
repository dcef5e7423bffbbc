package httpx

import "math/rand/v2"

const roomCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRoomCode produces an opaque lowercase-alphanumeric room
// code. Codes are not reserved: two visitors could in principle land
// on the same fresh code and would simply share the room.
func GenerateRoomCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
	}
	return string(b)
}
