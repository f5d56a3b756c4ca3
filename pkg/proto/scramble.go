package proto

import "crypto/sha1"

// HashPassword computes H1 = SHA1(password), the value SessionCreds
// stores in place of the real password.
func HashPassword(password string) [sha1.Size]byte {
	return sha1.Sum([]byte(password))
}

// ScrambleNativePassword computes the mysql_native_password response to a
// server scramble S given the cached H1 = SHA1(real_password):
//
//	H2 = SHA1(H1)
//	X  = SHA1(S || H2)
//	out = H1 XOR X
//
// The result is always 20 bytes, even for a zero h1; the "no password"
// case (an empty response) is handled by callers such as Creds.Scramble.
func ScrambleNativePassword(serverScramble [20]byte, h1 [sha1.Size]byte) [sha1.Size]byte {
	h2 := sha1.Sum(h1[:])
	x := sha1.Sum(append(append([]byte{}, serverScramble[:]...), h2[:]...))
	var out [sha1.Size]byte
	for i := range out {
		out[i] = h1[i] ^ x[i]
	}
	return out
}
