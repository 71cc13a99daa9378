package utils

import (
	"crypto/rand"
	"math/big"
)

// CodeCharset is the alphabet for quiz join codes. Uppercase letters and
// digits keep codes easy to read aloud and type.
const CodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateJoinCode returns a random code of n characters from CodeCharset.
func GenerateJoinCode(n int) string {
	max := big.NewInt(int64(len(CodeCharset)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = CodeCharset[idx.Int64()]
	}
	return string(buf)
}
