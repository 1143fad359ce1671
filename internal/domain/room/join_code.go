package room

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// JoinCodeAlphabet omits characters that are easy to confuse (0/O, 1/I).
const (
	JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	JoinCodeLength   = 6
)

// JoinCodeGenerator produces candidate join codes. Uniqueness is checked by
// the caller against the repository.
type JoinCodeGenerator interface {
	NewJoinCode() (string, error)
}

type RandomJoinCodes struct{}

func (RandomJoinCodes) NewJoinCode() (string, error) {
	size := big.NewInt(int64(len(JoinCodeAlphabet)))
	buf := make([]byte, JoinCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generate join code: %w", err)
		}
		buf[i] = JoinCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func ValidJoinCode(code string) bool {
	if len(code) != JoinCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(JoinCodeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
