package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// GenerateRandomString draws length characters from charset using crypto/rand.
func GenerateRandomString(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(fmt.Sprintf("failed to generate random string: %v", err))
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

// GenerateVerificationCode returns a uniformly random numeric code of the
// given length. Leading zeros are preserved: the code is a string, never a
// number.
func GenerateVerificationCode(length int) string {
	return GenerateRandomString(length, "0123456789")
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Seconds() + 0.5)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
