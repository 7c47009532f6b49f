// AngelaMos | 2026
// code.go

package referral

import (
	"crypto/rand"
	"strings"
)

const (
	codeLength    = 12
	segmentLength = 4
	alphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateCode builds a 12-character referral code: four characters taken
// from the agent's name, four from the email's local part, and four random,
// all upper-cased. Non-alphanumeric characters in the inputs are skipped;
// short inputs are padded from the random pool.
func GenerateCode(name, email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder
	b.Grow(codeLength)

	writeSegment(&b, name)
	writeSegment(&b, local)

	for b.Len() < codeLength {
		b.WriteByte(randomChar())
	}

	return b.String()
}

func writeSegment(b *strings.Builder, source string) {
	written := 0
	for i := 0; i < len(source) && written < segmentLength; i++ {
		c := upper(source[i])
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
			written++
		}
	}

	for written < segmentLength {
		b.WriteByte(randomChar())
		written++
	}
}

// IsValidCode reports whether code is exactly 12 uppercase-alphanumeric
// characters.
func IsValidCode(code string) bool {
	if len(code) != codeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}

	return true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func randomChar() byte {
	var buf [1]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms
		return 'X'
	}
	return alphabet[int(buf[0])%len(alphabet)]
}
