package digistore

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

const SignatureField = "sha_sign"

// RequiredFields must all be present for a notification to verify.
var RequiredFields = []string{
	"event",
	"custom",
	"transaction_id",
	"receipt_url",
	"transaction_amount",
	"transaction_currency",
}

// Sign hashes every field except sha_sign, ordered by key, each value followed by "|",
// then the secret. Values are not escaped, so a value containing "|" can collide
// with a different field split.
func Sign(fields map[string]string, secret string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == SignatureField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fields[k])
		b.WriteByte('|')
	}
	b.WriteString(secret)

	sum := sha512.Sum512([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(fields map[string]string, secret string) bool {
	provided, ok := fields[SignatureField]
	if !ok || provided == "" {
		return false
	}

	for _, f := range RequiredFields {
		if _, ok := fields[f]; !ok {
			return false
		}
	}

	expected := Sign(fields, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
