package digistore

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "your_digistore_secret_key"

func signedFields() map[string]string {
	fields := map[string]string{
		"event":                "on_payment",
		"custom":               "shopify_order_1001",
		"transaction_id":       "T-42",
		"receipt_url":          "https://www.digistore24.com/receipt/42",
		"transaction_amount":   "27.00",
		"transaction_currency": "EUR",
		"order_id":             "ABC123",
	}
	fields[SignatureField] = Sign(fields, testSecret)
	return fields
}

func TestSign_SortedPipeJoinedSHA512(t *testing.T) {
	fields := map[string]string{
		"b":             "2",
		"a":             "1",
		"C":             "upper",
		SignatureField: "ignored",
	}

	sum := sha512.Sum512([]byte("upper|1|2|" + "s3cr3t"))
	expected := hex.EncodeToString(sum[:])

	assert.Equal(t, expected, Sign(fields, "s3cr3t"))
	assert.Equal(t, strings.ToLower(expected), expected)
}

func TestVerifySignature_Valid(t *testing.T) {
	assert.True(t, VerifySignature(signedFields(), testSecret))
}

func TestVerifySignature_UnknownFieldsArePartOfSignature(t *testing.T) {
	fields := signedFields()
	fields["new_field"] = "x"
	assert.False(t, VerifySignature(fields, testSecret))

	fields[SignatureField] = Sign(fields, testSecret)
	assert.True(t, VerifySignature(fields, testSecret))
}

func TestVerifySignature_SingleCharacterMutation(t *testing.T) {
	for key := range signedFields() {
		if key == SignatureField {
			continue
		}
		t.Run(key, func(t *testing.T) {
			fields := signedFields()
			fields[key] = fields[key] + "x"
			assert.False(t, VerifySignature(fields, testSecret))

			fields = signedFields()
			v := []byte(fields[key])
			v[0] ^= 0x01
			fields[key] = string(v)
			assert.False(t, VerifySignature(fields, testSecret))
		})
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	fields := signedFields()
	assert.False(t, VerifySignature(fields, testSecret+"x"))
	assert.False(t, VerifySignature(fields, "your_digistore_secret_keY"))
	assert.False(t, VerifySignature(fields, ""))
}

func TestVerifySignature_CaseSensitive(t *testing.T) {
	fields := signedFields()
	fields[SignatureField] = strings.ToUpper(fields[SignatureField])
	assert.False(t, VerifySignature(fields, testSecret))
}

func TestVerifySignature_MissingFields(t *testing.T) {
	fields := signedFields()
	delete(fields, SignatureField)
	assert.False(t, VerifySignature(fields, testSecret))

	fields = signedFields()
	fields[SignatureField] = ""
	assert.False(t, VerifySignature(fields, testSecret))

	for _, required := range RequiredFields {
		t.Run(required, func(t *testing.T) {
			fields := signedFields()
			delete(fields, required)
			fields[SignatureField] = Sign(fields, testSecret)
			assert.False(t, VerifySignature(fields, testSecret))
		})
	}

	assert.False(t, VerifySignature(nil, testSecret))
}
