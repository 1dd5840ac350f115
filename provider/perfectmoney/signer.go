package perfectmoney

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Callback field names sent by the provider
const (
	FieldPaymentID       = "PAYMENT_ID"
	FieldPayeeAccount    = "PAYEE_ACCOUNT"
	FieldPaymentAmount   = "PAYMENT_AMOUNT"
	FieldPaymentUnits    = "PAYMENT_UNITS"
	FieldPaymentBatchNum = "PAYMENT_BATCH_NUM"
	FieldPayerAccount    = "PAYER_ACCOUNT"
	FieldTimestampGMT    = "TIMESTAMPGMT"
	FieldV2Hash          = "V2_HASH"
)

// signedFields lists the callback fields covered by V2_HASH, in wire order.
// The secret hash goes between PAYER_ACCOUNT and TIMESTAMPGMT.
var signedFields = []string{
	FieldPaymentID,
	FieldPayeeAccount,
	FieldPaymentAmount,
	FieldPaymentUnits,
	FieldPaymentBatchNum,
	FieldPayerAccount,
	FieldTimestampGMT,
}

func md5Upper(data string) string {
	sum := md5.Sum([]byte(data))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// HashSecret derives the secret hash from the account's alternate passphrase
func HashSecret(alternateSecret string) string {
	return md5Upper(alternateSecret)
}

// CallbackSignature computes V2_HASH for a callback
func CallbackSignature(paymentID, payeeAccount, paymentAmount, paymentUnits, paymentBatchNum, payerAccount, secretHash, timestampGMT string) string {
	return md5Upper(strings.Join([]string{
		paymentID,
		payeeAccount,
		paymentAmount,
		paymentUnits,
		paymentBatchNum,
		payerAccount,
		secretHash,
		timestampGMT,
	}, ":"))
}

// Signer verifies callbacks against a fixed secret hash
type Signer struct {
	secretHash string
}

// NewSigner hashes alternateSecret once; the result never changes
func NewSigner(alternateSecret string) *Signer {
	return &Signer{secretHash: HashSecret(alternateSecret)}
}

// Expected recomputes V2_HASH for a notification. ok is false when any
// signed field is missing.
func (s *Signer) Expected(notification map[string]string) (hash string, ok bool) {
	values := make([]string, len(signedFields))
	for i, field := range signedFields {
		value, exists := notification[field]
		if !exists {
			return "", false
		}
		values[i] = value
	}

	return CallbackSignature(values[0], values[1], values[2], values[3], values[4], values[5], s.secretHash, values[6]), true
}

// Verify reports whether the notification carries all signed fields and a
// matching V2_HASH. The comparison is case-sensitive.
func (s *Signer) Verify(notification map[string]string) bool {
	received, exists := notification[FieldV2Hash]
	if !exists {
		return false
	}

	expected, ok := s.Expected(notification)
	if !ok {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}
