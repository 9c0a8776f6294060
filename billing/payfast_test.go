package billing

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestSignature(t *testing.T) {
	fields := []Pair{
		{Key: "merchant_id", Value: "10000100"},
		{Key: "item_name", Value: "PDFFusion Pro Monthly"},
		{Key: "email_address", Value: ""},
		{Key: "amount", Value: " 99.00 "},
	}

	want := md5Hex("merchant_id=10000100&item_name=PDFFusion+Pro+Monthly&amount=99.00")
	assert.Equal(t, want, Signature(fields, ""))

	wantWithPass := md5Hex("merchant_id=10000100&item_name=PDFFusion+Pro+Monthly&amount=99.00&passphrase=jt7NOE43FZPn")
	assert.Equal(t, wantWithPass, Signature(fields, "jt7NOE43FZPn"))
}

func TestSignatureDependsOnOrder(t *testing.T) {
	a := []Pair{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	b := []Pair{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}}
	assert.NotEqual(t, Signature(a, ""), Signature(b, ""))
}

// A notification as PayFast posts it, with the empty fields it always sends
const notificationBody = "m_payment_id=sub-01&pf_payment_id=1089250&payment_status=COMPLETE" +
	"&item_name=PDFFusion+Pro+Monthly&item_description=&amount_gross=99.00&amount_fee=-2.28" +
	"&amount_net=96.72&custom_str1=user-42&custom_str2=&name_first=&name_last=" +
	"&email_address=buyer%40example.com&merchant_id=10000100"

func TestParseAndVerify(t *testing.T) {
	// md5 of notificationBody + "&passphrase=secret"
	body := notificationBody + "&signature=b5d4b916531bc9baa2d7de243616d073"

	itn, err := ParseITN(body)
	require.NoError(t, err)
	assert.Equal(t, "PDFFusion Pro Monthly", itn.Get("item_name"))
	assert.Equal(t, "buyer@example.com", itn.Get("email_address"))
	assert.True(t, itn.Complete())
	assert.NoError(t, itn.Verify("secret"))
	assert.ErrorIs(t, itn.Verify("wrong"), ErrSignatureMismatch)

	tampered, err := ParseITN(strings.Replace(body, "amount_gross=99.00", "amount_gross=1.00", 1))
	require.NoError(t, err)
	assert.ErrorIs(t, tampered.Verify("secret"), ErrSignatureMismatch)
}

func TestVerifyWithoutPassphrase(t *testing.T) {
	itn, err := ParseITN(notificationBody + "&signature=3e0a33f3dde7c8e365cea45cd95f5af7")
	require.NoError(t, err)
	assert.NoError(t, itn.Verify(""))
}

func TestVerifyIgnoresFieldsAfterSignature(t *testing.T) {
	itn, err := ParseITN(notificationBody + "&signature=B5D4B916531BC9BAA2D7DE243616D073&extra=1")
	require.NoError(t, err)
	assert.NoError(t, itn.Verify("secret"))
}

func TestFormSignatureDiffersFromNotificationSignature(t *testing.T) {
	itn, err := ParseITN(notificationBody)
	require.NoError(t, err)
	assert.NotEqual(t, "b5d4b916531bc9baa2d7de243616d073", Signature(itn.Fields, "secret"))
}

func TestURLEncode(t *testing.T) {
	assert.Equal(t, "a+b%7Ec%26d", urlencode("a b~c&d"))
}

func TestVerifyMissingSignature(t *testing.T) {
	itn, err := ParseITN("payment_status=FAILED")
	require.NoError(t, err)
	assert.False(t, itn.Complete())
	assert.ErrorIs(t, itn.Verify(""), ErrMissingSignature)
}

func TestParseITNInvalidEscape(t *testing.T) {
	_, err := ParseITN("item_name=%zz")
	assert.Error(t, err)
}
