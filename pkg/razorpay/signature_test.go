package razorpay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpectedSignatureIsDeterministic(t *testing.T) {
	t.Parallel()

	first := ExpectedSignature("secret", "order_abc", "pay_xyz")
	second := ExpectedSignature("secret", "order_abc", "pay_xyz")
	require.Equal(t, first, second)
	require.Len(t, first, 64)
}

func TestVerifySignatureAcceptsGenuine(t *testing.T) {
	t.Parallel()

	sig := ExpectedSignature("secret", "order_abc", "pay_xyz")
	require.True(t, VerifySignature("secret", "order_abc", "pay_xyz", sig))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	t.Parallel()

	sig := ExpectedSignature("secret", "order_abc", "pay_xyz")

	require.False(t, VerifySignature("secret", "order_abc", "pay_other", sig))
	require.False(t, VerifySignature("secret", "order_other", "pay_xyz", sig))
	require.False(t, VerifySignature("other-secret", "order_abc", "pay_xyz", sig))

	tampered := sig[:len(sig)-1] + flipHexChar(sig[len(sig)-1])
	require.False(t, VerifySignature("secret", "order_abc", "pay_xyz", tampered))
}

func TestVerifySignatureIsCaseSensitive(t *testing.T) {
	t.Parallel()

	sig := ExpectedSignature("secret", "order_abc", "pay_xyz")
	upper := strings.ToUpper(sig)
	if upper != sig {
		require.False(t, VerifySignature("secret", "order_abc", "pay_xyz", upper))
	}
}

func TestVerifySignatureRejectsMissingFields(t *testing.T) {
	t.Parallel()

	sig := ExpectedSignature("secret", "order_abc", "pay_xyz")
	require.False(t, VerifySignature("secret", "", "pay_xyz", sig))
	require.False(t, VerifySignature("secret", "order_abc", "", sig))
	require.False(t, VerifySignature("secret", "order_abc", "pay_xyz", ""))
	require.False(t, VerifySignature("", "order_abc", "pay_xyz", sig))
}

func flipHexChar(c byte) string {
	if c == '0' {
		return "1"
	}
	return "0"
}
