package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignPayment(t *testing.T) {
	t.Run("is hex encoded sha256 output", func(t *testing.T) {
		got := SignPayment("order_abc", "pay_xyz", "secret")

		assert.Len(t, got, 64)
		assert.Regexp(t, "^[0-9a-f]+$", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t,
			SignPayment("order_abc", "pay_xyz", "secret"),
			SignPayment("order_abc", "pay_xyz", "secret"),
		)
	})

	t.Run("different inputs give different signatures", func(t *testing.T) {
		base := SignPayment("order_abc", "pay_xyz", "secret")

		assert.NotEqual(t, base, SignPayment("order_abd", "pay_xyz", "secret"))
		assert.NotEqual(t, base, SignPayment("order_abc", "pay_xyw", "secret"))
		assert.NotEqual(t, base, SignPayment("order_abc", "pay_xyz", "secret2"))
	})

	t.Run("pipe separator matters", func(t *testing.T) {
		// "a|bc" and "ab|c" must not collide
		assert.NotEqual(t, SignPayment("a", "bc", "secret"), SignPayment("ab", "c", "secret"))
	})
}

func TestVerifySignature(t *testing.T) {
	t.Run("valid signature verifies", func(t *testing.T) {
		sig := SignPayment("order_abc", "pay_xyz", "secret")

		assert.True(t, VerifySignature("order_abc", "pay_xyz", sig, "secret"))
	})

	t.Run("tampered signature fails", func(t *testing.T) {
		sig := SignPayment("order_abc", "pay_xyz", "secret")
		tampered := []byte(sig)
		if tampered[0] == 'a' {
			tampered[0] = 'b'
		} else {
			tampered[0] = 'a'
		}

		assert.False(t, VerifySignature("order_abc", "pay_xyz", string(tampered), "secret"))
	})

	t.Run("signature for a different order fails", func(t *testing.T) {
		sig := SignPayment("order_other", "pay_xyz", "secret")

		assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, "secret"))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		sig := SignPayment("order_abc", "pay_xyz", "secret")

		assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, "other-secret"))
	})

	t.Run("empty signature fails", func(t *testing.T) {
		assert.False(t, VerifySignature("order_abc", "pay_xyz", "", "secret"))
	})
}
