package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("VerifyOTP", func(t *testing.T) {
		r, err := Render(VerifyOTP("ann@example.com", "Ann", "048213"))
		require.NoError(t, err)
		assert.Equal(t, "Your Verification OTP", r.Subject)
		assert.Contains(t, r.Text, "Hello Ann,")
		assert.Contains(t, r.Text, "048213")
		assert.Contains(t, r.Text, "10 minutes")
		assert.Contains(t, r.HTML, "<strong>048213</strong>")
	})

	t.Run("ResetOTP", func(t *testing.T) {
		r, err := Render(ResetOTP("ann@example.com", "Ann", "777111"))
		require.NoError(t, err)
		assert.Equal(t, "Your Password Reset OTP", r.Subject)
		assert.Contains(t, r.Text, "777111")
	})

	t.Run("Welcome", func(t *testing.T) {
		r, err := Render(Welcome("ann@example.com", "Ann"))
		require.NoError(t, err)
		assert.Equal(t, "Welcome to Our Platform", r.Subject)
		assert.Contains(t, r.Text, "Hello Ann,")
	})

	t.Run("HTMLIsEscaped", func(t *testing.T) {
		r, err := Render(Welcome("ann@example.com", "<script>x</script>"))
		require.NoError(t, err)
		assert.NotContains(t, r.HTML, "<script>")
	})

	t.Run("UnknownKind", func(t *testing.T) {
		_, err := Render(Message{To: "ann@example.com", Kind: "newsletter"})
		assert.Error(t, err)
	})
}

func TestNewSMTPSender(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = NewSMTPSender(SMTPConfig{Host: "", Port: 1025})
	assert.Error(t, err)
}
