package mailer

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRawEncoding(t *testing.T) {
	raw := BuildRaw("ann@x.com", "Hello Ann", "<p>Hi</p>")

	// Gmail requires unpadded base64url
	assert.NotContains(t, raw, "=")
	assert.NotContains(t, raw, "+")
	assert.NotContains(t, raw, "/")

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	require.NoError(t, err)
	msg := string(decoded)

	assert.Contains(t, msg, "To: ann@x.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n")
	assert.Contains(t, msg, "MIME-Version: 1.0\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>Hi</p>"))
}

func TestBuildRawSubjectBEncoding(t *testing.T) {
	raw := BuildRaw("b@x.com", "Grüße aus Köln", "<p>Servus</p>")

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	require.NoError(t, err)

	expected := "Subject: =?utf-8?B?" +
		base64.StdEncoding.EncodeToString([]byte("Grüße aus Köln")) + "?=\r\n"
	assert.Contains(t, string(decoded), expected)
}
