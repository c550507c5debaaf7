package mailer

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// BuildRaw assembles the wire form the Gmail API expects: an RFC 822
// message with an HTML body and a MIME B-encoded subject, encoded as
// unpadded base64url.
func BuildRaw(to, subject, htmlBody string) string {
	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject)))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", encodedSubject))
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	return base64.RawURLEncoding.EncodeToString([]byte(b.String()))
}
