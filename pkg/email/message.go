package email

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is a mailbox with an optional display name
type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// ParseAddressList parses a comma separated list such as
// "営業部 <sales@example.com>, info@example.com". An empty string yields nil.
func ParseAddressList(list string) ([]Address, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parsed, err := mail.ParseAddressList(list)
	if err != nil {
		return nil, fmt.Errorf("invalid address list %q: %w", list, err)
	}
	out := make([]Address, 0, len(parsed))
	for _, a := range parsed {
		out = append(out, Address{Name: a.Name, Email: a.Address})
	}
	return out, nil
}

// Message is a plaintext mail ready to hand to a Sender
type Message struct {
	From    Address
	To      []Address
	Cc      []Address
	ReplyTo string
	Subject string
	Body    string
}

// Recipients returns every envelope recipient (To followed by Cc)
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc))
	for _, a := range m.To {
		out = append(out, a.Email)
	}
	for _, a := range m.Cc {
		out = append(out, a.Email)
	}
	return out
}

// Bytes renders the message as RFC 5322 text with a quoted-printable UTF-8 body
func (m Message) Bytes(now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf, "From", m.From.String())
	writeHeader(&buf, "To", joinAddresses(m.To))
	if len(m.Cc) > 0 {
		writeHeader(&buf, "Cc", joinAddresses(m.Cc))
	}
	if m.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", m.ReplyTo)
	}
	writeHeader(&buf, "Subject", mime.BEncoding.Encode("UTF-8", m.Subject))
	writeHeader(&buf, "Date", now.Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", messageID(m.From.Email))
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", "text/plain; charset=UTF-8")
	writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.Body)); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(stripLineBreaks(value))
	buf.WriteString("\r\n")
}

// stripLineBreaks keeps visitor-supplied values from injecting headers
func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

func joinAddresses(addrs []Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func messageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
