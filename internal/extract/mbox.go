package extract

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/mail"
	"strings"
)

// readMbox walks an mbox file message by message, keeping subject and
// body of each. Messages that fail to parse are skipped rather than
// failing the whole file; an mbox with zero parseable messages is a
// format error.
func readMbox(content []byte) (string, error) {
	var b strings.Builder
	parsed := 0

	for _, raw := range splitMboxMessages(content) {
		msg, err := mail.ReadMessage(bytes.NewReader(raw))
		if err != nil {
			continue
		}
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			continue
		}
		parsed++
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if subject := msg.Header.Get("Subject"); subject != "" {
			b.WriteString("Subject: " + subject + "\n")
		}
		b.WriteString(strings.TrimSpace(string(body)))
	}

	if parsed == 0 {
		return "", fmt.Errorf("mbox: no parseable messages")
	}
	return b.String(), nil
}

// splitMboxMessages splits on the "From " envelope lines that separate
// messages in mbox format.
func splitMboxMessages(content []byte) [][]byte {
	var messages [][]byte
	var current bytes.Buffer

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "From ") {
			if current.Len() > 0 {
				messages = append(messages, append([]byte(nil), current.Bytes()...))
				current.Reset()
			}
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if current.Len() > 0 {
		messages = append(messages, current.Bytes())
	}
	return messages
}
