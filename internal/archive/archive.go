// Package archive decodes exported messenger chat history files.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrMalformed marks a wholesale unusable export: invalid JSON or a document
// without the top-level "messages" array. Callers must keep any previously
// loaded dataset when they see it.
var ErrMalformed = errors.New("malformed chat archive")

// Message is one entry of the export with its text already flattened.
type Message struct {
	Type string
	Date time.Time
	Text string
}

// IsChat reports whether the entry is an ordinary chat message, the only
// kind eligible for record extraction.
func (m Message) IsChat() bool {
	return m.Type == "message"
}

// Telegram exports write local timestamps without a zone suffix.
const dateLayout = "2006-01-02T15:04:05"

type rawExport struct {
	Messages *[]rawMessage `json:"messages"`
}

type rawMessage struct {
	Type string          `json:"type"`
	Date string          `json:"date"`
	Text json.RawMessage `json:"text"`
}

// Decode parses a chat export. Entries with a missing or unparsable date are
// dropped individually; a document without a messages array fails with
// ErrMalformed.
func Decode(r io.Reader) ([]Message, error) {
	var export rawExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if export.Messages == nil {
		return nil, fmt.Errorf("%w: missing messages array", ErrMalformed)
	}

	messages := make([]Message, 0, len(*export.Messages))
	for _, raw := range *export.Messages {
		date, err := time.Parse(dateLayout, strings.TrimSpace(raw.Date))
		if err != nil {
			continue
		}
		messages = append(messages, Message{
			Type: raw.Type,
			Date: date,
			Text: flattenText(raw.Text),
		})
	}
	return messages, nil
}

// flattenText joins the export's text field into one string. The field is
// either a plain string or a list of segments, each a string or an object
// with a "text" key; anything else contributes nothing.
func flattenText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(raw, &segments); err != nil {
		return ""
	}

	var b strings.Builder
	for _, segment := range segments {
		var part string
		if err := json.Unmarshal(segment, &part); err == nil {
			b.WriteString(part)
			continue
		}
		var entity struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(segment, &entity); err == nil {
			b.WriteString(entity.Text)
		}
	}
	return b.String()
}
