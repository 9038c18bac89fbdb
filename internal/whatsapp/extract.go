package whatsapp

import (
	"unicode"
	"unicode/utf8"
)

// ExtractedMessage is the display form of one inbound message.
type ExtractedMessage struct {
	ID     string
	Sender string
	Type   string
	Text   string
}

// Extract returns the display form of m.
func Extract(m Message) ExtractedMessage {
	return ExtractedMessage{
		ID:     m.ID,
		Sender: m.From,
		Type:   m.Type,
		Text:   ExtractText(m),
	}
}

// ExtractText summarizes a message as a single line of text based on its type.
// It is defined for every message, including ones with an empty or unknown type.
func ExtractText(m Message) string {
	switch m.Type {
	case TypeText:
		if m.Text == nil || m.Text.Body == nil {
			return "No text"
		}
		return *m.Text.Body
	case TypeImage:
		return withCaption("[Image]", m.Image)
	case TypeVideo:
		return withCaption("[Video]", m.Video)
	case TypeAudio:
		return "[Audio message]"
	case TypeDocument:
		filename := "Unknown"
		if m.Document != nil && m.Document.Filename != nil {
			filename = *m.Document.Filename
		}
		return "[Document: " + filename + "]"
	default:
		return "[" + capitalize(m.Type) + " message]"
	}
}

func withCaption(label string, media *MediaContent) string {
	if media == nil || media.Caption == "" {
		return label
	}
	return label + " " + media.Caption
}

// capitalize upper-cases the first rune of s and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
