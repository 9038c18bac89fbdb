package whatsapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Message types with a dedicated display rule.
const (
	TypeText     = "text"
	TypeImage    = "image"
	TypeVideo    = "video"
	TypeAudio    = "audio"
	TypeDocument = "document"
)

// UnknownSender is used when a message carries no usable "from" field.
const UnknownSender = "Unknown"

// Message is a single inbound message as delivered in value.messages.
// Only the payload matching Type is normally populated.
type Message struct {
	// ID is the WhatsApp message id (wamid.*).
	ID string `json:"id,omitempty"`
	// From is the sender's phone number.
	From string `json:"from"`
	// Timestamp is the unix timestamp string sent by the platform.
	Timestamp string `json:"timestamp,omitempty"`
	// Type declares which payload below is set.
	Type string `json:"type"`

	Text     *TextContent     `json:"text,omitempty"`
	Image    *MediaContent    `json:"image,omitempty"`
	Video    *MediaContent    `json:"video,omitempty"`
	Audio    *MediaContent    `json:"audio,omitempty"`
	Document *DocumentContent `json:"document,omitempty"`
}

// TextContent is the payload of a text message. Body is nil when absent.
type TextContent struct {
	Body *string `json:"body,omitempty"`
}

// MediaContent is the payload shared by image, video and audio messages.
type MediaContent struct {
	ID       string `json:"id,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// DocumentContent is the payload of a document message. Filename is nil when absent.
type DocumentContent struct {
	MediaContent
	Filename *string `json:"filename,omitempty"`
}

// UnmarshalJSON decodes a message leniently: the input must be a JSON object,
// but any field that is missing or has the wrong type is left at its zero value
// instead of failing the whole message.
func (m *Message) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return fmt.Errorf("message: %w", err)
	}
	if obj == nil {
		return fmt.Errorf("message: %w", errNull)
	}

	msg := Message{From: UnknownSender}
	if from, ok := obj.str("from"); ok {
		msg.From = from
	}
	msg.ID, _ = obj.str("id")
	msg.Timestamp, _ = obj.str("timestamp")
	msg.Type, _ = obj.str("type")

	if text, ok := obj.obj("text"); ok {
		msg.Text = &TextContent{}
		if body, ok := text.str("body"); ok {
			msg.Text.Body = &body
		}
	}
	msg.Image = obj.media("image")
	msg.Video = obj.media("video")
	msg.Audio = obj.media("audio")
	if doc, ok := obj.obj("document"); ok {
		msg.Document = &DocumentContent{MediaContent: *obj.media("document")}
		if name, ok := doc.str("filename"); ok {
			msg.Document.Filename = &name
		}
	}

	*m = msg
	return nil
}

var (
	nullLiteral = []byte("null")
	errNull     = errors.New("unexpected null")
)

// object is a decoded JSON object whose members are decoded on demand.
type object map[string]json.RawMessage

// parseObject returns nil, nil for a JSON null.
func parseObject(data []byte) (object, error) {
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), nullLiteral)
}

// str returns the member as a string. ok is false when the member is absent,
// null or not a string.
func (o object) str(key string) (string, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// obj returns the member as an object. ok is false when the member is absent,
// null or not an object.
func (o object) obj(key string) (object, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	child, err := parseObject(raw)
	if err != nil {
		return nil, false
	}
	return child, true
}

// list returns the member as a slice of raw elements. A missing or null member
// yields nil without error; a member of any other type is an error.
func (o object) list(key string) ([]json.RawMessage, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return items, nil
}

func (o object) media(key string) *MediaContent {
	obj, ok := o.obj(key)
	if !ok {
		return nil
	}
	media := &MediaContent{}
	media.ID, _ = obj.str("id")
	media.MimeType, _ = obj.str("mime_type")
	media.Caption, _ = obj.str("caption")
	return media
}
