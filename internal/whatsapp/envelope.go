package whatsapp

import (
	"encoding/json"
	"fmt"
)

// FieldMessages is the change field that carries inbound messages.
const FieldMessages = "messages"

// Envelope is a notification POSTed by the Cloud API:
//
//	{"object": "...", "entry": [{"id": "...", "changes": [{"field": "messages", "value": {"messages": [...]}}]}]}
type Envelope struct {
	Object  string
	Entries []Entry
}

// Entry is one business account entry of a notification.
type Entry struct {
	ID      string
	Changes []Change
}

// Change is a single change notification. Value is only decoded for
// FieldMessages changes, and is nil when absent.
type Change struct {
	Field string
	Value *ChangeValue
}

// ChangeValue holds the messages of a FieldMessages change.
type ChangeValue struct {
	MessagingProduct string
	Messages         []Message
}

// DecodeError reports a part of a notification that could not be decoded.
// Path locates the part, e.g. "entry[0].changes[1].value.messages[2]".
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses a notification body. Parts of the envelope that are missing
// are skipped silently. Parts that are present but malformed are skipped and
// reported as *DecodeError values; their siblings are still decoded.
// A nil envelope is returned only when the body is not a JSON object at all
// (a JSON null yields an empty envelope).
func Decode(body []byte) (*Envelope, []error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, []error{&DecodeError{Err: fmt.Errorf("invalid notification body: %w", err)}}
	}

	d := &decoder{}
	env := &Envelope{}
	env.Object, _ = root.str("object")

	entries, err := root.list("entry")
	if err != nil {
		d.fail("", err)
	}
	for i, raw := range entries {
		if entry, ok := d.entry(fmt.Sprintf("entry[%d]", i), raw); ok {
			env.Entries = append(env.Entries, entry)
		}
	}
	return env, d.errs
}

type decoder struct {
	errs []error
}

func (d *decoder) fail(path string, err error) {
	d.errs = append(d.errs, &DecodeError{Path: path, Err: err})
}

func (d *decoder) entry(path string, raw json.RawMessage) (Entry, bool) {
	obj, ok := d.object(path, raw)
	if !ok {
		return Entry{}, false
	}
	entry := Entry{}
	entry.ID, _ = obj.str("id")

	changes, err := obj.list("changes")
	if err != nil {
		d.fail(path, err)
	}
	for i, raw := range changes {
		if change, ok := d.change(fmt.Sprintf("%s.changes[%d]", path, i), raw); ok {
			entry.Changes = append(entry.Changes, change)
		}
	}
	return entry, true
}

func (d *decoder) change(path string, raw json.RawMessage) (Change, bool) {
	obj, ok := d.object(path, raw)
	if !ok {
		return Change{}, false
	}
	change := Change{}
	change.Field, _ = obj.str("field")
	if change.Field != FieldMessages {
		return change, true
	}

	valueRaw, ok := obj["value"]
	if !ok || isNull(valueRaw) {
		return change, true
	}
	valuePath := path + ".value"
	value, ok := d.object(valuePath, valueRaw)
	if !ok {
		return change, true
	}

	change.Value = &ChangeValue{}
	change.Value.MessagingProduct, _ = value.str("messaging_product")
	messages, err := value.list("messages")
	if err != nil {
		d.fail(valuePath, err)
	}
	for i, raw := range messages {
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			d.fail(fmt.Sprintf("%s.messages[%d]", valuePath, i), err)
			continue
		}
		change.Value.Messages = append(change.Value.Messages, msg)
	}
	return change, true
}

// object decodes raw as a JSON object, recording a failure for anything else.
func (d *decoder) object(path string, raw json.RawMessage) (object, bool) {
	obj, err := parseObject(raw)
	if err == nil && obj == nil {
		err = errNull
	}
	if err != nil {
		d.fail(path, err)
		return nil, false
	}
	return obj, true
}

// Messages returns every message of every FieldMessages change, in envelope
// order: entries first, then changes, then messages.
func (e *Envelope) Messages() []Message {
	if e == nil {
		return nil
	}
	var out []Message
	for _, entry := range e.Entries {
		for _, change := range entry.Changes {
			if change.Field != FieldMessages || change.Value == nil {
				continue
			}
			out = append(out, change.Value.Messages...)
		}
	}
	return out
}
