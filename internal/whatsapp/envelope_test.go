package whatsapp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageIDs(messages []Message) []string {
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	return ids
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		expectedIDs []string
		errCount    int
		nilEnvelope bool
	}{
		{
			name: "empty object",
			body: `{}`,
		},
		{
			name: "null body",
			body: `null`,
		},
		{
			name:        "invalid json",
			body:        `{"entry": [`,
			errCount:    1,
			nilEnvelope: true,
		},
		{
			name:        "empty body",
			body:        ``,
			errCount:    1,
			nilEnvelope: true,
		},
		{
			name:        "top level array",
			body:        `[{"entry": []}]`,
			errCount:    1,
			nilEnvelope: true,
		},
		{
			name: "entry without changes",
			body: `{"entry": [{"id": "1"}]}`,
		},
		{
			name: "change without value",
			body: `{"entry": [{"changes": [{"field": "messages"}]}]}`,
		},
		{
			name: "value without messages",
			body: `{"entry": [{"changes": [{"field": "messages", "value": {"statuses": [{"id": "s"}]}}]}]}`,
		},
		{
			name: "other fields are skipped",
			body: `{"entry": [{"changes": [{"field": "statuses", "value": {"messages": [{"id": "m1"}]}}]}]}`,
		},
		{
			name: "malformed value of other field is not inspected",
			body: `{"entry": [{"changes": [{"field": "account_update", "value": 12}]}]}`,
		},
		{
			name:        "envelope order is preserved",
			body:        `{"entry": [{"changes": [{"field": "messages", "value": {"messages": [{"id": "m1"}, {"id": "m2"}]}}, {"field": "messages", "value": {"messages": [{"id": "m3"}]}}]}, {"changes": [{"field": "messages", "value": {"messages": [{"id": "m4"}]}}]}]}`,
			expectedIDs: []string{"m1", "m2", "m3", "m4"},
		},
		{
			name:        "entry is not a list",
			body:        `{"entry": {"changes": []}}`,
			errCount:    1,
			expectedIDs: nil,
		},
		{
			name:        "malformed entry does not stop siblings",
			body:        `{"entry": ["bad", {"changes": [{"field": "messages", "value": {"messages": [{"id": "m1"}]}}]}]}`,
			errCount:    1,
			expectedIDs: []string{"m1"},
		},
		{
			name:        "malformed changes does not stop sibling entries",
			body:        `{"entry": [{"changes": 5}, {"changes": [{"field": "messages", "value": {"messages": [{"id": "m1"}]}}]}]}`,
			errCount:    1,
			expectedIDs: []string{"m1"},
		},
		{
			name:        "malformed value does not stop sibling changes",
			body:        `{"entry": [{"changes": [{"field": "messages", "value": "oops"}, {"field": "messages", "value": {"messages": [{"id": "m1"}]}}]}]}`,
			errCount:    1,
			expectedIDs: []string{"m1"},
		},
		{
			name:        "malformed messages list",
			body:        `{"entry": [{"changes": [{"field": "messages", "value": {"messages": {"id": "m0"}}}, {"field": "messages", "value": {"messages": [{"id": "m1"}]}}]}]}`,
			errCount:    1,
			expectedIDs: []string{"m1"},
		},
		{
			name:        "malformed message does not stop siblings",
			body:        `{"entry": [{"changes": [{"field": "messages", "value": {"messages": [{"id": "m1"}, 3, null, {"id": "m2"}]}}]}]}`,
			errCount:    2,
			expectedIDs: []string{"m1", "m2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, errs := Decode([]byte(tt.body))
			assert.Len(t, errs, tt.errCount)
			for _, err := range errs {
				var decodeErr *DecodeError
				assert.True(t, errors.As(err, &decodeErr))
			}
			if tt.nilEnvelope {
				assert.Nil(t, env)
				assert.Empty(t, env.Messages())
				return
			}
			require.NotNil(t, env)
			if tt.expectedIDs == nil {
				assert.Empty(t, env.Messages())
				return
			}
			assert.Equal(t, tt.expectedIDs, messageIDs(env.Messages()))
		})
	}
}

func TestDecodeErrorPath(t *testing.T) {
	t.Parallel()

	_, errs := Decode([]byte(`{"entry": [{"changes": [{"field": "messages", "value": {"messages": [{"id": "m1"}, 3]}}]}]}`))
	require.Len(t, errs, 1)
	var decodeErr *DecodeError
	require.ErrorAs(t, errs[0], &decodeErr)
	assert.Equal(t, "entry[0].changes[0].value.messages[1]", decodeErr.Path)
	assert.Contains(t, errs[0].Error(), "entry[0].changes[0].value.messages[1]: ")
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	body := []byte(`{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messaging_product":"whatsapp","messages":[{"from":"1","id":"m1","type":"text","text":{"body":"hi"}}]}}]}]}`)
	original := string(body)

	env, errs := Decode(body)
	require.Empty(t, errs)
	assert.Equal(t, original, string(body))
	assert.Equal(t, "whatsapp_business_account", env.Object)
	require.Len(t, env.Entries, 1)
	assert.Equal(t, "1", env.Entries[0].ID)
	require.Len(t, env.Entries[0].Changes, 1)
	require.NotNil(t, env.Entries[0].Changes[0].Value)
	assert.Equal(t, "whatsapp", env.Entries[0].Changes[0].Value.MessagingProduct)

	again, _ := Decode(body)
	assert.Equal(t, env, again)
}
