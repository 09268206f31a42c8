package upstream

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "plain_string_body",
			body: `"Insufficient stock"`,
			want: "Insufficient stock",
		},
		{
			name: "non_json_body",
			body: `Gateway Timeout`,
			want: "Gateway Timeout",
		},
		{
			name: "error_key",
			body: `{"error": "Request is not in PROCESSING status"}`,
			want: "Request is not in PROCESSING status",
		},
		{
			name: "detail_key",
			body: `{"detail": "Not found."}`,
			want: "Not found.",
		},
		{
			name: "message_key",
			body: `{"message": "Store mismatch"}`,
			want: "Store mismatch",
		},
		{
			name: "per_item_validation_array",
			body: `[{"item_id": 3, "reason": "quantity exceeds available stock"}, {"item_id": 7, "reason": "instance already allocated"}]`,
			want: "item 3: quantity exceeds available stock; item 7: instance already allocated",
		},
		{
			name: "per_field_map",
			body: `{"purpose": ["This field is required."], "fulfilling_store": ["Invalid store."]}`,
			want: "fulfilling_store: Invalid store.; purpose: This field is required.",
		},
		{
			name: "nested_field_values",
			body: `{"items": [{"reason": "bad line"}]}`,
			want: "items: bad line",
		},
		{
			name: "empty_body",
			body: ``,
			want: "",
		},
		{
			name: "last_resort_is_compact_json",
			body: `{"weird": {"deeply": []}}`,
			want: `{"weird":{"deeply":[]}}`,
		},
		{
			name: "last_resort_never_dumps_per_field",
			body: `{"a": {}, "b": []}`,
			want: `{"a":{},"b":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMessage([]byte(tt.body)))
		})
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 409, Message: "Request already dispatched"}
	assert.Equal(t, "upstream rejected the request (409): Request already dispatched", err.Error())

	wrapped := fmt.Errorf("submit dispatch: %w", err)
	got, ok := AsAPIError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 409, got.StatusCode)

	_, ok = AsAPIError(fmt.Errorf("plain failure"))
	assert.False(t, ok)

	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
}
