package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wire struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestDecodeList_BareArray(t *testing.T) {
	list, err := decodeList[wire]([]byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`))
	require.NoError(t, err)

	assert.Len(t, list.Results, 2)
	assert.Equal(t, 2, list.Count)
	assert.False(t, list.HasNext)
}

func TestDecodeList_Envelope(t *testing.T) {
	body := `{"results":[{"id":1,"name":"a"}],"count":41,"next":"https://api/items/?page=2"}`

	list, err := decodeList[wire]([]byte(body))
	require.NoError(t, err)

	assert.Len(t, list.Results, 1)
	assert.Equal(t, 41, list.Count)
	assert.True(t, list.HasNext)
	assert.Equal(t, "https://api/items/?page=2", list.Next)
}

func TestDecodeList_LastPage(t *testing.T) {
	list, err := decodeList[wire]([]byte(`{"results":[{"id":9}],"count":41,"next":null}`))
	require.NoError(t, err)

	assert.False(t, list.HasNext)
	assert.Empty(t, list.Next)
}

func TestDecodeList_EmptyShapes(t *testing.T) {
	for name, body := range map[string]string{
		"empty_body":     ``,
		"empty_array":    `[]`,
		"empty_envelope": `{"results":null,"count":0}`,
	} {
		t.Run(name, func(t *testing.T) {
			list, err := decodeList[wire]([]byte(body))
			require.NoError(t, err)
			assert.NotNil(t, list.Results, "callers always get a non-nil slice")
			assert.Empty(t, list.Results)
		})
	}
}

func TestDecodeList_Malformed(t *testing.T) {
	_, err := decodeList[wire]([]byte(`[{"id":`))
	assert.Error(t, err)
}
