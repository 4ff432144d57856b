package request_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpdispatch/pkg/request"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("zero length is absent", func(t *testing.T) {
		t.Parallel()
		body, err := request.Decode([]byte(`{"a":1}`), "application/json", 0)
		require.NoError(t, err)
		assert.Equal(t, request.KindAbsent, body.Kind())
		assert.Nil(t, body.Value())
	})

	t.Run("json object", func(t *testing.T) {
		t.Parallel()
		raw := []byte(`{"name":"测试","n":12345678901234567890,"list":[1,true,null]}`)
		body, err := request.Decode(raw, "application/json; charset=utf-8", int64(len(raw)))
		require.NoError(t, err)
		require.Equal(t, request.KindJSON, body.Kind())

		out, err := json.Marshal(body.Value())
		require.NoError(t, err)
		assert.JSONEq(t, string(raw), string(out))
		assert.Contains(t, string(out), "12345678901234567890", "numbers keep their literal form")
	})

	t.Run("malformed json is not an error", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{`{"a":`, `not json`, `{"a":1} trailing`, `   `} {
			body, err := request.Decode([]byte(raw), "application/json", int64(len(raw)))
			require.NoError(t, err, raw)
			assert.Equal(t, request.KindMalformed, body.Kind(), raw)
			assert.Error(t, body.Err(), raw)
			assert.Nil(t, body.Value(), raw)
		}
	})

	t.Run("content type match is case-insensitive", func(t *testing.T) {
		t.Parallel()
		raw := []byte(`[1,2]`)
		body, err := request.Decode(raw, "Application/JSON", int64(len(raw)))
		require.NoError(t, err)
		assert.Equal(t, request.KindJSON, body.Kind())
	})

	t.Run("form", func(t *testing.T) {
		t.Parallel()
		raw := []byte("a=1&a=2&msg=hi+there")
		body, err := request.Decode(raw, "application/x-www-form-urlencoded", int64(len(raw)))
		require.NoError(t, err)
		require.Equal(t, request.KindForm, body.Kind())
		assert.Equal(t, map[string][]string{"a": {"1", "2"}, "msg": {"hi there"}}, body.Value())
	})

	t.Run("raw text", func(t *testing.T) {
		t.Parallel()
		raw := []byte("plain text ✓")
		body, err := request.Decode(raw, "", int64(len(raw)))
		require.NoError(t, err)
		require.Equal(t, request.KindRaw, body.Kind())
		assert.Equal(t, "plain text ✓", body.Value())
	})

	t.Run("latin1 charset is transcoded", func(t *testing.T) {
		t.Parallel()
		raw := []byte{'c', 'a', 'f', 0xe9}
		body, err := request.Decode(raw, "text/plain; charset=ISO-8859-1", int64(len(raw)))
		require.NoError(t, err)
		assert.Equal(t, "café", body.Value())
	})

	t.Run("unknown charset falls back to utf-8", func(t *testing.T) {
		t.Parallel()
		raw := []byte("hello")
		body, err := request.Decode(raw, "text/plain; charset=x-made-up", int64(len(raw)))
		require.NoError(t, err)
		assert.Equal(t, "hello", body.Value())
	})

	t.Run("invalid utf-8 is an encoding error", func(t *testing.T) {
		t.Parallel()
		raw := []byte{0xff, 0xfe, 0xfd}
		_, err := request.Decode(raw, "text/plain", int64(len(raw)))
		assert.ErrorIs(t, err, request.ErrInvalidEncoding)

		_, err = request.Decode(raw, "application/json", int64(len(raw)))
		assert.ErrorIs(t, err, request.ErrInvalidEncoding)
	})
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "json", request.KindJSON.String())
	assert.Equal(t, "malformed", request.KindMalformed.String())
	assert.Equal(t, "kind(42)", request.Kind(42).String())
}
