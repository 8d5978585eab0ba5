package channel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeOmitsNilPayload(t *testing.T) {
	frame, err := Encode(GetShortcut, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"get-shortcut"}`, string(frame))
}

func TestEncodeDecode(t *testing.T) {
	frame, err := Encode(ShortcutChanged, map[string]any{"key": "t"})
	require.NoError(t, err)

	msg, err := Decode(frame)
	require.NoError(t, err)
	require.Equal(t, ShortcutChanged, msg.Name)
	require.JSONEq(t, `{"key":"t"}`, string(msg.Payload))
}

func TestEncodeEmptyName(t *testing.T) {
	_, err := Encode("", nil)
	require.ErrorIs(t, err, ErrBadMessage)
}

func TestDecodeRejects(t *testing.T) {
	for _, in := range []string{``, `[]`, `"x"`, `{}`, `{"name":""}`, `{"name":1}`} {
		_, err := Decode([]byte(in))
		require.ErrorIs(t, err, ErrBadMessage, "input %q", in)
	}
}

func TestURL(t *testing.T) {
	require.Equal(t, "ws://127.0.0.1:7419/ws", URL("127.0.0.1:7419"))
}
