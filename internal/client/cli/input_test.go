package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "trimmed line", input: "  alice@example.com \nnext\n", want: "alice@example.com"},
		{name: "partial line at eof", input: "tail", want: "tail"},
		{name: "empty input", input: "", wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetSimpleText(bufio.NewReader(strings.NewReader(tt.input)), "Enter email", &out)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Enter email\n> ", out.String())
		})
	}
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("first\r\nsecond\n\nafter\n"))

	got, err := GetMultiline(r, "Description", &out)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)
	assert.Contains(t, out.String(), "Description\n")

	// the reader is left at the line after the blank one
	rest, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "after\n", rest)

	got, err = GetMultiline(bufio.NewReader(strings.NewReader("only")), "Description", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "only", got)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(fd int) ([]byte, error) { return []byte("secret123"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret123"), pw)
	assert.Equal(t, "Enter password: \n", out.String())

	boom := errors.New("not a terminal")
	readPassword = func(fd int) ([]byte, error) { return nil, boom }
	_, err = GetPassword("Enter password", io.Discard)
	require.ErrorIs(t, err, boom)
}
