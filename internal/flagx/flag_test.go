package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		valueFlags []string
		boolFlags  []string
		want       []string
	}{
		{
			name:       "value flag with separate value",
			args:       []string{"-c", "conf.json", "-a", "http://localhost:8000"},
			valueFlags: []string{"-c"},
			want:       []string{"-c", "conf.json"},
		},
		{
			name:       "equals form kept whole",
			args:       []string{"-config=alt.json", "-a", "x"},
			valueFlags: []string{"-config"},
			want:       []string{"-config=alt.json"},
		},
		{
			name:       "unknown flags ignored",
			args:       []string{"-x", "1", "--y=2", "positional"},
			valueFlags: []string{"-c"},
			want:       []string{},
		},
		{
			name:       "value flag at end is kept alone",
			args:       []string{"-c"},
			valueFlags: []string{"-c"},
			want:       []string{"-c"},
		},
		{
			name:       "next dash token is not a value",
			args:       []string{"-a", "-mock"},
			valueFlags: []string{"-a"},
			boolFlags:  []string{"-mock"},
			want:       []string{"-a", "-mock"},
		},
		{
			name:       "bool flag does not consume next argument",
			args:       []string{"-mock", "stray", "-a", "http://api"},
			valueFlags: []string{"-a"},
			boolFlags:  []string{"-mock"},
			want:       []string{"-mock", "-a", "http://api"},
		},
		{
			name:       "bool flag with explicit value",
			args:       []string{"-mock=false"},
			boolFlags:  []string{"-mock"},
			want:       []string{"-mock=false"},
		},
		{
			name: "empty args",
			args: []string{},
			want: []string{},
		},
		{
			name:       "repeated flag preserved in order",
			args:       []string{"-t", "5", "-t", "7"},
			valueFlags: []string{"-t"},
			want:       []string{"-t", "5", "-t", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.valueFlags, tt.boolFlags...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-c", "/path/short.json"}, want: "/path/short.json"},
		{name: "long", args: []string{"-config", "/path/long.json"}, want: "/path/long.json"},
		{name: "none", args: []string{"-a", "http://api", "-mock"}, want: ""},
		{name: "last wins", args: []string{"-c", "/1.json", "-config", "/2.json"}, want: "/2.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JsonConfigFlags(tt.args))
		})
	}
}
