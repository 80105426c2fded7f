package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	var tests = []struct {
		usageLine string
		expect    string
	}{
		{"filter --genomes FILE", "filter"},
		{"trim", "trim"},
		{"", ""},
	}

	for _, tt := range tests {
		cmd := &Command{UsageLine: tt.usageLine}
		assert.Equal(t, tt.expect, cmd.Name())
	}
}

func TestRegisterLookup(t *testing.T) {
	saved := Commands
	defer func() { Commands = saved }()
	Commands = nil

	cmd := &Command{UsageLine: "example [files]"}
	Register(cmd)

	assert.Same(t, cmd, Lookup("example"))
	assert.Nil(t, Lookup("missing"))
}
