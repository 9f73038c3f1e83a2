package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Regexp(t, `^hollywood version \S+\n$`, out.String())
}

func TestDemoCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"demo", "--count", "2", "--interval", "1ms", "--log-level", "error"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "T-2\nT-1\nliftoff!\n", out.String())
}

func TestDemoCommand_RejectsBadCount(t *testing.T) {
	rootCmd.SetArgs([]string{"demo", "--count", "-1"})
	defer rootCmd.SetArgs(nil)

	assert.Error(t, rootCmd.Execute())
}
