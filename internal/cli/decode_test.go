package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeToFile runs `chjson encode` against the given fixture files and
// returns the path of the written block, for use as decode/inspect test
// setup.
func encodeToFile(t *testing.T, files []string) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "block.bin")

	args := append([]string{"encode"}, files...)
	args = append(args, "-o", out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	require.Equal(t, 0, code, buf.String())
	return out
}

func TestDecodeCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "decode" {
			found = true
			break
		}
	}
	assert.True(t, found, "decode subcommand must be registered on root command")
}

func TestDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.json", map[string]any{"name": "alice", "age": int64(30)})
	b := writeFixture(t, dir, "b.json", map[string]any{"name": "bob", "age": int64(40)})

	block := encodeToFile(t, []string{a, b})

	rootCmd.SetArgs([]string{"decode", block})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	require.Equal(t, 0, code, buf.String())

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "alice", first["name"])
}

func TestDecodeMissingFileIsError(t *testing.T) {
	rootCmd.SetArgs([]string{"decode", filepath.Join(t.TempDir(), "nope.bin")})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.NotEqual(t, 0, code)
}

func TestDecodeTruncatedFileIsError(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.json", map[string]any{"name": "alice"})
	block := encodeToFile(t, []string{a})

	data, err := os.ReadFile(block)
	require.NoError(t, err)
	truncated := filepath.Join(dir, "truncated.bin")
	require.NoError(t, os.WriteFile(truncated, data[:len(data)/2], 0o644))

	rootCmd.SetArgs([]string{"decode", truncated})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.NotEqual(t, 0, code)
}
