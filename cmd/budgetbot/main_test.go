package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("swiggy: food\nuber: travel\n"), 0600))

	out, err := run(t, "classify", "--rules", rules, "200", "swiggy")
	require.NoError(t, err)
	assert.Equal(t, "intent: expense\namount: 200.00\ncategory: food\ndescription: swiggy\n", out)

	out, err = run(t, "classify", "--rules", rules, "spent 12.5 on uber #work")
	require.NoError(t, err)
	assert.Contains(t, out, "category: work\n")

	out, err = run(t, "classify", "--rules", rules, "!summary")
	require.NoError(t, err)
	assert.Equal(t, "intent: summary\n", out)

	out, err = run(t, "classify", "--rules", rules, "hello")
	require.NoError(t, err)
	assert.Equal(t, "not an expense\n", out)
}

func TestExportCommand(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "rows.tsv")
	require.NoError(t, os.WriteFile(seed, []byte(
		"alice\tfood\t200\tswiggy\t2025-06-15T09:30:00.000Z\n"+
			"bob\trent\t9000\trent\t2025-06-01T00:00:00.000Z\n"), 0600))
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("MEMORY_DATA_FILE", seed)
	t.Setenv("AMQP_URL", "")

	out, err := run(t, "export", "--user", "alice")
	require.NoError(t, err)
	assert.Equal(t, "user,category,amount,description,timestamp\n"+
		"alice,food,200.00,swiggy,2025-06-15T09:30:00.000Z\n", out)

	outFile := filepath.Join(t.TempDir(), "alice.csv")
	_, err = run(t, "export", "--user", "alice", "--out", outFile)
	require.NoError(t, err)
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alice,food,200.00")

	_, err = run(t, "export")
	assert.Error(t, err, "--user is required")
}

func TestServeRejectsBadConfig(t *testing.T) {
	t.Setenv("GATEWAY", "irc")
	t.Setenv("DATA_BACKEND", "memory")
	_, err := run(t, "serve")
	assert.ErrorContains(t, err, "invalid gateway 'irc'")
}
