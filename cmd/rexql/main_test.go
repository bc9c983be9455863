package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	defer func() { os.Stdout = old }()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() { io.Copy(&buf, r); close(done) }()

	runErr := fn()
	w.Close()
	<-done
	return buf.String(), runErr
}

func TestSynthesizeFromFile(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return run([]string{
			"synthesize",
			"-schema.file", "testdata/patients.json",
			"-path", "patients.edges.node",
		})
	})
	require.NoError(t, err)
	require.Contains(t, out, "patients")
	require.Contains(t, out, "$search")
	require.Contains(t, out, "# Patients matching the search term.")
	require.Contains(t, out, "# id: ID")
	require.Contains(t, out, "# name: Name")
}

func TestSynthesizeExplicitRequire(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return run([]string{
			"synthesize",
			"-schema.file", "testdata/patients.json",
			"-path", "patients.edges.node",
			"-require", "primaryText=name",
		})
	})
	require.NoError(t, err)
	require.Contains(t, out, "# primaryText: Name")
}

func TestSynthesizeBadPath(t *testing.T) {
	_, err := captureStdout(t, func() error {
		return run([]string{
			"synthesize",
			"-schema.file", "testdata/patients.json",
			"-path", "nowhere",
		})
	})
	require.ErrorContains(t, err, `no field "nowhere"`)
}

func TestHelp(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return run([]string{"help", "fetch"})
	})
	require.NoError(t, err)
	require.Contains(t, out, "-otel.endpoint")
}

func TestUnknownCommand(t *testing.T) {
	_, err := captureStdout(t, func() error {
		return run([]string{"bogus"})
	})
	require.ErrorContains(t, err, "unknown command")
}
