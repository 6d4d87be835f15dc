package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/way-po-int/subtitle-extractor/internal/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVTT = `WEBVTT

00:00:01.000 --> 00:00:02.000
hello

00:00:02.000 --> 00:00:03.000
hello world (music)
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCleanCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.vtt")
	require.NoError(t, os.WriteFile(path, []byte(testVTT), 0644))

	out, err := execute(t, "", "clean", "-q", path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestCleanCommand_StdinGrouped(t *testing.T) {
	out, err := execute(t, testVTT, "clean", "-q", "--mode", "grouped", "--merge", "1", "--profile", "minimal")
	require.NoError(t, err)
	assert.Equal(t, "00:01\nhello\n\n00:02\nworld (music)\n", out)
}

func TestCleanCommand_InvalidMerge(t *testing.T) {
	_, err := execute(t, testVTT, "clean", "-q", "--merge", "0", "--mode", "flattened", "--profile", "full")
	assert.Error(t, err)
}

func TestRenderSubtitleList(t *testing.T) {
	var buf bytes.Buffer
	renderSubtitleList(&buf, "abcdefghijk", &youtube.SubtitleList{
		Manual:    []youtube.SubtitleTrack{{Lang: "en", Name: "English", Formats: []string{"vtt", "srv3"}}},
		Automatic: []youtube.SubtitleTrack{{Lang: "ko", Name: "Korean"}},
	})

	out := buf.String()
	assert.Contains(t, out, "abcdefghijk")
	assert.Contains(t, out, "English (en)")
	assert.Contains(t, out, "vtt, srv3")
	assert.Contains(t, out, "Korean (ko)")
	assert.Contains(t, out, "N/A")
}

func TestRenderSubtitleList_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderSubtitleList(&buf, "abcdefghijk", &youtube.SubtitleList{})
	assert.Contains(t, buf.String(), "No subtitles available.")
}
