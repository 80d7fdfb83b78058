// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/shenlun/internal/archive"
	"github.com/pdiddy/shenlun/pkg/types"
)

const testDataSource = "../../internal/fragments/testdata/data.json"

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPromptConfig(t *testing.T) {
	base := types.GeneratorConfig{Theme: types.DefaultTheme, Length: 500}

	tests := []struct {
		name       string
		input      string
		wantTheme  string
		wantLength int
	}{
		{name: "answers", input: "教育\n800\n", wantTheme: "教育", wantLength: 800},
		{name: "blank keeps defaults", input: "\n\n", wantTheme: types.DefaultTheme, wantLength: 500},
		{name: "bad number keeps default", input: "环保\nabc\n", wantTheme: "环保", wantLength: 500},
		{name: "closed input", input: "", wantTheme: types.DefaultTheme, wantLength: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := promptConfig(strings.NewReader(tt.input), &out, base)
			assert.Equal(t, tt.wantTheme, got.Theme)
			assert.Equal(t, tt.wantLength, got.Length)
			assert.Contains(t, out.String(), "请输入文章主题")
		})
	}
}

func TestLoadStoreErrors(t *testing.T) {
	_, err := loadStore(filepath.Join(t.TempDir(), "data.json"))
	assert.ErrorContains(t, err, "未找到")

	bad := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = loadStore(bad)
	assert.ErrorContains(t, err, "格式不正确")

	partial := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"verb": ["买"]}`), 0o644))
	_, err = loadStore(partial)
	assert.ErrorContains(t, err, "缺少必要分类")
}

func TestMissingDataSourceMessages(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "data.json")
	want := "数据源文件 " + missing + " 未找到"

	for _, command := range []string{"generate", "fragments"} {
		t.Run(command, func(t *testing.T) {
			_, err := execute(t, command, "-d", missing)
			require.Error(t, err)
			assert.Equal(t, want, err.Error())

			var stderr bytes.Buffer
			reportError(&stderr, err)
			assert.Equal(t, "错误: "+want+"\n", stderr.String())
		})
	}
}

func TestFragmentsReportsProblems(t *testing.T) {
	partial := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"verb": ["买"], "extra": []}`), 0o644))

	stdout, err := execute(t, "fragments", "-d", partial)
	require.Error(t, err)
	assert.Contains(t, stdout, "extra")
	assert.Contains(t, stdout, "(unused)")
	assert.Contains(t, stdout, `problem: category not found: "noun"`)
}

func TestWriteEssaysText(t *testing.T) {
	e := types.Essay{Theme: "买房", Title: "买房的故事", Opening: "开。", Body: "正。", Closing: "结。"}
	var out bytes.Buffer
	writeEssaysText(&out, []types.Essay{e})

	want := "生成的文章主题: 买房\n生成的文章字数: " +
		"26\n\n生成的文章:\n买房的故事\n    开。\n    正。\n    结。\n"
	assert.Equal(t, want, out.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "买房", truncate("买房", 5))
	assert.Equal(t, "一二...", truncate("一二三四五六", 5))
}

func TestGenerateAndArchive(t *testing.T) {
	archiveDir := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "essay.txt")

	stdout, err := execute(t, "generate", "教育",
		"-n", "200", "-d", testDataSource, "--seed", "7", "--count", "2",
		"--json", "--save", "--archive-dir", archiveDir, "-o", outFile)
	require.NoError(t, err)

	var essays []essayOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &essays))
	require.Len(t, essays, 2)
	for i, e := range essays {
		assert.Equal(t, "教育", e.Theme)
		assert.Equal(t, uint64(7), e.Seed)
		assert.Equal(t, i, e.Index)
		assert.Equal(t, len([]rune(e.Text)), e.ActualLength)
		assert.GreaterOrEqual(t, len([]rune(e.Body)), 140)
	}

	written, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(written), essays[0].Text)
	assert.Contains(t, string(written), essays[1].Text)

	store, err := archive.Open(types.ArchiveConfig{Dir: archiveDir})
	require.NoError(t, err)
	defer store.Close()
	records, err := store.List(t.Context(), archive.QueryOptions{Theme: "教育"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "shenlun dev\n", stdout)
}
