// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/shenlun/internal/archive"
	"github.com/pdiddy/shenlun/internal/compose"
	"github.com/pdiddy/shenlun/internal/fragments"
	"github.com/pdiddy/shenlun/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [theme]",
	Short: "Generate a filler essay on a theme",
	Long: `Generate builds an essay on the given theme (default 年轻人买房) whose
opening and closing each take at least 15% of the requested length and
whose body takes at least 70%. Sections are never truncated, so the result
is usually a little longer than requested.

Use --seed to reproduce an earlier essay and --count to generate several
essays in parallel.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := generatorConfig(args)

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		cfg = promptConfig(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
	}
	if cfg.Length < 0 {
		return fmt.Errorf("length must not be negative, got %d", cfg.Length)
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	store, err := loadStore(cfg.DataSource)
	if err != nil {
		return err
	}

	logger.Debug("generating",
		zap.String("theme", cfg.Theme),
		zap.Int("length", cfg.Length),
		zap.Int("count", cfg.Count),
		zap.Uint64("seed", cfg.Seed),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	essays, err := compose.New(store).Batch(ctx, compose.BatchOptions{
		Theme:  cfg.Theme,
		Length: cfg.Length,
		Count:  cfg.Count,
		Seed:   cfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("generating essay: %w", err)
	}

	out := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if err := writeEssaysJSON(out, cfg.Seed, essays); err != nil {
			return err
		}
	} else {
		writeEssaysText(out, essays)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := os.WriteFile(path, []byte(joinTexts(essays)), 0o644); err != nil {
			return fmt.Errorf("saving essay to %s: %w", path, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "文章已成功保存到 %s\n", path)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		return archiveEssays(ctx, cmd.ErrOrStderr(), cfg.Seed, essays)
	}
	return nil
}

// generatorConfig merges the positional theme with flags, env, and config.
func generatorConfig(args []string) types.GeneratorConfig {
	cfg := types.GeneratorConfig{
		DataSource: viper.GetString("generator.data_source"),
		Theme:      viper.GetString("generator.theme"),
		Length:     viper.GetInt("generator.length"),
		Seed:       viper.GetUint64("generator.seed"),
		Count:      viper.GetInt("generator.count"),
	}
	if len(args) > 0 && args[0] != "" {
		cfg.Theme = args[0]
	}
	if cfg.Theme == "" {
		cfg.Theme = types.DefaultTheme
	}
	if cfg.DataSource == "" {
		cfg.DataSource = types.DefaultDataSource
	}
	return cfg
}

// promptConfig asks for the theme and length on in. Blank or unparseable
// answers keep the current values.
func promptConfig(in io.Reader, out io.Writer, cfg types.GeneratorConfig) types.GeneratorConfig {
	sc := bufio.NewScanner(in)

	fmt.Fprintf(out, "请输入文章主题 (默认: %s): ", cfg.Theme)
	if sc.Scan() {
		if theme := strings.TrimSpace(sc.Text()); theme != "" {
			cfg.Theme = theme
		}
	}

	fmt.Fprintf(out, "请输入文章最少字数 (默认: %d): ", cfg.Length)
	if sc.Scan() {
		if n, err := strconv.Atoi(strings.TrimSpace(sc.Text())); err == nil {
			cfg.Length = n
		}
	}
	return cfg
}

// loadStore reads and validates the data source.
func loadStore(path string) (*fragments.Store, error) {
	store, err := openStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.Validate(); err != nil {
		return nil, fmt.Errorf("数据源文件 %s 缺少必要分类: %w", path, err)
	}
	logger.Debug("loaded data source",
		zap.String("path", path),
		zap.Strings("categories", store.Categories()),
	)
	return store, nil
}

// openStore reads the data source without validating it, translating load
// failures into the messages users of the original tool expect.
func openStore(path string) (*fragments.Store, error) {
	store, err := fragments.LoadFile(path)
	switch {
	case fragments.IsNotFound(err):
		return nil, fmt.Errorf("数据源文件 %s 未找到", path)
	case fragments.IsMalformed(err):
		logger.Debug("malformed data source", zap.Error(err))
		return nil, fmt.Errorf("数据源文件 %s 格式不正确: %w", path, err)
	case err != nil:
		return nil, err
	}
	return store, nil
}

func writeEssaysText(w io.Writer, essays []types.Essay) {
	for i, e := range essays {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "生成的文章主题: %s\n", e.Theme)
		fmt.Fprintf(w, "生成的文章字数: %d\n", e.Length())
		fmt.Fprintln(w, "\n生成的文章:")
		fmt.Fprintln(w, e.Text())
	}
}

// essayOutput is the JSON shape of one generated essay.
type essayOutput struct {
	types.Essay
	Seed         uint64 `json:"seed"`
	Index        int    `json:"index"`
	ActualLength int    `json:"actual_length"`
	Text         string `json:"text"`
}

func writeEssaysJSON(w io.Writer, seed uint64, essays []types.Essay) error {
	outputs := make([]essayOutput, len(essays))
	for i, e := range essays {
		outputs[i] = essayOutput{
			Essay:        e,
			Seed:         seed,
			Index:        i,
			ActualLength: e.Length(),
			Text:         e.Text(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}

func joinTexts(essays []types.Essay) string {
	texts := make([]string, len(essays))
	for i, e := range essays {
		texts[i] = e.Text()
	}
	return strings.Join(texts, "\n\n") + "\n"
}

func archiveEssays(ctx context.Context, w io.Writer, seed uint64, essays []types.Essay) error {
	store, err := archive.Open(archiveConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Save(ctx, seed, essays)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(w, "archived %s\n", r.ID)
	}
	return nil
}

func init() {
	f := generateCmd.Flags()
	f.IntP("length", "n", types.DefaultLength, "minimum essay length in characters")
	f.StringP("data-source", "d", types.DefaultDataSource, "fragment data source (JSON, or YAML by extension)")
	f.Uint64("seed", 0, "random seed (0 = random)")
	f.Int("count", 1, "number of essays to generate")
	f.BoolP("interactive", "i", false, "prompt for theme and length")
	f.StringP("output", "o", "", "also write the essay text to this file")
	f.Bool("save", false, "store the essay in the archive")
	f.Bool("json", false, "output essays as JSON")

	viper.BindPFlag("generator.length", f.Lookup("length"))
	viper.BindPFlag("generator.data_source", f.Lookup("data-source"))
	viper.BindPFlag("generator.seed", f.Lookup("seed"))
	viper.BindPFlag("generator.count", f.Lookup("count"))

	rootCmd.AddCommand(generateCmd)
}
