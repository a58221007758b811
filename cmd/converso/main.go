// Package main is the entry point for the converso CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sthevan027/converso"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the converso CLI. The input file is its
// single positional argument.
var rootCmd = &cobra.Command{
	Use:   "converso INPUT",
	Short: "Convert documents between PDF, DOCX, plain text, and Markdown",
	Long: `converso converts documents between PDF, DOCX, plain text, and Markdown.

Conversion out of PDF is structural: headings, paragraphs, lists, and
table-like regions are reconstructed from glyph geometry and font statistics,
so the output is an editable document rather than a page facsimile. PDF input
converts to DOCX by default; DOCX, text, and Markdown input convert to PDF.

Examples:
  converso report.pdf
  converso report.pdf --to md --output out/report.md
  converso report.pdf --header-mode remove --quality high
  converso notes.docx`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.String("to", "", "target format: pdf, docx, txt, or md (default: docx for PDF input, pdf otherwise)")
	flags.StringP("output", "o", "", "output path (default: input path with the target extension)")
	flags.Int("start-page", 0, "first page to convert, 1-based")
	flags.Int("end-page", 0, "last page to convert, 1-based inclusive (0 means through the last page)")
	flags.String("header-mode", "convert", "recurring header policy: keep, remove, or convert")
	flags.String("footer-mode", "convert", "recurring footer policy: keep, remove, or convert")
	flags.Float64("header-margin", 0.10, "top band height scanned for headers, as a fraction of page height")
	flags.Float64("footer-margin", 0.10, "bottom band height scanned for footers, as a fraction of page height")
	flags.String("quality", "balanced", "heuristic profile: fast, balanced, or high")
	flags.Bool("no-formatting", false, "emit plain text runs without bold/italic")
	flags.Bool("no-layout", false, "disable column-aware reading order")
	flags.Bool("no-merge-paragraphs", false, "keep every source line as its own paragraph")
	flags.Bool("keep-hyphenation", false, "preserve end-of-line hyphens instead of joining words")
	flags.Bool("no-images", false, "skip image extraction and embedding")
	flags.Int("image-quality", 95, "JPEG re-encoding quality, 1-100")
	flags.Int("max-image-width", 800, "downscale images wider than this many pixels")
	flags.BoolP("verbose", "v", false, "print progress to stderr")

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./converso.yaml or ~/.config/converso/config.yaml)")

	viper.BindPFlags(flags)

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("converso")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "converso"))
		}
	}

	viper.SetEnvPrefix("CONVERSO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	c := converso.Open(args[0]).WithConfig(conversionConfig())

	if to := viper.GetString("to"); to != "" {
		c = c.To(to)
	}
	if output := viper.GetString("output"); output != "" {
		c = c.Output(output)
	}
	if viper.GetBool("verbose") {
		c = c.OnProgress(printProgress)
	}

	result, err := c.Run()
	if err != nil {
		return err
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(os.Stderr, converso.FormatWarnings(result.Warnings))
	}
	fmt.Printf("Wrote %s (%s -> %s)\n", result.WrittenPath, result.SourceFormat, result.TargetFormat)
	return nil
}

// conversionConfig builds the conversion configuration from flag, config
// file, and environment values, in viper's precedence order.
func conversionConfig() converso.ConversionConfig {
	cfg := converso.DefaultConfig()

	cfg.HeaderMode = viper.GetString("header-mode")
	cfg.FooterMode = viper.GetString("footer-mode")
	cfg.HeaderMargin = viper.GetFloat64("header-margin")
	cfg.FooterMargin = viper.GetFloat64("footer-margin")
	cfg.Quality = viper.GetString("quality")
	cfg.PreserveFormatting = !viper.GetBool("no-formatting")
	cfg.PreserveLayout = !viper.GetBool("no-layout")
	cfg.MergeParagraphs = !viper.GetBool("no-merge-paragraphs")
	cfg.KeepHyphenation = viper.GetBool("keep-hyphenation")
	cfg.ExtractImages = !viper.GetBool("no-images")
	cfg.ImageQuality = viper.GetInt("image-quality")
	cfg.MaxImageWidth = viper.GetInt("max-image-width")

	start := viper.GetInt("start-page")
	end := viper.GetInt("end-page")
	if start > 0 || end > 0 {
		if start == 0 {
			start = 1
		}
		cfg.PageRange = &converso.PageRange{Start: start, End: end}
	}
	return cfg
}

func printProgress(e converso.ProgressEvent) {
	switch {
	case e.Page > 0:
		fmt.Fprintf(os.Stderr, "%s: page %d/%d\n", e.Stage, e.Page, e.Pages)
	case e.Detail != "":
		fmt.Fprintf(os.Stderr, "%s: %s\n", e.Stage, e.Detail)
	default:
		fmt.Fprintf(os.Stderr, "%s\n", e.Stage)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
