package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capstudio/internal/subtitle"
	"github.com/mgpai22/capstudio/internal/translate"
)

func (a *app) translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [subtitle_file]",
		Short: "Translate captions to another language using AI",
		Long: `Translate an SRT or VTT caption file to another language using AI.
Caption timings are kept exactly and the translated set is checked by the
same rules as hand-written captions.

The --overlay flag creates bilingual captions with the translated text
first, followed by the original text on the next line.

Examples:
  capstudio translate talk.srt --target-language japanese
  capstudio translate talk.vtt -t es --overlay
  capstudio translate talk.srt -l english -t german --provider anthropic -o talk.de.srt`,
		Args: cobra.ExactArgs(1),
		RunE: a.runTranslate,
	}

	cmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	cmd.Flags().
		StringP("language", "l", "", "Language of the input captions (optional)")
	cmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual captions)")
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	cmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	cmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	cmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	cmd.Flags().
		Int("concurrency", 0, "Number of parallel translation requests")
	cmd.Flags().
		Int("batch-size", 0, "Number of captions per API request")
	cmd.Flags().
		Int("rate-limit", 0, "Maximum API requests per minute (0 = unlimited)")
	cmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt); defaults to the input format")
	addDurationFlags(cmd)

	_ = cmd.MarkFlagRequired("target-language")
	return cmd
}

func (a *app) runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	targetLang, _ := cmd.Flags().GetString("target-language")
	inputLang, _ := cmd.Flags().GetString("language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")

	tc := a.cfg.Translate
	provider := translate.Provider(tc.Provider)
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		provider = translate.Provider(p)
	}
	if model == "" {
		model = tc.Model
	}
	concurrency := tc.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	batchSize := tc.BatchSize
	if cmd.Flags().Changed("batch-size") {
		batchSize, _ = cmd.Flags().GetInt("batch-size")
	}
	rateLimit := tc.RateLimitPerMin
	if cmd.Flags().Changed("rate-limit") {
		rateLimit, _ = cmd.Flags().GetInt("rate-limit")
	}

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" &&
		strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	if apiKey == "" {
		apiKey = os.Getenv(translate.APIKeyEnv(provider))
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			translate.APIKeyEnv(provider),
		)
	}

	if model != "" && !modelOverride && !translate.KnownModel(provider, model) {
		return fmt.Errorf(
			"unsupported %s model %q: valid models are %s (use --model-override to bypass)",
			provider,
			model,
			strings.Join(translate.KnownModels(provider), ", "),
		)
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}
	if rateLimit < 0 {
		return fmt.Errorf("rate-limit must not be negative, got %d", rateLimit)
	}

	set, inputFormat, duration, err := a.loadSet(cmd, subtitlePath)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd, a.output, inputFormat)
	if err != nil {
		return err
	}

	outputPath := a.output
	if outputPath == "" {
		baseName := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
		ext := subtitle.GetExtensionForFormat(format)
		if overlay {
			outputPath = fmt.Sprintf("%s.%s.overlay%s", baseName, targetLang, ext)
		} else {
			outputPath = fmt.Sprintf("%s.%s%s", baseName, targetLang, ext)
		}
	}

	a.logger.Infow("Starting caption translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"input_language", inputLang,
		"provider", provider,
		"model", model,
		"overlay", overlay,
		"captions", len(set),
	)

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:   inputLang,
		TargetLanguage:  targetLang,
		Model:           model,
		BatchSize:       batchSize,
		RateLimitPerMin: rateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	translated, err := translate.TranslateSet(ctx, translator, set, duration, translate.SetOptions{
		Overlay:     overlay,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	a.logger.Infow("Translation complete", "captions", len(translated))

	if err := a.writeSet(cmd, translated, format, outputPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Captions: %d\n", len(translated))
	fmt.Fprintf(out, "  Target language: %s\n", targetLang)
	if overlay {
		fmt.Fprintf(out, "  Mode: bilingual overlay\n")
	}
	return nil
}
