package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sevaagent/seva/internal/ai"
	"github.com/sevaagent/seva/internal/aws"
	"github.com/sevaagent/seva/internal/command"
	"github.com/sevaagent/seva/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [request]",
	Short: "Translate a natural-language request into an AWS CLI command",
	Long: `Translate a natural-language request into a safe, read-only AWS CLI
command and optionally execute it.

Examples:
  seva ask "list my s3 buckets"
  seva ask "show running ec2 instances"
  seva ask "list objects in my-bucket --execute"
  seva ask "list python lambda functions" -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := args[0]

		execute, _ := cmd.Flags().GetBool("execute")
		noFallback, _ := cmd.Flags().GetBool("no-fallback")
		profile, _ := cmd.Flags().GetString("profile")
		region, _ := cmd.Flags().GetString("region")
		format, _ := cmd.Flags().GetString("output")
		debug := viper.GetBool("debug")

		if region == "" {
			region = viper.GetString("aws.region")
		}
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		if profile == "" {
			profile = viper.GetString("aws.default_profile")
		}

		ctx := context.Background()

		var fallback engine.Fallback
		if !noFallback {
			fallback = buildFallback(ctx, cmd, debug)
		}

		eng, err := engine.New(engine.Options{
			Region:    region,
			Fallback:  fallback,
			Threshold: viper.GetFloat64("engine.confidence_threshold"),
			Debug:     debug,
		})
		if err != nil {
			return err
		}

		result := eng.ClassifyAndRender(ctx, request)

		if err := printResult(result, format); err != nil {
			return err
		}
		if !result.Success || !execute {
			return nil
		}

		timeout := time.Duration(viper.GetInt("engine.exec_timeout_seconds")) * time.Second
		output, err := aws.RunCommand(ctx, result.Command, aws.ExecOptions{
			Profile: profile,
			Timeout: timeout,
		})
		if err != nil {
			if errors.Is(err, aws.ErrExecTimeout) {
				return fmt.Errorf("%s: %w", command.ErrExecutionTimeout, err)
			}
			return err
		}

		fmt.Println()
		fmt.Println(output)
		return nil
	},
}

// buildFallback wires the Gemini collaborator when one is configured; a
// missing provider just means the engine runs rules-only.
func buildFallback(ctx context.Context, cmd *cobra.Command, debug bool) engine.Fallback {
	provider, _ := cmd.Flags().GetString("ai-provider")
	if provider == "" {
		provider = viper.GetString("ai.provider")
	}
	if provider == "" {
		return nil
	}

	apiKey, _ := cmd.Flags().GetString("gemini-key")
	if apiKey == "" {
		apiKey = viper.GetString("ai.api_key")
	}
	model, _ := cmd.Flags().GetString("gemini-model")
	if model == "" {
		model = viper.GetString("ai.model")
	}

	client, err := ai.NewClient(ctx, ai.Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
		Debug:    debug,
	})
	if err != nil {
		if debug {
			fmt.Printf("fallback unavailable: %v\n", err)
		}
		return nil
	}
	return client
}

func printResult(result command.Result, format string) error {
	switch format {
	case "json":
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	case "yaml":
		payload, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Print(string(payload))
	case "text":
		if result.Success {
			fmt.Println("Command:     " + result.Command)
			fmt.Println("Description: " + result.Description)
			fmt.Printf("Confidence:  %.2f (%s)\n", result.Confidence, result.Method)
			break
		}
		fmt.Println("Could not generate a command: " + result.Error)
		if result.Suggestion != "" {
			fmt.Println(result.Suggestion)
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}

func init() {
	askCmd.Flags().Bool("execute", false, "run the generated command after validation")
	askCmd.Flags().Bool("no-fallback", false, "disable the LLM fallback, rules only")
	askCmd.Flags().String("profile", "", "AWS profile to use for execution")
	askCmd.Flags().String("region", "", "AWS region for regional services")
	askCmd.Flags().StringP("output", "o", "text", "Output format (text, json, or yaml)")
	askCmd.Flags().String("ai-provider", "", "fallback provider: gemini or gemini-api")
	askCmd.Flags().String("gemini-key", "", "Gemini API key (or set ai.api_key in config)")
	askCmd.Flags().String("gemini-model", "", "Gemini model override")

	rootCmd.AddCommand(askCmd)
}
