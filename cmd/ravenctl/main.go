// Command ravenctl is a development tool for NexusRavenV2 function calling:
// it renders prompts from function-definition files, parses completions,
// and runs end-to-end generation against a configured endpoint.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nexusflow/ravenutils/pkg/client"
	"github.com/nexusflow/ravenutils/pkg/funcs"
	"github.com/nexusflow/ravenutils/pkg/output"
	"github.com/nexusflow/ravenutils/pkg/prompt"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand creates the `ravenctl` command.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ravenctl",
		Short:         "Utilities for NexusRavenV2 function calling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRenderCommand(),
		newParseCommand(),
		newGenerateCommand(),
	)
	return root
}

// newRenderCommand creates the `ravenctl render` command.
func newRenderCommand() *cobra.Command {
	var definitions string

	cmd := &cobra.Command{
		Use:   "render [query]",
		Short: "Render a function-calling prompt",
		Long: `Render the NexusRavenV2 prompt for a set of function definitions.

The definitions file is a JSON array of functions:

  [{"name": "add",
    "description": "Add two numbers.",
    "arguments": [{"name": "a", "type": "int"}, {"name": "b", "type": "int"}],
    "return_type": "int"}]

With a query argument the prompt is fully rendered, including the
<human_end> turn marker; without one the {user_query} placeholder is kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := templateFromFile(definitions)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), tmpl.String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), tmpl.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&definitions, "functions", "f", "", "path to a JSON function-definitions file")
	_ = cmd.MarkFlagRequired("functions")
	return cmd
}

// newParseCommand creates the `ravenctl parse` command.
func newParseCommand() *cobra.Command {
	var asCalls bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a model completion from stdin",
		Long: `Parse a raw NexusRavenV2 completion read from stdin and print the
call and thought sections as JSON. With --calls the call section is further
decomposed into call expressions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			out, err := output.Parse(string(raw))
			if err != nil {
				return err
			}

			if !asCalls {
				return printJSON(cmd.OutOrStdout(), out)
			}

			calls, err := out.Calls()
			if err != nil {
				return err
			}
			rendered := make([]string, len(calls))
			for i, call := range calls {
				rendered[i] = call.String()
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"calls":   rendered,
				"thought": out.Thought,
			})
		},
	}

	cmd.Flags().BoolVar(&asCalls, "calls", false, "decompose the call section into call expressions")
	return cmd
}

// newGenerateCommand creates the `ravenctl generate` command.
func newGenerateCommand() *cobra.Command {
	var (
		definitions string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "generate <query>",
		Short: "Run an end-to-end generation against the configured endpoint",
		Long: `Render the prompt for the given definitions and query, send it to the
endpoint configured via RAVEN_-prefixed environment variables (see
RAVEN_BASE_URL), and print the parsed result as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := templateFromFile(definitions)
			if err != nil {
				return err
			}

			cfg, err := client.LoadConfig()
			if err != nil {
				return err
			}

			opts := []client.Option{}
			if verbose {
				log := logrus.New()
				log.SetLevel(logrus.DebugLevel)
				log.SetOutput(cmd.ErrOrStderr())
				opts = append(opts, client.WithLogger(log))
			}

			c, err := client.New(cfg, opts...)
			if err != nil {
				return err
			}
			defer c.Close()

			out, err := c.Call(cmd.Context(), tmpl, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&definitions, "functions", "f", "", "path to a JSON function-definitions file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
	_ = cmd.MarkFlagRequired("functions")
	return cmd
}

// templateFromFile loads function definitions from a JSON file and builds a
// prompt template over them.
func templateFromFile(path string) (*prompt.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}

	var definitions []*funcs.Function
	if err := json.Unmarshal(raw, &definitions); err != nil {
		return nil, fmt.Errorf("decode definitions: %w", err)
	}

	for _, fn := range definitions {
		if err := fn.Validate(); err != nil {
			return nil, err
		}
	}

	return prompt.New(definitions), nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
