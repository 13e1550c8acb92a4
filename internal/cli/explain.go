package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"candle-analyzer/internal/catalog"
	"candle-analyzer/internal/explain"
)

func newExplainCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <name>",
		Short: "Ask the AI model to explain a pattern",
		Long: `Request an educational explanation of a pattern covering its formation and
psychology, how to identify it, a trading strategy and confirmation signals.

Requires an API key in credentials.toml or API_KEY/GEMINI_API_KEY/OPENAI_API_KEY.`,
		Example: `  analyzer explain Hammer
  analyzer explain "Evening Star" --markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			p, err := catalog.Get(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if app.Explainer == nil {
				output.Error("No API key configured. Set API_KEY or edit credentials.toml.")
				return errNoAPIKey
			}

			markdown, _ := cmd.Flags().GetBool("markdown")
			if !output.IsJSON() {
				output.Dim("Asking the model about %s...", p.Name)
			}

			var text string
			if markdown {
				text, err = app.Explainer.Markdown(cmd.Context(), p)
			} else {
				text, err = app.Explainer.Explain(cmd.Context(), p)
			}
			if err != nil {
				app.Logger.Debug().Err(err).Str("pattern", p.Name).Msg("Explanation failed")
				output.Error("%s", explain.UserMessage)
				return err
			}

			if output.IsJSON() {
				key := "html"
				if markdown {
					key = "markdown"
				}
				return output.JSON(map[string]string{"pattern": p.Name, key: text})
			}
			output.Println(text)
			return nil
		},
	}

	cmd.Flags().Bool("markdown", false, "print the raw Markdown instead of HTML")
	return cmd
}

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the live market chart embed for a currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			curFlag, _ := cmd.Flags().GetString("currency")

			cur, err := app.currency(curFlag)
			if err != nil {
				return err
			}
			inst, err := app.Embedder.Mount(cur.Symbol)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(inst.Options)
			}
			html, err := inst.HTML()
			if err != nil {
				return err
			}
			output.Println(string(html))
			return nil
		},
	}

	cmd.Flags().StringP("currency", "c", "", "market to chart (default from config)")
	return cmd
}

func newCurrenciesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List selectable markets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			currencies := catalog.Currencies()
			if output.IsJSON() {
				return output.JSON(currencies)
			}

			table := NewTable(output, "", "Market", "Chart Symbol")
			for _, c := range currencies {
				marker := ""
				if c.Value == app.Config.UI.DefaultCurrency {
					marker = output.Green("●")
				}
				table.AddRow(marker, c.Label, c.Symbol)
			}
			table.Render()
			return nil
		},
	}
}
