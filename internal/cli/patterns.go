package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"candle-analyzer/internal/catalog"
	"candle-analyzer/internal/chart"
	"candle-analyzer/internal/models"
)

const (
	sketchCols = 48
	sketchRows = 14
)

func newPatternsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patterns",
		Aliases: []string{"p"},
		Short:   "Browse the candlestick pattern library",
	}

	cmd.AddCommand(newPatternsListCmd(app))
	cmd.AddCommand(newPatternsShowCmd(app))
	cmd.AddCommand(newPatternsRenderCmd(app))
	return cmd
}

func newPatternsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patterns",
		Example: `  analyzer patterns list --type bullish
  analyzer patterns list --query star --currency GOLD`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			typ, _ := cmd.Flags().GetString("type")
			trend, _ := cmd.Flags().GetString("trend")
			query, _ := cmd.Flags().GetString("query")
			curFlag, _ := cmd.Flags().GetString("currency")

			cur, err := app.currency(curFlag)
			if err != nil {
				return err
			}

			patterns := catalog.Find(catalog.Filter{
				Type:  models.PatternType(typ),
				Trend: models.Trend(trend),
				Query: query,
			})

			if output.IsJSON() {
				if patterns == nil {
					patterns = []models.Pattern{}
				}
				return output.JSON(patterns)
			}

			if len(patterns) == 0 {
				output.Warning("No patterns match")
				return nil
			}

			table := NewTable(output, "", "Pattern", "Type", "Trend", "Candles", "Description")
			for _, p := range patterns {
				table.AddRow(
					output.Star(app.Favorites.IsFavorite(p.Name, cur.Value)),
					p.Name,
					output.PatternType(p.Type),
					string(p.Trend),
					strconv.Itoa(len(p.Candles)),
					TruncateString(p.Description, 50),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d patterns, favorites shown for %s", len(patterns), cur.Value)
			return nil
		},
	}

	cmd.Flags().String("type", "", "filter by type (Bullish, Bearish, Neutral)")
	cmd.Flags().String("trend", "", "filter by trend (Reversal, Continuation, Indecision)")
	cmd.Flags().StringP("query", "q", "", "search names and descriptions")
	cmd.Flags().StringP("currency", "c", "", "market for favorite markers")
	return cmd
}

func newPatternsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <name>",
		Short:   "Show a pattern with a terminal sketch",
		Example: `  analyzer patterns show "Morning Star"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			p, err := catalog.Get(strings.Join(args, " "))
			if err != nil {
				return err
			}
			g, err := app.Renderer.Render(p.Candles)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"pattern":   p,
					"geometry":  g,
					"favorites": favoriteCurrencies(app, p.Name),
				})
			}

			output.Bold("%s", p.Name)
			output.Printf("  %s · %s\n", output.PatternType(p.Type), p.Trend)
			output.Println()
			output.Println(p.Description)
			output.Println()

			output.Sketch(Sketch(g, sketchCols, sketchRows))
			output.Println()

			for i, c := range p.Candles {
				output.Printf("  %d. %s  %s\n", i+1, FormatOHLC(c), output.Direction(g.Candles[i].Direction))
			}

			if favs := favoriteCurrencies(app, p.Name); len(favs) > 0 {
				output.Println()
				output.Printf("  %s Favorite for %s\n", output.Star(true), strings.Join(favs, ", "))
			}
			return nil
		},
	}
}

func newPatternsRenderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Print the drawing geometry of a pattern",
		Example: `  analyzer patterns render Hammer
  analyzer patterns render "Bearish Engulfing" --svg --width 400 --height 300 > engulfing.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			p, err := catalog.Get(strings.Join(args, " "))
			if err != nil {
				return err
			}

			cfg := app.Renderer.Config()
			if cmd.Flags().Changed("width") {
				cfg.Width, _ = cmd.Flags().GetFloat64("width")
			}
			if cmd.Flags().Changed("height") {
				cfg.Height, _ = cmd.Flags().GetFloat64("height")
			}
			if cmd.Flags().Changed("padding") {
				cfg.Padding, _ = cmd.Flags().GetFloat64("padding")
			}
			r, err := chart.NewRenderer(cfg)
			if err != nil {
				return err
			}

			g, err := r.Render(p.Candles)
			if err != nil {
				return err
			}

			if svg, _ := cmd.Flags().GetBool("svg"); svg {
				return chart.WriteSVG(cmd.OutOrStdout(), g)
			}
			if output.IsJSON() {
				return output.JSON(g)
			}

			output.Bold("%s (%s x %s)", p.Name, FormatPrice(g.Width), FormatPrice(g.Height))
			table := NewTable(output, "#", "Dir", "Wick", "Body")
			for _, c := range g.Candles {
				table.AddRow(strconv.Itoa(c.Index), output.Direction(c.Direction), FormatLine(c.Wick), FormatRect(c.Body))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Bool("svg", false, "write an SVG document instead of a table")
	cmd.Flags().Float64("width", 0, "canvas width (default from config)")
	cmd.Flags().Float64("height", 0, "canvas height (default from config)")
	cmd.Flags().Float64("padding", 0, "vertical padding (default from config)")
	return cmd
}

func favoriteCurrencies(app *App, pattern string) []string {
	for _, g := range app.Favorites.Grouped() {
		if g.Pattern == pattern {
			return g.Currencies
		}
	}
	return []string{}
}
