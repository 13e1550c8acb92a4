package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"candle-analyzer/internal/catalog"
	"candle-analyzer/internal/logging"
	"candle-analyzer/internal/models"
)

func newFavoritesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite patterns per market",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			curFlag, _ := cmd.Flags().GetString("currency")

			if curFlag != "" {
				cur, err := catalog.LookupCurrency(curFlag)
				if err != nil {
					return err
				}
				names := app.Favorites.ForCurrency(cur.Value)
				if output.IsJSON() {
					if names == nil {
						names = []string{}
					}
					return output.JSON(map[string]interface{}{"currency": cur.Value, "patterns": names})
				}
				if len(names) == 0 {
					output.Dim("No favorites for %s", cur.Value)
					return nil
				}
				output.Bold("Favorites for %s", cur.Value)
				for _, n := range names {
					output.Printf("  %s %s\n", output.Star(true), n)
				}
				return nil
			}

			groups := app.Favorites.Grouped()
			if output.IsJSON() {
				if groups == nil {
					groups = []models.FavoriteGroup{}
				}
				return output.JSON(groups)
			}
			if len(groups) == 0 {
				output.Dim("No favorites yet. Use 'analyzer favorites toggle <pattern>'.")
				return nil
			}

			table := NewTable(output, "Pattern", "Markets")
			for _, g := range groups {
				table.AddRow(g.Pattern, strings.Join(g.Currencies, ", "))
			}
			table.Render()
			return nil
		},
	}
	list.Flags().StringP("currency", "c", "", "only show favorites for this market")

	toggle := &cobra.Command{
		Use:     "toggle <pattern>",
		Short:   "Add or remove a favorite",
		Example: `  analyzer favorites toggle "Shooting Star" --currency GOLD`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			curFlag, _ := cmd.Flags().GetString("currency")

			p, err := catalog.Get(strings.Join(args, " "))
			if err != nil {
				return err
			}
			cur, err := app.currency(curFlag)
			if err != nil {
				return err
			}

			added, err := app.Favorites.Toggle(cmd.Context(), p.Name, cur.Value)
			if err != nil {
				output.Error("Failed to save favorites: %v", err)
				return err
			}
			logging.LogFavorite(app.Logger, p.Name, cur.Value, added)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"pattern":  p.Name,
					"currency": cur.Value,
					"favorite": added,
				})
			}
			if added {
				output.Success("%s Added %s to %s favorites", output.Star(true), p.Name, cur.Value)
			} else {
				output.Info("Removed %s from %s favorites", p.Name, cur.Value)
			}
			return nil
		},
	}
	toggle.Flags().StringP("currency", "c", "", "market (default from config)")

	cmd.AddCommand(list, toggle)
	return cmd
}
