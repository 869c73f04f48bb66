package cli

import (
	"github.com/spf13/cobra"
)

// Command builds the trafficctl command tree.
func (a *App) Command() *cobra.Command {
	var jsonOut bool

	root := &cobra.Command{
		Use:           "trafficctl",
		Short:         "Predict traffic on a route and manage your search history and favorites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.json = jsonOut
		},
	}
	root.PersistentFlags().StringVar(&a.profile, "profile", DefaultProfile, "session profile name")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.searchCommand(),
		a.historyCommand(),
		a.favoritesCommand(),
		a.healthCommand(),
	)
	return root
}
