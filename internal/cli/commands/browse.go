package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/contratos/internal/resource"
	"github.com/leapstack-labs/contratos/internal/tui"
)

// BrowseOptions holds options for the browse command.
type BrowseOptions struct {
	Credentials CredentialOptions
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse <contracts|companies|users>",
		Short: "Browse a table interactively in the terminal",
		Long: `Open an interactive terminal table over contracts, companies or users.

Keys:
  /        search (Enter commits, Esc leaves the box)
  n / p    next / previous page
  g / G    first / last page
  [ / ]    select column
  s        cycle sort on the selected column
  + / -    change page size
  r        refresh
  q        quit`,
		Example: `  contratos browse contracts
  contratos browse users --email ana@example.com`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, args[0])
		},
	}
	opts.Credentials.AddFlags(cmd)

	return cmd
}

func runBrowse(cmd *cobra.Command, opts *BrowseOptions, arg string) error {
	name, err := resolveResource(arg)
	if err != nil {
		return err
	}

	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()
	client, err := cmdCtx.Authenticate(ctx, opts.Credentials, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	// fetch errors are shown on screen; log lines would tear the alt screen
	tableOpts := cmdCtx.Cfg.TableOptions(slog.New(slog.DiscardHandler))
	title := resourceTitles[name]
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()

	switch name {
	case ResourceContracts:
		c := resource.NewContractTable(client, tableOpts...)
		defer c.Close()
		return tui.Run(ctx, tui.New(title, c), in, out)
	case ResourceCompanies:
		c := resource.NewCompanyTable(client, tableOpts...)
		defer c.Close()
		return tui.Run(ctx, tui.New(title, c), in, out)
	default:
		c := resource.NewUserTable(client, tableOpts...)
		defer c.Close()
		return tui.Run(ctx, tui.New(title, c), in, out)
	}
}
