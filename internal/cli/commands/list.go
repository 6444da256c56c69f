package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/contratos/internal/cli/output"
	"github.com/leapstack-labs/contratos/internal/resource"
	"github.com/leapstack-labs/contratos/internal/table"
)

// Resource names accepted by list and browse.
const (
	ResourceContracts = "contracts"
	ResourceCompanies = "companies"
	ResourceUsers     = "users"
)

var resourceAliases = map[string]string{
	"contracts": ResourceContracts,
	"contratos": ResourceContracts,
	"companies": ResourceCompanies,
	"empresas":  ResourceCompanies,
	"suppliers": ResourceCompanies,
	"users":     ResourceUsers,
	"usuarios":  ResourceUsers,
	"persons":   ResourceUsers,
}

var resourceTitles = map[string]string{
	ResourceContracts: "Contratos",
	ResourceCompanies: "Empresas",
	ResourceUsers:     "Usuários",
}

// resolveResource maps a command argument to a resource name.
func resolveResource(arg string) (string, error) {
	if name, ok := resourceAliases[strings.ToLower(arg)]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown resource %q (expected contracts, companies or users)", arg)
}

func completeResources(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{ResourceContracts, ResourceCompanies, ResourceUsers}, cobra.ShellCompDirectiveNoFileComp
}

// ListOptions holds options for the list command.
type ListOptions struct {
	Page        int
	Size        int
	Query       string
	Sort        string
	Credentials CredentialOptions
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list <contracts|companies|users>",
		Short: "Fetch one page of a table",
		Long: `Fetch one page of contracts, companies or users from the backend.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # First page of contracts
  contratos list contracts

  # Third page of 20 companies matching "acme", as JSON
  contratos list companies --page 3 --size 20 --query acme -o json

  # Contracts by end date, newest first
  contratos list contracts --sort fim,desc`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeResources,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "Page size (one of table.page_sizes)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Search text")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort column, optionally followed by ,desc")
	opts.Credentials.AddFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions, arg string) error {
	name, err := resolveResource(arg)
	if err != nil {
		return err
	}
	if opts.Page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", opts.Page)
	}

	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()
	client, err := cmdCtx.Authenticate(ctx, opts.Credentials, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	tableOpts := cmdCtx.Cfg.TableOptions(cmdCtx.Logger)

	switch name {
	case ResourceContracts:
		return listTable(ctx, cmdCtx.Renderer, name, resource.NewContractTable(client, tableOpts...), opts)
	case ResourceCompanies:
		return listTable(ctx, cmdCtx.Renderer, name, resource.NewCompanyTable(client, tableOpts...), opts)
	default:
		return listTable(ctx, cmdCtx.Renderer, name, resource.NewUserTable(client, tableOpts...), opts)
	}
}

// fetchPage drives c headlessly to the page described by opts and waits for
// the result.
func fetchPage[T any](ctx context.Context, c *table.Controller[T], opts *ListOptions) (table.View[T], error) {
	fetched := false

	if opts.Size > 0 && opts.Size != c.Query().PageSize {
		if err := c.SetPageSize(opts.Size); err != nil {
			return table.View[T]{}, err
		}
		fetched = true
	}
	if strings.TrimSpace(opts.Query) != "" {
		c.CommitSearch(opts.Query)
		fetched = true
	}
	if opts.Sort != "" {
		if err := applySort(c, opts.Sort); err != nil {
			return table.View[T]{}, err
		}
		fetched = true
	}
	if !fetched {
		c.Refresh()
	}
	if err := wait(ctx, c); err != nil {
		return table.View[T]{}, err
	}

	if opts.Page > 1 {
		c.SetPage(opts.Page - 1)
		if err := wait(ctx, c); err != nil {
			return table.View[T]{}, err
		}
	}

	view := c.View()
	if view.Err != "" {
		return view, errors.New(view.Err)
	}
	return view, nil
}

// applySort parses "field[,desc]" and toggles the column into that state.
func applySort[T any](c *table.Controller[T], spec string) error {
	field, dir, _ := strings.Cut(spec, ",")
	if err := c.ToggleSort(strings.TrimSpace(field)); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return nil
	case "desc":
		return c.ToggleSort(strings.TrimSpace(field))
	default:
		return fmt.Errorf("invalid sort direction %q (expected asc or desc)", dir)
	}
}

// wait blocks until c has no fetch in flight or ctx ends.
func wait[T any](ctx context.Context, c *table.Controller[T]) error {
	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// listPage is the JSON form of a fetched page.
type listPage struct {
	Resource  string              `json:"resource"`
	Page      int                 `json:"page"`
	PageCount int                 `json:"pageCount"`
	PageSize  int                 `json:"pageSize"`
	Total     int                 `json:"total"`
	Search    string              `json:"search,omitempty"`
	Rows      []map[string]string `json:"rows"`
}

func listTable[T any](ctx context.Context, r *output.Renderer, name string, c *table.Controller[T], opts *ListOptions) error {
	defer c.Close()

	view, err := fetchPage(ctx, c, opts)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(r, name, view)
	default:
		listText(r, name, view)
		return nil
	}
}

func listJSON[T any](r *output.Renderer, name string, view table.View[T]) error {
	page := listPage{
		Resource:  name,
		Page:      view.PageNumber(),
		PageCount: view.PageCount,
		PageSize:  view.PageSize,
		Total:     view.Total,
		Search:    view.Search,
		Rows:      make([]map[string]string, 0, len(view.Rows)),
	}
	for _, row := range view.Rows {
		cells := view.Cells(row)
		item := make(map[string]string, len(cells))
		for i, col := range view.Columns {
			item[col.Key] = cells[i]
		}
		page.Rows = append(page.Rows, item)
	}
	return r.JSON(page)
}

func listText[T any](r *output.Renderer, name string, view table.View[T]) {
	r.Header(1, fmt.Sprintf("%s (%d total)", resourceTitles[name], view.Total))

	headers := make([]string, len(view.Columns))
	for i, col := range view.Columns {
		headers[i] = col.Label
	}
	rows := make([][]string, len(view.Rows))
	for i, row := range view.Rows {
		rows[i] = view.Cells(row)
	}
	r.Table(headers, rows)

	footer := fmt.Sprintf("Página %d de %d", view.PageNumber(), view.PageCount)
	if view.Search != "" {
		footer += fmt.Sprintf(" · busca %q", view.Search)
	}
	r.Println(r.Muted(footer))
}
