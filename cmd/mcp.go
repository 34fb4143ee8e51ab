package cmd

import (
	"context"
	"fmt"
	"strings"

	"appdeck/internal/app"
	"appdeck/internal/index"
	"appdeck/internal/launch"
	"appdeck/internal/rank"
	"appdeck/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the application catalog",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	opener, err := e.opener()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess := session.New()
	sess.Seed(e.indexer.Cached(ctx))
	startScan(ctx, e, sess)

	cat := &catalog{
		session: sess,
		indexer: e.indexer,
		coord:   launch.NewCoordinator(e.store, opener, launch.NopTerminator{}),
	}

	s := mcpserver.NewMCPServer("appdeck", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(searchApplicationsTool(), cat.handleSearch)
	s.AddTool(listApplicationsTool(), cat.handleList)
	s.AddTool(launchApplicationTool(), cat.handleLaunch)
	s.AddTool(rescanApplicationsTool(), cat.handleRescan)

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchApplicationsTool() mcp.Tool {
	return mcp.NewTool("search_applications",
		mcp.WithDescription("Search installed applications by name. Names starting with the query rank first, then names containing it; recently launched apps rank higher within each group."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive substring of the application name"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 10)"),
		),
	)
}

func listApplicationsTool() mcp.Tool {
	return mcp.NewTool("list_applications",
		mcp.WithDescription("List installed applications, most recently launched first."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 50, 0 for all)"),
		),
	)
}

func launchApplicationTool() mcp.Tool {
	return mcp.NewTool("launch_application",
		mcp.WithDescription("Launch an installed application by its path, as returned by search_applications or list_applications. Records the launch in history."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute application path from a previous search or list result"),
		),
	)
}

func rescanApplicationsTool() mcp.Tool {
	return mcp.NewTool("rescan_applications",
		mcp.WithDescription("Scan application folders again and refresh the catalog. Use after installing or removing apps."),
	)
}

// --- Handlers ---

// catalog serves tool calls from one session kept fresh by background scans.
type catalog struct {
	session *session.Session
	indexer *index.Indexer
	coord   *launch.Coordinator
}

func (c *catalog) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	results := rank.Limit(rank.Rank(c.session.Candidates(), query), limit)
	return mcp.NewToolResultText(formatCatalog(fmt.Sprintf("Applications matching %q", query), results)), nil
}

func (c *catalog) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)
	results := rank.Limit(rank.Rank(c.session.Candidates(), ""), limit)
	return mcp.NewToolResultText(formatCatalog("Applications", results)), nil
}

func (c *catalog) handleLaunch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	rec, ok := findByPath(c.session.Candidates(), path)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%q is not a known application; call search_applications to find its path", path)), nil
	}
	if err := c.coord.Launch(ctx, rec); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("launch failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Launched %s (%s)", rec.DisplayName, rec.Path)), nil
}

func (c *catalog) handleRescan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gen := c.session.BeginScan()
	_, stats := c.indexer.Index(ctx, func(records []app.Record) bool {
		return c.session.Complete(gen, records)
	})
	if stats.Superseded {
		return mcp.NewToolResultText(fmt.Sprintf("Scan %s was superseded by a newer scan.", stats.ScanID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Scan %s found %d applications in %d roots (%d skipped).",
		stats.ScanID, stats.Candidates, stats.RootsScanned, stats.RootsSkipped)), nil
}

// --- Formatting helpers ---

func findByPath(records []app.Record, path string) (app.Record, bool) {
	for _, r := range records {
		if r.Path == path {
			return r, true
		}
	}
	return app.Record{}, false
}

func formatCatalog(title string, records []app.Record) string {
	if len(records) == 0 {
		return title + ": none found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%d)\n\n", title, len(records))
	for _, r := range records {
		fmt.Fprintf(&sb, "- **%s**: `%s` (last launched: %s)\n", r.DisplayName, r.Path, age(r.LastLaunched))
	}
	return sb.String()
}
