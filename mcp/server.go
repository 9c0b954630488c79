// Package mcp exposes the knowledge-base query facade as Model Context
// Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/kbase"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSearchLimit caps search results when the caller gives no limit.
const DefaultSearchLimit = 10

// GetArticleRequest is the input of the get_article tool.
type GetArticleRequest struct {
	ID string `json:"id"` // KB-ID such as KB-020
}

// GetArticleResponse carries the article and its rendered Markdown.
type GetArticleResponse struct {
	Article  *kbase.Article `json:"article"`
	Markdown string         `json:"markdown"` // Normalized article text
}

// SearchRequest is the input of the search tool. A Limit of zero means
// DefaultSearchLimit.
type SearchRequest struct {
	Query             string `json:"query"`
	Limit             int    `json:"limit"`
	IncludeDeprecated bool   `json:"include_deprecated"`
}

// SearchResponse lists matches in rank order.
type SearchResponse struct {
	Results []kbase.SearchResult `json:"results"`
}

// GetRelatedRequest is the input of the get_related tool.
type GetRelatedRequest struct {
	ID string `json:"id"`
}

// GetRelatedResponse holds the related IDs of article ID.
type GetRelatedResponse struct {
	ID      string   `json:"id"`
	Related []string `json:"related"`
}

// NewServer creates an MCP server with the get_article, search and
// get_related tools backed by corpus.
func NewServer(corpus kbase.CorpusService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"kbase",
		version,
		server.WithToolCapabilities(false),
	)

	getArticleTool := mcp.NewTool("get_article",
		mcp.WithDescription("Get a knowledge-base article by its KB-ID"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The article ID, e.g. KB-020"),
		),
	)
	s.AddTool(getArticleTool, mcp.NewTypedToolHandler(getArticleHandler(corpus)))

	searchTool := mcp.NewTool("search",
		mcp.WithDescription("Full-text search over knowledge-base articles. Title matches rank first; wrap the query in double quotes for a phrase search."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms; all terms must match"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 10)"),
		),
		mcp.WithBoolean("include_deprecated",
			mcp.Description("Include deprecated articles in results"),
		),
	)
	s.AddTool(searchTool, mcp.NewTypedToolHandler(searchHandler(corpus)))

	getRelatedTool := mcp.NewTool("get_related",
		mcp.WithDescription("List the IDs an article links to under Related Articles"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The article ID, e.g. KB-020"),
		),
	)
	s.AddTool(getRelatedTool, mcp.NewTypedToolHandler(getRelatedHandler(corpus)))

	return s
}

func getArticleHandler(corpus kbase.CorpusService) func(ctx context.Context, request mcp.CallToolRequest, args GetArticleRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetArticleRequest) (*mcp.CallToolResult, error) {
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		a, err := corpus.GetArticle(ctx, args.ID)
		if err != nil {
			return mcp.NewToolResultError(kbase.ErrorMessage(err)), nil
		}

		return jsonResult(GetArticleResponse{Article: a, Markdown: kbase.FormatArticle(a)})
	}
}

func searchHandler(corpus kbase.CorpusService) func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
		if args.Query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		limit := args.Limit
		if limit <= 0 {
			limit = DefaultSearchLimit
		}

		results, err := corpus.Search(ctx, args.Query, kbase.SearchOptions{
			Limit:             limit,
			IncludeDeprecated: args.IncludeDeprecated,
		})
		if err != nil {
			return mcp.NewToolResultError(kbase.ErrorMessage(err)), nil
		}

		return jsonResult(SearchResponse{Results: results})
	}
}

func getRelatedHandler(corpus kbase.CorpusService) func(ctx context.Context, request mcp.CallToolRequest, args GetRelatedRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetRelatedRequest) (*mcp.CallToolResult, error) {
		if args.ID == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		ids, err := corpus.GetRelated(ctx, args.ID)
		if err != nil {
			return mcp.NewToolResultError(kbase.ErrorMessage(err)), nil
		}

		return jsonResult(GetRelatedResponse{ID: kbase.NormalizeID(args.ID), Related: ids})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio serves s over in and out until in closes or ctx is canceled.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}
