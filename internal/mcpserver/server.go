// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Bloggerbox categories and posts as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/bloggerbox/internal/blogservice"
)

// Server wraps the MCP server with Bloggerbox tools.
type Server struct {
	mcp        *server.MCPServer
	categories *blogservice.CategoryService
	posts      *blogservice.PostService
	handlers   map[string]server.ToolHandlerFunc
}

// New creates a new MCP server with all Bloggerbox tools registered.
func New(categories *blogservice.CategoryService, posts *blogservice.PostService, version string) *Server {
	s := &Server{
		categories: categories,
		posts:      posts,
		handlers:   make(map[string]server.ToolHandlerFunc),
	}

	s.mcp = server.NewMCPServer(
		"Bloggerbox",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.addTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List all categories, or those whose name contains a fragment (case-insensitive)."),
		mcp.WithString("name", mcp.Description("Optional name fragment")),
	), s.listCategories)

	s.addTool(mcp.NewTool("get_category",
		mcp.WithDescription("Get a category by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Category UUID")),
	), s.getCategory)

	s.addTool(mcp.NewTool("create_category",
		mcp.WithDescription("Create a category. Names are unique ignoring case."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Category name, 1-255 characters")),
	), s.createCategory)

	s.addTool(mcp.NewTool("rename_category",
		mcp.WithDescription("Rename an existing category. Posts keep referencing it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Category UUID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New category name")),
	), s.renameCategory)

	s.addTool(mcp.NewTool("delete_category",
		mcp.WithDescription("Delete a category. Fails while any post references it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Category UUID")),
	), s.deleteCategory)

	s.addTool(mcp.NewTool("list_category_posts",
		mcp.WithDescription("List the posts of a category, oldest first."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Category UUID")),
	), s.listCategoryPosts)

	s.addTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List all posts oldest first, or those whose title or content contains a topic."),
		mcp.WithString("topic", mcp.Description("Optional keyword, case-insensitive")),
	), s.listPosts)

	s.addTool(mcp.NewTool("get_post",
		mcp.WithDescription("Get a post by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Post UUID")),
	), s.getPost)

	s.addTool(mcp.NewTool("create_post",
		mcp.WithDescription("Create a post in an existing category. "+
			"Read the bloggerbox://data-model resource for the field rules."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Post body")),
		mcp.WithString("category_id", mcp.Required(), mcp.Description("UUID of an existing category")),
	), s.createPost)

	s.addTool(mcp.NewTool("update_post",
		mcp.WithDescription("Replace title, content and category of a post. The creation date is kept."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Post UUID")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Post body")),
		mcp.WithString("category_id", mcp.Required(), mcp.Description("UUID of an existing category")),
	), s.updatePost)

	s.addTool(mcp.NewTool("delete_post",
		mcp.WithDescription("Delete a post."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Post UUID")),
	), s.deletePost)

	s.mcp.AddResource(
		mcp.NewResource(DataModelURI, "Data Model",
			mcp.WithResourceDescription("Categories, posts and the consistency rules the tools enforce."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDataModelResource,
	)

	return s
}

func (s *Server) addTool(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.handlers[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func requireID(req mcp.CallToolRequest, key string) (uuid.UUID, error) {
	raw, err := req.RequireString(key)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: invalid UUID %q", key, raw)
	}
	return id, nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if strings.TrimSpace(name) == "" {
		list, err := s.categories.ListAll(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(list)
	}
	list, err := s.categories.Search(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}

func (s *Server) getCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) createCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.categories.Create(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) renameCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.categories.Rename(ctx, id, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) deleteCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) listCategoryPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.posts.ListByCategory(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "")
	if topic == "" {
		list, err := s.posts.ListAll(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(list)
	}
	list, err := s.posts.Search(ctx, topic)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}

func (s *Server) getPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p)
}

// postArgs reads the title, content and category_id arguments shared by create and update.
func postArgs(req mcp.CallToolRequest) (title, content string, categoryID uuid.UUID, err error) {
	if title, err = req.RequireString("title"); err != nil {
		return "", "", uuid.Nil, err
	}
	if content, err = req.RequireString("content"); err != nil {
		return "", "", uuid.Nil, err
	}
	if categoryID, err = requireID(req, "category_id"); err != nil {
		return "", "", uuid.Nil, err
	}
	return title, content, categoryID, nil
}

func (s *Server) createPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, content, categoryID, err := postArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.posts.Create(ctx, title, content, categoryID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p)
}

func (s *Server) updatePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, content, categoryID, err := postArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.posts.Update(ctx, id, title, content, categoryID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p)
}

func (s *Server) deletePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) readDataModelResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DataModelURI,
			MIMEType: "text/markdown",
			Text:     DataModelContract,
		},
	}, nil
}
