// Package mcp exposes the organizer service as an MCP server: tools for
// the lifecycle and response operations, resources for roster listings.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/courtside/internal/organizer"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Courtside MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over the organizer service.
type Server struct {
	mcpServer *mcp.Server
	svc       *organizer.Service
}

// New creates a configured MCP server.
func New(svc *organizer.Service) (*Server, error) {
	if svc == nil {
		return nil, errors.New("organizer service is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{})
	server := &Server{mcpServer: mcpServer, svc: svc}

	registerEventTools(mcpServer, svc)
	registerRosterTools(mcpServer, svc)
	registerGrantTools(mcpServer, svc)
	registerRosterResources(mcpServer, svc)

	return server, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("mcp server is not configured")
	}
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func registerEventTools(mcpServer *mcp.Server, svc *organizer.Service) {
	mcp.AddTool(mcpServer, EventCreateTool(), EventCreateHandler(svc))
	mcp.AddTool(mcpServer, EventGetTool(), EventGetHandler(svc))
	mcp.AddTool(mcpServer, EventRespondTool(), EventRespondHandler(svc))
	mcp.AddTool(mcpServer, EventsOwnedListTool(), EventsOwnedListHandler(svc))
	mcp.AddTool(mcpServer, InvitesPendingListTool(), InvitesPendingListHandler(svc))
}

func registerRosterTools(mcpServer *mcp.Server, svc *organizer.Service) {
	mcp.AddTool(mcpServer, PlayerRegisterTool(), PlayerRegisterHandler(svc))
}

func registerGrantTools(mcpServer *mcp.Server, svc *organizer.Service) {
	mcp.AddTool(mcpServer, GrantIssueTool(), GrantIssueHandler(svc))
	mcp.AddTool(mcpServer, GrantRespondTool(), GrantRespondHandler(svc))
}

// registerRosterResources registers readable roster MCP resources.
func registerRosterResources(mcpServer *mcp.Server, svc *organizer.Service) {
	mcpServer.AddResource(RosterListResource(), RosterListResourceHandler(svc))
}
