package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/courtside/internal/event"
	"github.com/louisbranch/courtside/internal/organizer"
	"github.com/louisbranch/courtside/internal/waterfall"
)

const toolTimeout = 5 * time.Second

// InviteEntry represents one invite in tool results.
type InviteEntry struct {
	PlayerID   string `json:"player_id" jsonschema:"invited player identifier"`
	PlayerName string `json:"player_name" jsonschema:"invited player name"`
	Status     string `json:"status" jsonschema:"invite status (pending, accepted, declined)"`
	SentAt     string `json:"sent_at" jsonschema:"invite creation time (RFC 3339)"`
}

// ConfirmationEntry represents one confirmation in tool results.
type ConfirmationEntry struct {
	PlayerID    string `json:"player_id" jsonschema:"confirmed player identifier"`
	PlayerName  string `json:"player_name" jsonschema:"confirmed player name"`
	ConfirmedAt string `json:"confirmed_at" jsonschema:"confirmation time (RFC 3339)"`
}

// DeclineEntry represents one decline in tool results.
type DeclineEntry struct {
	PlayerID   string `json:"player_id" jsonschema:"declined player identifier"`
	PlayerName string `json:"player_name" jsonschema:"declined player name"`
	DeclinedAt string `json:"declined_at" jsonschema:"decline time (RFC 3339)"`
}

// EventResult represents one event in tool results.
type EventResult struct {
	ID            string              `json:"id" jsonschema:"event identifier"`
	OrganizerID   string              `json:"organizer_id" jsonschema:"organizer player identifier"`
	Date          string              `json:"date" jsonschema:"event date"`
	Time          string              `json:"time" jsonschema:"event start time"`
	Location      string              `json:"location" jsonschema:"event location"`
	PlayersNeeded int                 `json:"players_needed" jsonschema:"target headcount"`
	PriorityList  []string            `json:"priority_list" jsonschema:"ranked player identifiers"`
	Invites       []InviteEntry       `json:"invites" jsonschema:"invites in issuance order"`
	Confirmed     []ConfirmationEntry `json:"confirmed" jsonschema:"confirmations in acceptance order"`
	Declined      []DeclineEntry      `json:"declined" jsonschema:"declines in decline order"`
	Full          bool                `json:"full" jsonschema:"whether the target headcount is reached"`
}

func eventResult(evt event.Event) EventResult {
	result := EventResult{
		ID:            evt.ID,
		OrganizerID:   evt.OrganizerID,
		Date:          evt.Date,
		Time:          evt.Time,
		Location:      evt.Location,
		PlayersNeeded: evt.PlayersNeeded,
		PriorityList:  append([]string{}, evt.PriorityList...),
		Invites:       make([]InviteEntry, 0, len(evt.Invites)),
		Confirmed:     make([]ConfirmationEntry, 0, len(evt.Confirmed)),
		Declined:      make([]DeclineEntry, 0, len(evt.Declined)),
		Full:          evt.IsFull(),
	}
	for _, invite := range evt.Invites {
		result.Invites = append(result.Invites, InviteEntry{
			PlayerID:   invite.PlayerID,
			PlayerName: invite.PlayerName,
			Status:     string(invite.Status),
			SentAt:     invite.SentAt.UTC().Format(time.RFC3339),
		})
	}
	for _, confirmation := range evt.Confirmed {
		result.Confirmed = append(result.Confirmed, ConfirmationEntry{
			PlayerID:    confirmation.PlayerID,
			PlayerName:  confirmation.PlayerName,
			ConfirmedAt: confirmation.ConfirmedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, decline := range evt.Declined {
		result.Declined = append(result.Declined, DeclineEntry{
			PlayerID:   decline.PlayerID,
			PlayerName: decline.PlayerName,
			DeclinedAt: decline.DeclinedAt.UTC().Format(time.RFC3339),
		})
	}
	return result
}

// EventCreateInput represents the MCP tool input for event creation.
type EventCreateInput struct {
	OrganizerID   string   `json:"organizer_id" jsonschema:"organizer player identifier"`
	Date          string   `json:"date" jsonschema:"event date, e.g. 2024-06-01"`
	Time          string   `json:"time" jsonschema:"event start time, e.g. 18:00"`
	Location      string   `json:"location" jsonschema:"event location"`
	PlayersNeeded int      `json:"players_needed" jsonschema:"target headcount"`
	PriorityList  []string `json:"priority_list" jsonschema:"ranked player identifiers defining invite order"`
}

// EventCreateTool defines the MCP tool schema for creating events.
func EventCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_create",
		Description: "Creates a game and sends the initial wave of invites from the priority list",
	}
}

// EventCreateHandler executes an event creation request.
func EventCreateHandler(svc *organizer.Service) mcp.ToolHandlerFor[EventCreateInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventCreateInput) (*mcp.CallToolResult, EventResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		evt, err := svc.CreateEvent(runCtx, organizer.CreateEventInput{
			OrganizerID:   input.OrganizerID,
			Date:          input.Date,
			Time:          input.Time,
			Location:      input.Location,
			PlayersNeeded: input.PlayersNeeded,
			PriorityList:  input.PriorityList,
		})
		if err != nil {
			return nil, EventResult{}, fmt.Errorf("event create failed: %w", err)
		}
		return nil, eventResult(evt), nil
	}
}

// EventGetInput represents the MCP tool input for event reads.
type EventGetInput struct {
	EventID string `json:"event_id" jsonschema:"event identifier"`
}

// EventGetTool defines the MCP tool schema for reading one event.
func EventGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_get",
		Description: "Reads one game with its invite, confirmation, and decline state",
	}
}

// EventGetHandler executes an event read request.
func EventGetHandler(svc *organizer.Service) mcp.ToolHandlerFor[EventGetInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventGetInput) (*mcp.CallToolResult, EventResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		evt, err := svc.GetEvent(runCtx, input.EventID)
		if err != nil {
			return nil, EventResult{}, fmt.Errorf("event get failed: %w", err)
		}
		return nil, eventResult(evt), nil
	}
}

// EventRespondInput represents the MCP tool input for invite responses.
type EventRespondInput struct {
	EventID  string `json:"event_id" jsonschema:"event identifier"`
	PlayerID string `json:"player_id" jsonschema:"responding player identifier"`
	Decision string `json:"decision" jsonschema:"accept or decline"`
}

// EventRespondTool defines the MCP tool schema for invite responses.
func EventRespondTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_respond",
		Description: "Settles a pending invite with accept or decline and backfills from the priority list",
	}
}

// EventRespondHandler executes an invite response request.
func EventRespondHandler(svc *organizer.Service) mcp.ToolHandlerFor[EventRespondInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventRespondInput) (*mcp.CallToolResult, EventResult, error) {
		decision, err := waterfall.ParseDecision(input.Decision)
		if err != nil {
			return nil, EventResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		evt, err := svc.Respond(runCtx, input.EventID, input.PlayerID, decision)
		if err != nil {
			return nil, EventResult{}, fmt.Errorf("event respond failed: %w", err)
		}
		return nil, eventResult(evt), nil
	}
}

// EventListInput represents the MCP tool input for owned-event listings.
type EventListInput struct {
	OrganizerID string `json:"organizer_id" jsonschema:"organizer player identifier"`
}

// EventListResult represents a listing of events.
type EventListResult struct {
	Events []EventResult `json:"events" jsonschema:"events in creation order"`
}

// EventsOwnedListTool defines the MCP tool schema for owned-event listings.
func EventsOwnedListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "events_owned_list",
		Description: "Lists the games created by one organizer",
	}
}

// EventsOwnedListHandler executes an owned-event listing request.
func EventsOwnedListHandler(svc *organizer.Service) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		events, err := svc.ListOwnedEvents(runCtx, input.OrganizerID)
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("events owned list failed: %w", err)
		}
		return nil, eventListResult(events), nil
	}
}

// PendingInvitesInput represents the MCP tool input for pending-invite
// listings.
type PendingInvitesInput struct {
	PlayerID string `json:"player_id" jsonschema:"invited player identifier"`
}

// InvitesPendingListTool defines the MCP tool schema for pending-invite
// listings.
func InvitesPendingListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "invites_pending_list",
		Description: "Lists the games holding a pending invite for one player",
	}
}

// InvitesPendingListHandler executes a pending-invite listing request.
func InvitesPendingListHandler(svc *organizer.Service) mcp.ToolHandlerFor[PendingInvitesInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PendingInvitesInput) (*mcp.CallToolResult, EventListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		events, err := svc.ListPendingInvites(runCtx, input.PlayerID)
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("invites pending list failed: %w", err)
		}
		return nil, eventListResult(events), nil
	}
}

func eventListResult(events []event.Event) EventListResult {
	result := EventListResult{Events: make([]EventResult, 0, len(events))}
	for _, evt := range events {
		result.Events = append(result.Events, eventResult(evt))
	}
	return result
}

// PlayerRegisterInput represents the MCP tool input for player registration.
type PlayerRegisterInput struct {
	Name    string `json:"name" jsonschema:"player name"`
	Contact string `json:"contact" jsonschema:"optional contact; a placeholder is generated when omitted"`
}

// PlayerRegisterResult represents the MCP tool output for player
// registration.
type PlayerRegisterResult struct {
	ID      string `json:"id" jsonschema:"player identifier"`
	Name    string `json:"name" jsonschema:"player name"`
	Contact string `json:"contact" jsonschema:"player contact"`
}

// PlayerRegisterTool defines the MCP tool schema for registering players.
func PlayerRegisterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "player_register",
		Description: "Registers a player in the candidate roster",
	}
}

// PlayerRegisterHandler executes a player registration request.
func PlayerRegisterHandler(svc *organizer.Service) mcp.ToolHandlerFor[PlayerRegisterInput, PlayerRegisterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlayerRegisterInput) (*mcp.CallToolResult, PlayerRegisterResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		player, err := svc.RegisterPlayer(runCtx, input.Name, input.Contact)
		if err != nil {
			return nil, PlayerRegisterResult{}, fmt.Errorf("player register failed: %w", err)
		}
		return nil, PlayerRegisterResult{
			ID:      player.ID,
			Name:    player.Name,
			Contact: player.Contact,
		}, nil
	}
}

// GrantIssueInput represents the MCP tool input for minting RSVP grants.
type GrantIssueInput struct {
	EventID  string `json:"event_id" jsonschema:"event identifier"`
	PlayerID string `json:"player_id" jsonschema:"invited player identifier"`
}

// GrantIssueResult represents the MCP tool output for minting RSVP grants.
type GrantIssueResult struct {
	Grant string `json:"grant" jsonschema:"signed RSVP grant token"`
}

// GrantIssueTool defines the MCP tool schema for minting RSVP grants.
func GrantIssueTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rsvp_grant_issue",
		Description: "Mints a signed RSVP grant for a pending invite",
	}
}

// GrantIssueHandler executes an RSVP grant mint request.
func GrantIssueHandler(svc *organizer.Service) mcp.ToolHandlerFor[GrantIssueInput, GrantIssueResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GrantIssueInput) (*mcp.CallToolResult, GrantIssueResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		token, err := svc.IssueGrant(runCtx, input.EventID, input.PlayerID)
		if err != nil {
			return nil, GrantIssueResult{}, fmt.Errorf("rsvp grant issue failed: %w", err)
		}
		return nil, GrantIssueResult{Grant: token}, nil
	}
}

// GrantRespondInput represents the MCP tool input for grant-based responses.
type GrantRespondInput struct {
	Grant    string `json:"grant" jsonschema:"signed RSVP grant token"`
	Decision string `json:"decision" jsonschema:"accept or decline"`
}

// GrantRespondTool defines the MCP tool schema for grant-based responses.
func GrantRespondTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_respond_grant",
		Description: "Settles the pending invite named by a signed RSVP grant",
	}
}

// GrantRespondHandler executes a grant-based response request.
func GrantRespondHandler(svc *organizer.Service) mcp.ToolHandlerFor[GrantRespondInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GrantRespondInput) (*mcp.CallToolResult, EventResult, error) {
		decision, err := waterfall.ParseDecision(input.Decision)
		if err != nil {
			return nil, EventResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		evt, err := svc.RespondWithGrant(runCtx, input.Grant, decision)
		if err != nil {
			return nil, EventResult{}, fmt.Errorf("event respond grant failed: %w", err)
		}
		return nil, eventResult(evt), nil
	}
}

// RosterEntry represents one player in the roster resource payload.
type RosterEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// RosterListPayload represents the MCP resource payload for roster listings.
type RosterListPayload struct {
	Players []RosterEntry `json:"players"`
}

// RosterListResource defines the MCP resource for roster listings.
func RosterListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "roster_list",
		Title:       "Roster",
		Description: "Readable listing of registered players",
		MIMEType:    "application/json",
		URI:         "roster://list",
	}
}

// RosterListResourceHandler returns a readable roster listing resource.
func RosterListResourceHandler(svc *organizer.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if svc == nil {
			return nil, fmt.Errorf("roster list service is not configured")
		}

		uri := RosterListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		runCtx, cancel := context.WithTimeout(ctx, toolTimeout)
		defer cancel()

		players, err := svc.ListPlayers(runCtx)
		if err != nil {
			return nil, fmt.Errorf("roster list failed: %w", err)
		}

		payload := RosterListPayload{Players: make([]RosterEntry, 0, len(players))}
		for _, player := range players {
			payload.Players = append(payload.Players, RosterEntry{
				ID:      player.ID,
				Name:    player.Name,
				Contact: player.Contact,
			})
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal roster list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
