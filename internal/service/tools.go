package service

import (
	"context"

	"github.com/aura-social/liveroom/internal/domain"
)

// ToolAction is the closed host-tool action set.
type ToolAction string

const (
	ToolSettings   ToolAction = "settings"
	ToolRank       ToolAction = "rank"
	ToolLuckyBag   ToolAction = "luckybag"
	ToolMicLayout  ToolAction = "mic_layout"
	ToolResetCharm ToolAction = "reset_charm"
	ToolOpenMics   ToolAction = "open_mics"
)

// ProfileAction is the closed profile-sheet action set.
type ProfileAction string

const (
	ProfileGift        ProfileAction = "gift"
	ProfileMessage     ProfileAction = "message"
	ProfileEditProfile ProfileAction = "editProfile"
)

// ToolResult routes the caller: either a surface to open, or an executed
// state mutation.
type ToolResult struct {
	Open     ToolAction `json:"open,omitempty"`
	Executed bool       `json:"executed"`
}

// DispatchTool validates and routes a host-tool action. Structural actions
// (reset charm, open mics) execute here; the rest route to their surface.
// Non-host callers may only reach the lucky bag.
func (s *RoomService) DispatchTool(ctx context.Context, roomID, callerID string, action ToolAction) (*ToolResult, error) {
	rm, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsHost(callerID) && action != ToolLuckyBag {
		return nil, domain.ErrNotHost
	}

	switch action {
	case ToolSettings, ToolRank, ToolLuckyBag, ToolMicLayout:
		return &ToolResult{Open: action}, nil
	case ToolResetCharm:
		if err := s.ResetAllCharm(ctx, roomID, callerID); err != nil {
			return nil, err
		}
		return &ToolResult{Executed: true}, nil
	case ToolOpenMics:
		if err := s.OpenAllMics(ctx, roomID, callerID); err != nil {
			return nil, err
		}
		return &ToolResult{Executed: true}, nil
	default:
		return nil, domain.ErrUnknownToolAction
	}
}

// ProfileRoute is the handler-facing result of a profile action.
type ProfileRoute struct {
	Action       ProfileAction `json:"action"`
	RecipientIDs []string      `json:"recipientIds,omitempty"`
	PeerID       string        `json:"peerId,omitempty"`
}

// RouteProfileAction maps a profile-sheet action to its surface. The gift
// flow preselects the profiled user as sole recipient; message and
// edit-profile hand off to external surfaces.
func RouteProfileAction(action ProfileAction, targetUserID string) (*ProfileRoute, error) {
	switch action {
	case ProfileGift:
		return &ProfileRoute{Action: action, RecipientIDs: []string{targetUserID}}, nil
	case ProfileMessage:
		return &ProfileRoute{Action: action, PeerID: targetUserID}, nil
	case ProfileEditProfile:
		return &ProfileRoute{Action: action}, nil
	default:
		return nil, domain.ErrUnknownToolAction
	}
}
