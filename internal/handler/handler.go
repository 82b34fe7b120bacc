package handler

import (
	"context"

	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/domain"
	"github.com/aura-social/liveroom/internal/service"
	"github.com/aura-social/liveroom/internal/ws"
)

// GiftCatalog is the read side of the gift table.
type GiftCatalog interface {
	Get(ctx context.Context, id string) (*domain.Gift, error)
	List(ctx context.Context) ([]domain.Gift, error)
	RecentEvents(ctx context.Context, roomID string, limit int) ([]domain.GiftEvent, error)
}

// SkinSource resolves per-layout mic skins. Missing entries are not
// errors; the client falls back to the default visual.
type SkinSource interface {
	MicSkins(ctx context.Context) (map[int]string, error)
}

// UserDirectory reads and writes user profiles. Profiles originate from
// the identity provider in front of this service.
type UserDirectory interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, u *domain.User) error
}

// Handler holds all dependencies needed by the HTTP and WebSocket routes.
type Handler struct {
	cfg      *config.Config
	rooms    *service.RoomService
	gifts    *service.GiftService
	messages *service.MessageService
	rank     *service.RankService
	combos   *service.ComboService
	users    UserDirectory
	catalog  GiftCatalog
	skins    SkinSource
	hub      *ws.Hub
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg      *config.Config
	Rooms    *service.RoomService
	Gifts    *service.GiftService
	Messages *service.MessageService
	Rank     *service.RankService
	Combos   *service.ComboService
	Users    UserDirectory
	Catalog  GiftCatalog
	Skins    SkinSource
	Hub      *ws.Hub
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:      deps.Cfg,
		rooms:    deps.Rooms,
		gifts:    deps.Gifts,
		messages: deps.Messages,
		rank:     deps.Rank,
		combos:   deps.Combos,
		users:    deps.Users,
		catalog:  deps.Catalog,
		skins:    deps.Skins,
		hub:      deps.Hub,
	}
}
