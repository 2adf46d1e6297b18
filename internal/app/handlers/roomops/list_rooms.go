package roomops

import (
	"context"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
)

const ListRoomsKey = "room.list"

type ListRoomsQuery struct{}

func (ListRoomsQuery) Key() string { return ListRoomsKey }

type ListRoomsHandler struct {
	Factory uow.UoWFactory
}

func (h ListRoomsHandler) Handle(ctx context.Context, _ ListRoomsQuery) ([]dto.Room, error) {
	unit, owns, ctx, err := beginIfMissing(ctx, h.Factory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	rooms, err := unit.Rooms().All(ctx)
	if err := finish(ctx, unit, owns, err); err != nil {
		return nil, err
	}
	out := make([]dto.Room, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, *dto.NewRoom(rm))
	}
	return out, nil
}
