package roomops

import (
	"context"

	"frontdesk/internal/app/uow"
)

func beginIfMissing(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (uow.UnitOfWork, bool, context.Context, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, ctx, nil
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, false, ctx, err
	}
	return unit, true, uow.ContextWithUnitOfWork(ctx, unit), nil
}

func finish(ctx context.Context, unit uow.UnitOfWork, owns bool, err error) error {
	if !owns {
		return err
	}
	if err != nil {
		_ = unit.Rollback(ctx)
		return err
	}
	return unit.Commit(ctx)
}
