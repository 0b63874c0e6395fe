package crm

import (
	"context"

	"github.com/yungbote/clientcontacts-backend/internal/data/db"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
)

type clientRepo struct {
	s *session
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return r.getOne(ctx, id, false)
}

func (r *clientRepo) GetByIDWithContacts(ctx context.Context, id int64) (*domain.Client, error) {
	return r.getOne(ctx, id, true)
}

func (r *clientRepo) getOne(ctx context.Context, id int64, withLinks bool) (*domain.Client, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []db.ClientRow
	if err := tx.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out, err := r.s.restoreClients(tx, rows, withLinks)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *clientRepo) GetAll(ctx context.Context) ([]*domain.Client, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []db.ClientRow
	if err := tx.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.s.restoreClients(tx, rows, true)
}

func (r *clientRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}
	var count int64
	if err := tx.Model(&db.ClientRow{}).Where("client_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clientRepo) Add(ctx context.Context, client *domain.Client) error {
	if _, err := r.s.conn(ctx); err != nil {
		return err
	}
	return r.s.tracker.AddClient(client)
}
