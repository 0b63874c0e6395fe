package crm

import (
	"context"

	"github.com/yungbote/clientcontacts-backend/internal/data/db"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
)

type contactRepo struct {
	s *session
}

func (r *contactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	return r.getOne(ctx, id, false)
}

func (r *contactRepo) GetByIDWithClients(ctx context.Context, id int64) (*domain.Contact, error) {
	return r.getOne(ctx, id, true)
}

func (r *contactRepo) getOne(ctx context.Context, id int64, withLinks bool) (*domain.Contact, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []db.ContactRow
	if err := tx.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out, err := r.s.restoreContacts(tx, rows, withLinks)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *contactRepo) GetAll(ctx context.Context) ([]*domain.Contact, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []db.ContactRow
	if err := tx.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.s.restoreContacts(tx, rows, true)
}

func (r *contactRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	tx, err := r.s.conn(ctx)
	if err != nil {
		return false, err
	}
	var count int64
	if err := tx.Model(&db.ContactRow{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *contactRepo) Add(ctx context.Context, contact *domain.Contact) error {
	if _, err := r.s.conn(ctx); err != nil {
		return err
	}
	return r.s.tracker.AddContact(contact)
}
