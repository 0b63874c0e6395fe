package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/clientcontacts-backend/internal/data/db"
	"github.com/yungbote/clientcontacts-backend/internal/data/tracking"
	domain "github.com/yungbote/clientcontacts-backend/internal/domain/crm"
	ports "github.com/yungbote/clientcontacts-backend/internal/modules/crm"
	"github.com/yungbote/clientcontacts-backend/internal/platform/logger"
)

var errSessionFinished = errors.New("session already committed or rolled back")

type Store struct {
	db    *gorm.DB
	log   *logger.Logger
	hooks Hooks
}

func NewStore(db *gorm.DB, baseLog *logger.Logger) *Store {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Store{db: db, log: baseLog.With("repo", "CRMStore"), hooks: noopHooks{}}
}

// WithHooks reports commit outcomes to h.
func (s *Store) WithHooks(h Hooks) *Store {
	if h != nil {
		s.hooks = h
	}
	return s
}

func (s *Store) Begin(ctx context.Context) (ports.Session, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin tx: %w", tx.Error)
	}
	sess := &session{tx: tx, log: s.log, hooks: s.hooks}
	sess.clients = &clientRepo{s: sess}
	sess.contacts = &contactRepo{s: sess}
	return sess, nil
}

type session struct {
	tx       *gorm.DB
	log      *logger.Logger
	hooks    Hooks
	tracker  tracking.Tracker
	clients  *clientRepo
	contacts *contactRepo
	done     bool
}

func (s *session) Clients() ports.ClientRepository   { return s.clients }
func (s *session) Contacts() ports.ContactRepository { return s.contacts }

func (s *session) conn(ctx context.Context) (*gorm.DB, error) {
	if s.done {
		return nil, errSessionFinished
	}
	return s.tx.WithContext(ctx), nil
}

func (s *session) Commit(ctx context.Context) (affected int, err error) {
	const op = "crm.session.Commit"
	start := time.Now()
	defer func() {
		s.hooks.ObserveOperation(op, statusOf(err), affected, time.Since(start))
		if err != nil {
			s.log.Warn("commit failed", "error", err)
		}
	}()

	tx, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	n, err := s.flush(tx)
	if err != nil {
		_ = s.Rollback()
		return 0, err
	}
	if err := tx.Commit().Error; err != nil {
		s.finish()
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.finish()
	return n, nil
}

func (s *session) flush(tx *gorm.DB) (int, error) {
	const op = "crm.session.Commit"
	affected := 0

	for _, c := range s.tracker.NewClients() {
		row := db.ClientRow{Name: c.Name(), ClientCode: c.ClientCode()}
		res := tx.Create(&row)
		if res.Error != nil {
			return 0, mapError(op, fmt.Sprintf("Client code '%s' is already in use.", c.ClientCode()), res.Error)
		}
		if err := c.AssignID(row.ID); err != nil {
			return 0, err
		}
		affected += int(res.RowsAffected)
	}
	for _, c := range s.tracker.NewContacts() {
		row := db.ContactRow{Name: c.Name(), Surname: c.Surname(), Email: c.Email()}
		res := tx.Create(&row)
		if res.Error != nil {
			return 0, mapError(op, "This email address is already in use.", res.Error)
		}
		if err := c.AssignID(row.ID); err != nil {
			return 0, err
		}
		affected += int(res.RowsAffected)
	}

	added, removed := s.tracker.LinkChanges()
	for _, p := range added {
		res := tx.Create(&db.ClientContactRow{ClientID: p.ClientID, ContactID: p.ContactID})
		if res.Error != nil {
			return 0, mapError(op, fmt.Sprintf("Contact %d could not be linked to client %d.", p.ContactID, p.ClientID), res.Error)
		}
		affected += int(res.RowsAffected)
	}
	for _, p := range removed {
		res := tx.
			Where("client_id = ? AND contact_id = ?", p.ClientID, p.ContactID).
			Delete(&db.ClientContactRow{})
		if res.Error != nil {
			return 0, fmt.Errorf("%s: %w", op, res.Error)
		}
		affected += int(res.RowsAffected)
	}
	return affected, nil
}

func (s *session) Rollback() error {
	if s.done {
		return nil
	}
	err := s.tx.Rollback().Error
	s.finish()
	if err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) {
		return err
	}
	return nil
}

func (s *session) finish() {
	s.done = true
	s.tracker.Reset()
}

// restoreClients rebuilds aggregates for rows and, when withLinks is set, attaches their links
// and the linked contacts. Contacts linked to several of the clients share one instance.
func (s *session) restoreClients(tx *gorm.DB, rows []db.ClientRow, withLinks bool) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(rows))
	byID := make(map[int64]*domain.Client, len(rows))
	for _, row := range rows {
		c, err := domain.RestoreClient(row.ID, row.Name, row.ClientCode)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		byID[row.ID] = c
	}
	if withLinks && len(rows) > 0 {
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		var links []db.ClientContactRow
		if err := tx.Where("client_id IN ?", ids).Order("client_id, contact_id").Find(&links).Error; err != nil {
			return nil, err
		}
		contactIDs := make([]int64, 0, len(links))
		for _, l := range links {
			contactIDs = append(contactIDs, l.ContactID)
		}
		var contactRows []db.ContactRow
		if len(contactIDs) > 0 {
			if err := tx.Where("id IN ?", contactIDs).Find(&contactRows).Error; err != nil {
				return nil, err
			}
		}
		contacts := make(map[int64]*domain.Contact, len(contactRows))
		for _, row := range contactRows {
			c, err := domain.RestoreContact(row.ID, row.Name, row.Surname, row.Email)
			if err != nil {
				return nil, err
			}
			contacts[row.ID] = c
		}
		for _, l := range links {
			client, contact := byID[l.ClientID], contacts[l.ContactID]
			if client == nil || contact == nil {
				continue
			}
			if err := domain.RestoreLink(client, contact); err != nil {
				return nil, err
			}
		}
	}
	for _, c := range out {
		s.tracker.TrackClient(c)
	}
	return out, nil
}

// restoreContacts mirrors restoreClients.
func (s *session) restoreContacts(tx *gorm.DB, rows []db.ContactRow, withLinks bool) ([]*domain.Contact, error) {
	out := make([]*domain.Contact, 0, len(rows))
	byID := make(map[int64]*domain.Contact, len(rows))
	for _, row := range rows {
		c, err := domain.RestoreContact(row.ID, row.Name, row.Surname, row.Email)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		byID[row.ID] = c
	}
	if withLinks && len(rows) > 0 {
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		var links []db.ClientContactRow
		if err := tx.Where("contact_id IN ?", ids).Order("contact_id, client_id").Find(&links).Error; err != nil {
			return nil, err
		}
		clientIDs := make([]int64, 0, len(links))
		for _, l := range links {
			clientIDs = append(clientIDs, l.ClientID)
		}
		var clientRows []db.ClientRow
		if len(clientIDs) > 0 {
			if err := tx.Where("id IN ?", clientIDs).Find(&clientRows).Error; err != nil {
				return nil, err
			}
		}
		clients := make(map[int64]*domain.Client, len(clientRows))
		for _, row := range clientRows {
			c, err := domain.RestoreClient(row.ID, row.Name, row.ClientCode)
			if err != nil {
				return nil, err
			}
			clients[row.ID] = c
		}
		for _, l := range links {
			client, contact := clients[l.ClientID], byID[l.ContactID]
			if client == nil || contact == nil {
				continue
			}
			if err := domain.RestoreLink(client, contact); err != nil {
				return nil, err
			}
		}
	}
	for _, c := range out {
		s.tracker.TrackContact(c)
	}
	return out, nil
}
