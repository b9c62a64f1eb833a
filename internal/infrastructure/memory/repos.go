package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var (
	_ repository.UserRepository             = (*UserRepo)(nil)
	_ repository.ProfileRepository          = (*ProfileRepo)(nil)
	_ repository.OrganizerRepository        = (*OrganizerRepo)(nil)
	_ repository.InvoiceRepository          = (*InvoiceRepo)(nil)
	_ repository.OrganizerInvoiceRepository = (*OrganizerInvoiceRepo)(nil)
	_ repository.InvoiceEventRepository     = (*EventRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s  *Store
	tx bool
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.s.write(r.tx, func(d *data) error {
		for _, u := range d.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		d.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *data) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(d *data) {
		for _, u := range d.users {
			if u.Email == email {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

// ProfileRepo perfiles en memoria.
type ProfileRepo struct {
	s  *Store
	tx bool
}

func (r *ProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.profiles[p.UserID]; ok {
			return domain.ErrDuplicate
		}
		d.profiles[p.UserID] = *p
		return nil
	})
}

func (r *ProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	return r.s.write(r.tx, func(d *data) error {
		cur, ok := d.profiles[p.UserID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.DisplayName = p.DisplayName
		cur.Email = p.Email
		cur.Bank = p.Bank
		cur.UpdatedAt = p.UpdatedAt
		d.profiles[p.UserID] = cur
		return nil
	})
}

func (r *ProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	var out *entity.Profile
	r.s.read(func(d *data) {
		if p, ok := d.profiles[userID]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetByUserIDForUpdate la serialización la da la transacción.
func (r *ProfileRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*entity.Profile, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *ProfileRepo) GetByStripeCustomerID(_ context.Context, customerID string) (*entity.Profile, error) {
	var out *entity.Profile
	r.s.read(func(d *data) {
		for _, p := range d.profiles {
			if customerID != "" && p.StripeCustomerID == customerID {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r *ProfileRepo) IncrementInvoiceCount(_ context.Context, userID string) error {
	return r.s.write(r.tx, func(d *data) error {
		p, ok := d.profiles[userID]
		if !ok {
			return domain.ErrNotFound
		}
		p.InvoiceCount++
		d.profiles[userID] = p
		return nil
	})
}

func (r *ProfileRepo) UpdateSubscription(_ context.Context, userID, status, customerID string) error {
	return r.s.write(r.tx, func(d *data) error {
		p, ok := d.profiles[userID]
		if !ok {
			return domain.ErrNotFound
		}
		p.SubscriptionStatus = status
		if customerID != "" {
			p.StripeCustomerID = customerID
		}
		d.profiles[userID] = p
		return nil
	})
}

// OrganizerRepo organizadores en memoria.
type OrganizerRepo struct {
	s  *Store
	tx bool
}

func (r *OrganizerRepo) Create(_ context.Context, org *entity.Organizer) error {
	return r.s.write(r.tx, func(d *data) error {
		for _, o := range d.organizers {
			if o.OrganizerCode == org.OrganizerCode {
				return domain.ErrDuplicate
			}
		}
		d.organizers[org.ID] = *org
		return nil
	})
}

func (r *OrganizerRepo) UpdateCode(_ context.Context, id, code string) error {
	return r.s.write(r.tx, func(d *data) error {
		cur, ok := d.organizers[id]
		if !ok {
			return domain.ErrNotFound
		}
		for _, o := range d.organizers {
			if o.ID != id && o.OrganizerCode == code {
				return domain.ErrDuplicate
			}
		}
		cur.OrganizerCode = code
		d.organizers[id] = cur
		return nil
	})
}

func (r *OrganizerRepo) GetByID(_ context.Context, id string) (*entity.Organizer, error) {
	return r.find(func(o entity.Organizer) bool { return o.ID == id }), nil
}

func (r *OrganizerRepo) GetByUserID(_ context.Context, userID string) (*entity.Organizer, error) {
	return r.find(func(o entity.Organizer) bool { return o.UserID == userID }), nil
}

func (r *OrganizerRepo) GetByCode(_ context.Context, code string) (*entity.Organizer, error) {
	return r.find(func(o entity.Organizer) bool { return o.OrganizerCode == code }), nil
}

func (r *OrganizerRepo) find(match func(entity.Organizer) bool) *entity.Organizer {
	var out *entity.Organizer
	r.s.read(func(d *data) {
		for _, o := range d.organizers {
			if match(o) {
				o := o
				out = &o
				return
			}
		}
	})
	return out
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct {
	s  *Store
	tx bool
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.invoices[inv.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, v := range d.invoices {
			if v.TalentID == inv.TalentID && v.InvoiceNumber == inv.InvoiceNumber {
				return fmt.Errorf("%w: número %s", domain.ErrDuplicate, inv.InvoiceNumber)
			}
		}
		d.invoices[inv.ID] = copyInvoice(*inv)
		return nil
	})
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.invoices[inv.ID]; !ok {
			return domain.ErrNotFound
		}
		d.invoices[inv.ID] = copyInvoice(*inv)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.s.read(func(d *data) {
		if v, ok := d.invoices[id]; ok {
			c := copyInvoice(v)
			out = &c
		}
	})
	return out, nil
}

func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) NumberExists(_ context.Context, talentID, number string) (bool, error) {
	exists := false
	r.s.read(func(d *data) {
		for _, v := range d.invoices {
			if v.TalentID == talentID && v.InvoiceNumber == number {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (r *InvoiceRepo) ListByTalent(_ context.Context, talentID string, limit, offset int) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	r.s.read(func(d *data) {
		for _, v := range d.invoices {
			if v.TalentID == talentID {
				c := copyInvoice(v)
				list = append(list, &c)
			}
		}
	})
	sortByCreatedDesc(list, func(v *entity.Invoice) (int64, string) { return v.CreatedAt.UnixNano(), v.ID })
	return page(list, limit, offset), nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.invoices[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.invoices, id)
		return nil
	})
}

// OrganizerInvoiceRepo facturas del organizador en memoria.
type OrganizerInvoiceRepo struct {
	s  *Store
	tx bool
}

func (r *OrganizerInvoiceRepo) Create(_ context.Context, oi *entity.OrganizerInvoice) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.invoices[oi.InvoiceID]; !ok {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, oi.InvoiceID)
		}
		for _, v := range d.orgInvoices {
			if v.InvoiceID == oi.InvoiceID {
				return domain.ErrDuplicate
			}
		}
		d.orgInvoices[oi.ID] = copyOrgInvoice(*oi)
		return nil
	})
}

func (r *OrganizerInvoiceRepo) Update(_ context.Context, oi *entity.OrganizerInvoice) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.orgInvoices[oi.ID]; !ok {
			return domain.ErrNotFound
		}
		d.orgInvoices[oi.ID] = copyOrgInvoice(*oi)
		return nil
	})
}

func (r *OrganizerInvoiceRepo) GetByID(_ context.Context, id string) (*entity.OrganizerInvoice, error) {
	return r.find(func(v entity.OrganizerInvoice) bool { return v.ID == id }), nil
}

func (r *OrganizerInvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.OrganizerInvoice, error) {
	return r.GetByID(ctx, id)
}

func (r *OrganizerInvoiceRepo) GetByInvoiceID(_ context.Context, invoiceID string) (*entity.OrganizerInvoice, error) {
	return r.find(func(v entity.OrganizerInvoice) bool { return v.InvoiceID == invoiceID }), nil
}

func (r *OrganizerInvoiceRepo) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*entity.OrganizerInvoice, error) {
	return r.GetByInvoiceID(ctx, invoiceID)
}

func (r *OrganizerInvoiceRepo) ListByOrganizer(_ context.Context, organizerID, status string, limit, offset int) ([]*entity.OrganizerInvoice, error) {
	var list []*entity.OrganizerInvoice
	r.s.read(func(d *data) {
		for _, v := range d.orgInvoices {
			if v.OrganizerID == organizerID && (status == "" || v.Status == status) {
				c := copyOrgInvoice(v)
				list = append(list, &c)
			}
		}
	})
	sortByCreatedDesc(list, func(v *entity.OrganizerInvoice) (int64, string) { return v.CreatedAt.UnixNano(), v.ID })
	return page(list, limit, offset), nil
}

func (r *OrganizerInvoiceRepo) Delete(_ context.Context, id string) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.orgInvoices[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.orgInvoices, id)
		return nil
	})
}

func (r *OrganizerInvoiceRepo) find(match func(entity.OrganizerInvoice) bool) *entity.OrganizerInvoice {
	var out *entity.OrganizerInvoice
	r.s.read(func(d *data) {
		for _, v := range d.orgInvoices {
			if match(v) {
				c := copyOrgInvoice(v)
				out = &c
				return
			}
		}
	})
	return out
}

// EventRepo historial en memoria, en orden de inserción.
type EventRepo struct {
	s  *Store
	tx bool
}

func (r *EventRepo) Create(_ context.Context, e *entity.InvoiceEvent) error {
	return r.s.write(r.tx, func(d *data) error {
		d.events = append(d.events, *e)
		return nil
	})
}

func (r *EventRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.InvoiceEvent, error) {
	var list []*entity.InvoiceEvent
	r.s.read(func(d *data) {
		for _, e := range d.events {
			if e.InvoiceID == invoiceID {
				e := e
				list = append(list, &e)
			}
		}
	})
	return list, nil
}
