// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con APP_STORAGE=memory; las transacciones se serializan y
// un error dentro de la transacción restaura la copia tomada al inicio.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/talent-invoice/internal/application/auth"
	"github.com/jhoicas/talent-invoice/internal/application/invoicing"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var (
	_ invoicing.TxRunner = (*Store)(nil)
	_ auth.TxRunner      = (*Store)(nil)
)

type data struct {
	users       map[string]entity.User
	profiles    map[string]entity.Profile
	organizers  map[string]entity.Organizer
	invoices    map[string]entity.Invoice
	orgInvoices map[string]entity.OrganizerInvoice
	events      []entity.InvoiceEvent
}

func newData() data {
	return data{
		users:       map[string]entity.User{},
		profiles:    map[string]entity.Profile{},
		organizers:  map[string]entity.Organizer{},
		invoices:    map[string]entity.Invoice{},
		orgInvoices: map[string]entity.OrganizerInvoice{},
	}
}

func (d data) clone() data {
	c := newData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.profiles {
		c.profiles[k] = v
	}
	for k, v := range d.organizers {
		c.organizers[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	for k, v := range d.orgInvoices {
		c.orgInvoices[k] = copyOrgInvoice(v)
	}
	c.events = append([]entity.InvoiceEvent(nil), d.events...)
	return c
}

// Store contenedor de todas las tablas en memoria.
type Store struct {
	txMu sync.Mutex   // serializa transacciones y escrituras sueltas
	mu   sync.RWMutex // protege d
	d    data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Profiles repositorio de perfiles fuera de transacción.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

// Organizers repositorio de organizadores fuera de transacción.
func (s *Store) Organizers() *OrganizerRepo { return &OrganizerRepo{s: s} }

// Invoices repositorio de facturas fuera de transacción.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// OrganizerInvoices repositorio de facturas del organizador fuera de transacción.
func (s *Store) OrganizerInvoices() *OrganizerInvoiceRepo { return &OrganizerInvoiceRepo{s: s} }

// Events repositorio del historial fuera de transacción.
func (s *Store) Events() *EventRepo { return &EventRepo{s: s} }

// RunInvoicing ejecuta fn con repos de la transacción; si fn falla se restaura el estado previo.
func (s *Store) RunInvoicing(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	orgInvoiceRepo repository.OrganizerInvoiceRepository,
	profileRepo repository.ProfileRepository,
	eventRepo repository.InvoiceEventRepository,
) error) error {
	return s.run(ctx, func() error {
		return fn(&InvoiceRepo{s: s, tx: true}, &OrganizerInvoiceRepo{s: s, tx: true}, &ProfileRepo{s: s, tx: true}, &EventRepo{s: s, tx: true})
	})
}

// RunAccount igual que RunInvoicing para el registro de cuentas.
func (s *Store) RunAccount(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	organizerRepo repository.OrganizerRepository,
) error) error {
	return s.run(ctx, func() error {
		return fn(&UserRepo{s: s, tx: true}, &ProfileRepo{s: s, tx: true}, &OrganizerRepo{s: s, tx: true})
	})
}

func (s *Store) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// write aplica una mutación; fuera de transacción también toma txMu.
func (s *Store) write(tx bool, fn func(d *data) error) error {
	if !tx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.d)
}

func (s *Store) read(fn func(d *data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.d)
}

func copyInvoice(v entity.Invoice) entity.Invoice {
	v.Items = append([]entity.LineItem(nil), v.Items...)
	return v
}

func copyOrgInvoice(v entity.OrganizerInvoice) entity.OrganizerInvoice {
	v.Items = append([]entity.LineItem(nil), v.Items...)
	return v
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// sortByCreatedDesc ordena por created_at DESC con el id como desempate.
func sortByCreatedDesc[T any](list []*T, key func(*T) (int64, string)) {
	sort.Slice(list, func(i, j int) bool {
		ti, idi := key(list[i])
		tj, idj := key(list[j])
		if ti != tj {
			return ti > tj
		}
		return idi > idj
	})
}
