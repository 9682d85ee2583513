// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func window[T any](all []T, page repository.Page) []T {
	start := min(max(page.Offset, 0), len(all))
	end := len(all)
	if page.Limit > 0 {
		end = min(start+page.Limit, len(all))
	}
	return append([]T{}, all[start:end]...)
}

// Users is a mutex-guarded UserRepository keyed by id with a unique email.
type Users struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.User
	// Fail, when set, is returned by every call.
	Fail error
}

var _ repository.UserRepository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{byID: map[string]domain.User{}}
}

func (r *Users) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = repository.NewID()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	stored := *user
	stored.Password = ""
	r.byID[user.ID] = stored
	r.order = append(r.order, user.ID)
	return nil
}

func (r *Users) UpdateProfile(_ context.Context, id string, profile repository.UserProfile) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for other, existing := range r.byID {
		if other != id && existing.Email == profile.Email {
			return nil, repository.ErrDuplicate
		}
	}
	user.Username, user.Email, user.Role = profile.Username, profile.Email, profile.Role
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return &user, nil
}

func (r *Users) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	user, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return nil
}

func (r *Users) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return &user, nil
}

func (r *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	for _, user := range r.byID {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) List(_ context.Context, page repository.Page) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, 0, r.Fail
	}
	all := r.allLocked()
	return window(all, page), int64(len(all)), nil
}

func (r *Users) Search(_ context.Context, term string, page repository.Page) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	needle := strings.ToLower(term)
	matches := []domain.User{}
	for _, user := range r.allLocked() {
		if strings.Contains(strings.ToLower(user.Username), needle) || strings.Contains(strings.ToLower(user.Email), needle) {
			matches = append(matches, user)
		}
	}
	return window(matches, page), nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func (r *Users) allLocked() []domain.User {
	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Tickets is an in-memory TicketRepository.
type Tickets struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.Ticket
	Fail  error
}

var _ repository.TicketRepository = (*Tickets)(nil)

func NewTickets() *Tickets {
	return &Tickets{byID: map[string]domain.Ticket{}}
}

func (r *Tickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	now := time.Now().UTC()
	ticket.ID = repository.NewID()
	ticket.CreatedAt, ticket.UpdatedAt = now, now
	if ticket.Comments == nil {
		ticket.Comments = []domain.Comment{}
	}
	r.byID[ticket.ID] = cloneTicket(*ticket)
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *Tickets) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	stored, ok := r.byID[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	ticket.UpdatedAt = time.Now().UTC()
	stored.Title = ticket.Title
	stored.Description = ticket.Description
	stored.Status = ticket.Status
	stored.Priority = ticket.Priority
	stored.AssignedTo = ticket.AssignedTo
	stored.UpdatedAt = ticket.UpdatedAt
	r.byID[ticket.ID] = stored
	return nil
}

func (r *Tickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	ticket, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ticket = cloneTicket(ticket)
	return &ticket, nil
}

func (r *Tickets) List(_ context.Context, filter repository.TicketFilter, page repository.Page) ([]domain.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, 0, r.Fail
	}
	matches := []domain.Ticket{}
	for _, id := range r.order {
		ticket := r.byID[id]
		if filter.UserID != "" && ticket.UserID != filter.UserID {
			continue
		}
		if filter.AssignedTo != "" && (ticket.AssignedTo == nil || *ticket.AssignedTo != filter.AssignedTo) {
			continue
		}
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && ticket.Priority != filter.Priority {
			continue
		}
		matches = append(matches, cloneTicket(ticket))
	}
	return window(matches, page), int64(len(matches)), nil
}

func (r *Tickets) AddComment(_ context.Context, id string, comment domain.Comment) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	ticket, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ticket.Comments = append(slices.Clone(ticket.Comments), comment)
	ticket.UpdatedAt = time.Now().UTC()
	r.byID[id] = ticket
	out := cloneTicket(ticket)
	return &out, nil
}

func (r *Tickets) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.Comments = slices.Clone(t.Comments)
	if t.Comments == nil {
		t.Comments = []domain.Comment{}
	}
	if t.AssignedTo != nil {
		v := *t.AssignedTo
		t.AssignedTo = &v
	}
	return t
}

// table is the shared shape of the inventory doubles.
type table[T any] struct {
	mu    sync.Mutex
	order []string
	byID  map[string]T
	Fail  error
}

func (t *table[T]) insert(id string, v T) {
	t.byID[id] = v
	t.order = append(t.order, id)
}

func (t *table[T]) get(id string) (*T, error) {
	if t.Fail != nil {
		return nil, t.Fail
	}
	v, ok := t.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (t *table[T]) getMany(ids []string) ([]T, error) {
	if t.Fail != nil {
		return nil, t.Fail
	}
	out := []T{}
	for _, id := range t.order {
		if slices.Contains(ids, id) {
			out = append(out, t.byID[id])
		}
	}
	return out, nil
}

func (t *table[T]) replace(id string, v T) error {
	if t.Fail != nil {
		return t.Fail
	}
	if _, ok := t.byID[id]; !ok {
		return repository.ErrNotFound
	}
	t.byID[id] = v
	return nil
}

func (t *table[T]) list(page repository.Page) ([]T, int64, error) {
	if t.Fail != nil {
		return nil, 0, t.Fail
	}
	all := make([]T, 0, len(t.order))
	for _, id := range t.order {
		all = append(all, t.byID[id])
	}
	return window(all, page), int64(len(all)), nil
}

func (t *table[T]) remove(id string) error {
	if t.Fail != nil {
		return t.Fail
	}
	if _, ok := t.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.byID, id)
	t.order = slices.DeleteFunc(t.order, func(v string) bool { return v == id })
	return nil
}

// Categories is an in-memory CategoryRepository with a unique name.
type Categories struct{ table[domain.Category] }

var _ repository.CategoryRepository = (*Categories)(nil)

func NewCategories() *Categories {
	return &Categories{table: table[domain.Category]{byID: map[string]domain.Category{}}}
}

func (r *Categories) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	for _, existing := range r.byID {
		if existing.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	category.ID = repository.NewID()
	r.insert(category.ID, *category)
	return nil
}

func (r *Categories) Update(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.byID {
		if id != category.ID && existing.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	return r.replace(category.ID, *category)
}

func (r *Categories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *Categories) GetByIDs(_ context.Context, ids []string) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getMany(ids)
}

func (r *Categories) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return false, r.Fail
	}
	for id, existing := range r.byID {
		if id != excludeID && existing.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *Categories) List(_ context.Context, page repository.Page) ([]domain.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(page)
}

func (r *Categories) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(id)
}

// Suppliers is an in-memory SupplierRepository.
type Suppliers struct{ table[domain.Supplier] }

var _ repository.SupplierRepository = (*Suppliers)(nil)

func NewSuppliers() *Suppliers {
	return &Suppliers{table: table[domain.Supplier]{byID: map[string]domain.Supplier{}}}
}

func (r *Suppliers) Create(_ context.Context, supplier *domain.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	supplier.ID = repository.NewID()
	supplier.CreatedAt = time.Now().UTC()
	r.insert(supplier.ID, *supplier)
	return nil
}

func (r *Suppliers) Update(_ context.Context, supplier *domain.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, err := r.get(supplier.ID)
	if err != nil {
		return err
	}
	supplier.CreatedAt = existing.CreatedAt
	return r.replace(supplier.ID, *supplier)
}

func (r *Suppliers) GetByID(_ context.Context, id string) (*domain.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *Suppliers) GetByIDs(_ context.Context, ids []string) ([]domain.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getMany(ids)
}

func (r *Suppliers) List(_ context.Context, page repository.Page) ([]domain.Supplier, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(page)
}

func (r *Suppliers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(id)
}

// Items is an in-memory ItemRepository. References are not checked here.
type Items struct{ table[domain.Item] }

var _ repository.ItemRepository = (*Items)(nil)

func NewItems() *Items {
	return &Items{table: table[domain.Item]{byID: map[string]domain.Item{}}}
}

func (r *Items) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	item.ID = repository.NewID()
	item.CreatedAt = time.Now().UTC()
	r.insert(item.ID, *item)
	return nil
}

func (r *Items) Update(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, err := r.get(item.ID)
	if err != nil {
		return err
	}
	item.CreatedAt = existing.CreatedAt
	return r.replace(item.ID, *item)
}

func (r *Items) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *Items) List(_ context.Context, page repository.Page) ([]domain.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(page)
}

func (r *Items) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(id)
}
