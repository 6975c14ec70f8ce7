// Package fakes implementaciones en memoria de los puertos de persistencia para tests.
package fakes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

// DB estado compartido por todos los repositorios fake.
type DB struct {
	mu           sync.Mutex
	Users        map[string]*entity.User
	DirectRoles  map[string]string
	Companies    map[string]*entity.Company
	Links        []entity.CompanyUser
	Leads        map[string]*entity.Lead
	Campaigns    map[string]*entity.Campaign
	Assignments  []entity.CampaignAssignment
	Revenue      []entity.CustomerRevenue
	Searches     map[string]*entity.SearchString
	FeatureSets  int // veces que se llamó SetFeatures
	FailLinkList error
}

// NewDB crea un estado vacío.
func NewDB() *DB {
	return &DB{
		Users:       map[string]*entity.User{},
		DirectRoles: map[string]string{},
		Companies:   map[string]*entity.Company{},
		Leads:       map[string]*entity.Lead{},
		Campaigns:   map[string]*entity.Campaign{},
		Searches:    map[string]*entity.SearchString{},
	}
}

// ── Users ────────────────────────────────────────────────────────────────────

// UserRepo fake de repository.UserRepository.
type UserRepo struct{ DB *DB }

var _ repository.UserRepository = UserRepo{}

func (r UserRepo) Create(_ context.Context, u *entity.User) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	for _, x := range r.DB.Users {
		if x.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.DB.Users[u.ID] = &cp
	return nil
}

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if u, ok := r.DB.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	for _, u := range r.DB.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r UserRepo) Update(_ context.Context, u *entity.User) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if _, ok := r.DB.Users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	r.DB.Users[u.ID] = &cp
	return nil
}

func (r UserRepo) ListIDs(_ context.Context) ([]string, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	ids := make([]string, 0, len(r.DB.Users))
	for id := range r.DB.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r UserRepo) GetDirectRole(_ context.Context, userID string) (string, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	return r.DB.DirectRoles[userID], nil
}

func (r UserRepo) SetDirectRole(_ context.Context, userID, role string) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	r.DB.DirectRoles[userID] = role
	return nil
}

func (r UserRepo) ListDirectory(_ context.Context, limit, offset int) ([]repository.UserDirectoryEntry, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	ids := make([]string, 0, len(r.DB.Users))
	for id := range r.DB.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []repository.UserDirectoryEntry
	for _, id := range ids {
		u := r.DB.Users[id]
		e := repository.UserDirectoryEntry{
			UserID: u.ID, Email: u.Email, Name: u.Name, Status: u.Status,
			Superadmin: u.Superadmin, DirectRole: r.DB.DirectRoles[u.ID], CreatedAt: u.CreatedAt,
		}
		for _, l := range r.DB.Links {
			if l.UserID == u.ID {
				e.CompanyID, e.CompanyRole, e.IsAdmin = l.CompanyID, l.Role, l.IsAdmin
				if c, ok := r.DB.Companies[l.CompanyID]; ok {
					e.CompanyName = c.Name
				}
				break
			}
		}
		out = append(out, e)
	}
	return page(out, limit, offset), nil
}

// ── Companies ────────────────────────────────────────────────────────────────

// CompanyRepo fake de repository.CompanyRepository.
type CompanyRepo struct{ DB *DB }

var _ repository.CompanyRepository = CompanyRepo{}

func (r CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	cp := *c
	r.DB.Companies[c.ID] = &cp
	return nil
}

func (r CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if c, ok := r.DB.Companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r CompanyRepo) sorted() []*entity.Company {
	list := make([]*entity.Company, 0, len(r.DB.Companies))
	for _, c := range r.DB.Companies {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (r CompanyRepo) First(_ context.Context) (*entity.Company, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	list := r.sorted()
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if _, ok := r.DB.Companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.DB.Companies[c.ID] = &cp
	return nil
}

func (r CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	return page(r.sorted(), limit, offset), nil
}

func (r CompanyRepo) Count(_ context.Context) (int, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	return len(r.DB.Companies), nil
}

func (r CompanyRepo) GetFeatures(_ context.Context, companyID string) (*entity.CompanyFeatures, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	c, ok := r.DB.Companies[companyID]
	if !ok {
		return nil, nil
	}
	return &entity.CompanyFeatures{CompanyID: c.ID, GoogleJobsEnabled: c.GoogleJobsEnabled}, nil
}

func (r CompanyRepo) SetFeatures(_ context.Context, f entity.CompanyFeatures) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	c, ok := r.DB.Companies[f.CompanyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.GoogleJobsEnabled = f.GoogleJobsEnabled
	r.DB.FeatureSets++
	return nil
}

// ── CompanyUsers ─────────────────────────────────────────────────────────────

// CompanyUserRepo fake de repository.CompanyUserRepository. Permite duplicados heredados
// cargados directamente en DB.Links; Upsert respeta la unicidad por usuario.
type CompanyUserRepo struct{ DB *DB }

var _ repository.CompanyUserRepository = CompanyUserRepo{}

func (r CompanyUserRepo) ListByUser(_ context.Context, userID string) ([]entity.CompanyUser, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if r.DB.FailLinkList != nil {
		return nil, r.DB.FailLinkList
	}
	var out []entity.CompanyUser
	for _, l := range r.DB.Links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r CompanyUserRepo) Upsert(_ context.Context, cu *entity.CompanyUser) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	for i, l := range r.DB.Links {
		if l.UserID == cu.UserID {
			keepID := l.ID
			r.DB.Links[i] = *cu
			r.DB.Links[i].ID = keepID
			return nil
		}
	}
	r.DB.Links = append(r.DB.Links, *cu)
	return nil
}

func (r CompanyUserRepo) InsertIfAbsent(_ context.Context, cu *entity.CompanyUser) (bool, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	for _, l := range r.DB.Links {
		if l.UserID == cu.UserID {
			return false, nil
		}
	}
	r.DB.Links = append(r.DB.Links, *cu)
	return true, nil
}

func (r CompanyUserRepo) DeleteByIDs(_ context.Context, ids []string) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.DB.Links[:0]
	for _, l := range r.DB.Links {
		if !drop[l.ID] {
			kept = append(kept, l)
		}
	}
	r.DB.Links = kept
	return nil
}

func (r CompanyUserRepo) Count(_ context.Context) (int, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	return len(r.DB.Links), nil
}

// TxRunner ejecuta el callback con los repos fake (sin rollback real).
type TxRunner struct {
	DB  *DB
	Err error // si no es nil, RunAssociation falla sin ejecutar fn
	// Before corre justo antes del callback: simula una escritura concurrente.
	Before func()
}

func (t TxRunner) RunAssociation(_ context.Context, fn func(repository.CompanyRepository, repository.CompanyUserRepository) error) error {
	if t.Err != nil {
		return t.Err
	}
	if t.Before != nil {
		t.Before()
	}
	return fn(CompanyRepo{DB: t.DB}, CompanyUserRepo{DB: t.DB})
}

// ── Leads ────────────────────────────────────────────────────────────────────

// LeadRepo fake de repository.LeadRepository.
type LeadRepo struct{ DB *DB }

var _ repository.LeadRepository = LeadRepo{}

func (r LeadRepo) Create(_ context.Context, l *entity.Lead) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	cp := *l
	r.DB.Leads[l.ID] = &cp
	return nil
}

func (r LeadRepo) GetByID(_ context.Context, companyID, id string) (*entity.Lead, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if l, ok := r.DB.Leads[id]; ok && l.CompanyID == companyID {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r LeadRepo) ListByCompany(_ context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	var out []*entity.Lead
	for _, l := range r.DB.Leads {
		if l.CompanyID != companyID || (f.Source != "" && l.Source != f.Source) || (f.Status != "" && l.Status != f.Status) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, f.Limit, f.Offset), nil
}

func (r LeadRepo) UpdateStatus(_ context.Context, companyID, id, status string) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	l, ok := r.DB.Leads[id]
	if !ok || l.CompanyID != companyID {
		return domain.ErrNotFound
	}
	l.Status = status
	return nil
}

// ── Campaigns ────────────────────────────────────────────────────────────────

// CampaignRepo fake de repository.CampaignRepository.
type CampaignRepo struct{ DB *DB }

var _ repository.CampaignRepository = CampaignRepo{}

func (r CampaignRepo) Create(_ context.Context, c *entity.Campaign) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	cp := *c
	r.DB.Campaigns[c.ID] = &cp
	return nil
}

func (r CampaignRepo) GetByID(_ context.Context, id string) (*entity.Campaign, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if c, ok := r.DB.Campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r CampaignRepo) List(_ context.Context, limit, offset int) ([]*entity.Campaign, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	var out []*entity.Campaign
	for _, c := range r.DB.Campaigns {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r CampaignRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Campaign, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	var out []*entity.Campaign
	for _, a := range r.DB.Assignments {
		if a.CompanyID == companyID {
			if c, ok := r.DB.Campaigns[a.CampaignID]; ok {
				cp := *c
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r CampaignRepo) Assign(_ context.Context, campaignID string, companyIDs []string) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	for _, cid := range companyIDs {
		exists := false
		for _, a := range r.DB.Assignments {
			if a.CampaignID == campaignID && a.CompanyID == cid {
				exists = true
				break
			}
		}
		if !exists {
			r.DB.Assignments = append(r.DB.Assignments, entity.CampaignAssignment{CampaignID: campaignID, CompanyID: cid, AssignedAt: time.Now()})
		}
	}
	return nil
}

func (r CampaignRepo) Unassign(_ context.Context, campaignID, companyID string) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	kept := r.DB.Assignments[:0]
	for _, a := range r.DB.Assignments {
		if a.CampaignID != campaignID || a.CompanyID != companyID {
			kept = append(kept, a)
		}
	}
	r.DB.Assignments = kept
	return nil
}

func (r CampaignRepo) ListAssignments(_ context.Context, campaignID string) ([]entity.CampaignAssignment, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	var out []entity.CampaignAssignment
	for _, a := range r.DB.Assignments {
		if a.CampaignID == campaignID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ── Revenue ──────────────────────────────────────────────────────────────────

// RevenueRepo fake de repository.RevenueRepository.
type RevenueRepo struct {
	DB  *DB
	Err error
}

var _ repository.RevenueRepository = RevenueRepo{}

func (r RevenueRepo) Create(_ context.Context, rev *entity.CustomerRevenue) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	r.DB.Revenue = append(r.DB.Revenue, *rev)
	return nil
}

func (r RevenueRepo) rows(companyID string, from, to time.Time) []entity.CustomerRevenue {
	var out []entity.CustomerRevenue
	for _, rev := range r.DB.Revenue {
		if rev.CompanyID == companyID && !rev.Period.Before(from) && !rev.Period.After(to) {
			out = append(out, rev)
		}
	}
	return out
}

func (r RevenueRepo) GetTotal(_ context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	if r.Err != nil {
		return decimal.Zero, r.Err
	}
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	total := decimal.Zero
	for _, rev := range r.rows(companyID, from, to) {
		total = total.Add(rev.Amount)
	}
	return total, nil
}

func (r RevenueRepo) GetMonthly(_ context.Context, companyID string, from, to time.Time) ([]repository.MonthlyRevenueResult, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	byPeriod := map[time.Time]decimal.Decimal{}
	for _, rev := range r.rows(companyID, from, to) {
		byPeriod[rev.Period] = byPeriod[rev.Period].Add(rev.Amount)
	}
	out := make([]repository.MonthlyRevenueResult, 0, len(byPeriod))
	for p, a := range byPeriod {
		out = append(out, repository.MonthlyRevenueResult{Period: p, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

func (r RevenueRepo) GetTopCustomers(_ context.Context, companyID string, from, to time.Time, limit int) ([]repository.CustomerRevenueResult, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	agg := map[string]*repository.CustomerRevenueResult{}
	for _, rev := range r.rows(companyID, from, to) {
		c, ok := agg[rev.CustomerName]
		if !ok {
			c = &repository.CustomerRevenueResult{CustomerName: rev.CustomerName, Amount: decimal.Zero}
			agg[rev.CustomerName] = c
		}
		c.Amount = c.Amount.Add(rev.Amount)
		c.Months++
	}
	out := make([]repository.CustomerRevenueResult, 0, len(agg))
	for _, c := range agg {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── SearchStrings ────────────────────────────────────────────────────────────

// SearchStringRepo fake de repository.SearchStringRepository.
type SearchStringRepo struct{ DB *DB }

var _ repository.SearchStringRepository = SearchStringRepo{}

func (r SearchStringRepo) Create(_ context.Context, s *entity.SearchString) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	cp := *s
	r.DB.Searches[s.ID] = &cp
	return nil
}

func (r SearchStringRepo) GetByID(_ context.Context, id string) (*entity.SearchString, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if s, ok := r.DB.Searches[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r SearchStringRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.SearchString, error) {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	var out []*entity.SearchString
	for _, s := range r.DB.Searches {
		if s.CompanyID == companyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r SearchStringRepo) Update(_ context.Context, s *entity.SearchString) error {
	r.DB.mu.Lock()
	defer r.DB.mu.Unlock()
	if _, ok := r.DB.Searches[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.DB.Searches[s.ID] = &cp
	return nil
}

// ErrBoom error genérico de infraestructura para tests.
var ErrBoom = errors.New("boom")

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
