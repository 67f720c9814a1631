package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

// Store es una implementación en memoria de todos los repositorios y del
// TxRunner, para desarrollo sin base de datos (APP_STORE=memory) y para los
// tests de casos de uso. Run toma un snapshot del estado y lo restaura si la
// función falla, de modo que la atomicidad observable es la misma que con
// transacciones de PostgreSQL.
type Store struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	companies        map[string]*entity.Company
	pharmacies       map[string]*entity.Pharmacy
	medicines        map[string]*entity.Medicine
	users            map[string]*entity.User
	stockAccounts    map[string]*entity.StockAccount // clave pharmacyID|medicineID
	stockMovements   []*entity.StockMovement
	accounts         map[string]*entity.Account
	accountMovements []*entity.AccountMovement
	sales            map[string]*entity.Sale
	purchases        map[string]*entity.Purchase
	transfers        map[string]*entity.Transfer
	stockSeq         int64
	accountSeq       int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

func newData() *data {
	return &data{
		companies:     map[string]*entity.Company{},
		pharmacies:    map[string]*entity.Pharmacy{},
		medicines:     map[string]*entity.Medicine{},
		users:         map[string]*entity.User{},
		stockAccounts: map[string]*entity.StockAccount{},
		accounts:      map[string]*entity.Account{},
		sales:         map[string]*entity.Sale{},
		purchases:     map[string]*entity.Purchase{},
		transfers:     map[string]*entity.Transfer{},
	}
}

// clone copia profunda del estado para snapshot/rollback.
func (d *data) clone() *data {
	c := &data{
		companies:        make(map[string]*entity.Company, len(d.companies)),
		pharmacies:       make(map[string]*entity.Pharmacy, len(d.pharmacies)),
		medicines:        make(map[string]*entity.Medicine, len(d.medicines)),
		users:            make(map[string]*entity.User, len(d.users)),
		stockAccounts:    make(map[string]*entity.StockAccount, len(d.stockAccounts)),
		stockMovements:   make([]*entity.StockMovement, len(d.stockMovements)),
		accounts:         make(map[string]*entity.Account, len(d.accounts)),
		accountMovements: make([]*entity.AccountMovement, len(d.accountMovements)),
		sales:            make(map[string]*entity.Sale, len(d.sales)),
		purchases:        make(map[string]*entity.Purchase, len(d.purchases)),
		transfers:        make(map[string]*entity.Transfer, len(d.transfers)),
		stockSeq:         d.stockSeq,
		accountSeq:       d.accountSeq,
	}
	for k, v := range d.companies {
		cp := *v
		c.companies[k] = &cp
	}
	for k, v := range d.pharmacies {
		cp := *v
		c.pharmacies[k] = &cp
	}
	for k, v := range d.medicines {
		cp := *v
		c.medicines[k] = &cp
	}
	for k, v := range d.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range d.stockAccounts {
		cp := *v
		c.stockAccounts[k] = &cp
	}
	for i, v := range d.stockMovements {
		cp := *v
		c.stockMovements[i] = &cp
	}
	for k, v := range d.accounts {
		cp := *v
		c.accounts[k] = &cp
	}
	for i, v := range d.accountMovements {
		cp := *v
		c.accountMovements[i] = &cp
	}
	for k, v := range d.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range d.purchases {
		c.purchases[k] = clonePurchase(v)
	}
	for k, v := range d.transfers {
		c.transfers[k] = cloneTransfer(v)
	}
	return c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Lines = append([]entity.SaleLine(nil), s.Lines...)
	return &cp
}

func clonePurchase(p *entity.Purchase) *entity.Purchase {
	cp := *p
	cp.Lines = append([]entity.PurchaseLine(nil), p.Lines...)
	return &cp
}

func cloneTransfer(t *entity.Transfer) *entity.Transfer {
	cp := *t
	cp.Lines = append([]entity.TransferLine(nil), t.Lines...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		cp.CompletedAt = &at
	}
	return &cp
}

// Run implementa stock.TxRunner: todo o nada sobre el estado en memoria.
func (s *Store) Run(ctx context.Context, fn func(r stock.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(s.txRepos()); err != nil {
		s.d = snap
		return err
	}
	return nil
}

// txRepos devuelve repositorios sin bloqueo propio (el mutex ya lo tiene Run).
func (s *Store) txRepos() stock.Repos {
	return stock.Repos{
		StockAccounts:    &stockAccountRepo{s: s, locked: true},
		StockMovements:   &stockMovementRepo{s: s, locked: true},
		Accounts:         &accountRepo{s: s, locked: true},
		AccountMovements: &accountMovementRepo{s: s, locked: true},
		Sales:            &saleRepo{s: s, locked: true},
		Purchases:        &purchaseRepo{s: s, locked: true},
		Transfers:        &transferRepo{s: s, locked: true},
	}
}

// Accesores de repositorios standalone (con bloqueo por llamada).

func (s *Store) Companies() repository.CompanyRepository { return &companyRepo{s: s} }
func (s *Store) Pharmacies() repository.PharmacyRepository {
	return &pharmacyRepo{s: s}
}
func (s *Store) Medicines() repository.MedicineRepository { return &medicineRepo{s: s} }
func (s *Store) Users() repository.UserRepository         { return &userRepo{s: s} }
func (s *Store) StockAccounts() repository.StockAccountRepository {
	return &stockAccountRepo{s: s}
}
func (s *Store) StockMovements() repository.StockMovementRepository {
	return &stockMovementRepo{s: s}
}
func (s *Store) Accounts() repository.AccountRepository { return &accountRepo{s: s} }
func (s *Store) AccountMovements() repository.AccountMovementRepository {
	return &accountMovementRepo{s: s}
}
func (s *Store) Sales() repository.SaleRepository         { return &saleRepo{s: s} }
func (s *Store) Purchases() repository.PurchaseRepository { return &purchaseRepo{s: s} }
func (s *Store) Transfers() repository.TransferRepository { return &transferRepo{s: s} }

// lock toma el mutex solo para repositorios fuera de transacción.
func (s *Store) lock(locked bool) func() {
	if locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func accountKey(pharmacyID, medicineID string) string {
	return pharmacyID + "|" + medicineID
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

var _ stock.TxRunner = (*Store)(nil)
