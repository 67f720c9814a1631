package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

type stockAccountRepo struct {
	s      *Store
	locked bool
}

var _ repository.StockAccountRepository = (*stockAccountRepo)(nil)

func (r *stockAccountRepo) Get(pharmacyID, medicineID string) (*entity.StockAccount, error) {
	defer r.s.lock(r.locked)()
	return r.get(pharmacyID, medicineID), nil
}

// GetForUpdate en memoria equivale a Get: el mutex del store ya serializa.
func (r *stockAccountRepo) GetForUpdate(pharmacyID, medicineID string) (*entity.StockAccount, error) {
	defer r.s.lock(r.locked)()
	return r.get(pharmacyID, medicineID), nil
}

func (r *stockAccountRepo) get(pharmacyID, medicineID string) *entity.StockAccount {
	if acct, ok := r.s.d.stockAccounts[accountKey(pharmacyID, medicineID)]; ok {
		cp := *acct
		return &cp
	}
	// Cuenta inexistente: struct nuevo sin ID, cantidad cero (creación perezosa).
	return &entity.StockAccount{PharmacyID: pharmacyID, MedicineID: medicineID}
}

func (r *stockAccountRepo) Upsert(account *entity.StockAccount) error {
	defer r.s.lock(r.locked)()
	cp := *account
	r.s.d.stockAccounts[accountKey(account.PharmacyID, account.MedicineID)] = &cp
	return nil
}

func (r *stockAccountRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.StockAccount, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.StockAccount
	for _, a := range r.s.d.stockAccounts {
		if a.PharmacyID == pharmacyID {
			cp := *a
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MedicineID < list[j].MedicineID })
	return paginate(list, limit, offset), nil
}

type stockMovementRepo struct {
	s      *Store
	locked bool
}

var _ repository.StockMovementRepository = (*stockMovementRepo)(nil)

func (r *stockMovementRepo) Create(movement *entity.StockMovement) error {
	defer r.s.lock(r.locked)()
	r.s.d.stockSeq++
	movement.Seq = r.s.d.stockSeq
	cp := *movement
	r.s.d.stockMovements = append(r.s.d.stockMovements, &cp)
	return nil
}

func (r *stockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	defer r.s.lock(r.locked)()
	for _, m := range r.s.d.stockMovements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stockMovementRepo) ListByAccountUpTo(pharmacyID, medicineID string, upTo *time.Time) ([]*entity.StockMovement, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.StockMovement
	for _, m := range r.s.d.stockMovements {
		if m.PharmacyID != pharmacyID || m.MedicineID != medicineID {
			continue
		}
		if upTo != nil && m.CreatedAt.After(*upTo) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	sortMovements(list)
	return list, nil
}

func (r *stockMovementRepo) ListByPharmacy(pharmacyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.StockMovement
	for _, m := range r.s.d.stockMovements {
		if m.PharmacyID != pharmacyID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	sortMovements(list)
	return paginate(list, limit, offset), nil
}

// sortMovements ordena por (created_at, seq) ascendente, el orden canónico del libro.
func sortMovements(list []*entity.StockMovement) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Seq < list[j].Seq
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

type accountRepo struct {
	s      *Store
	locked bool
}

var _ repository.AccountRepository = (*accountRepo)(nil)

func (r *accountRepo) Create(account *entity.Account) error {
	defer r.s.lock(r.locked)()
	cp := *account
	r.s.d.accounts[account.ID] = &cp
	return nil
}

func (r *accountRepo) GetByID(id string) (*entity.Account, error) {
	defer r.s.lock(r.locked)()
	a, ok := r.s.d.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *accountRepo) GetForUpdate(id string) (*entity.Account, error) {
	return r.GetByID(id)
}

func (r *accountRepo) ListByCompany(companyID, kind string, limit, offset int) ([]*entity.Account, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.Account
	for _, a := range r.s.d.accounts {
		if a.CompanyID != companyID {
			continue
		}
		if kind != "" && a.Kind != kind {
			continue
		}
		cp := *a
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *accountRepo) UpdateBalance(id string, balance decimal.Decimal, at time.Time) error {
	defer r.s.lock(r.locked)()
	a, ok := r.s.d.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.CurrentBalance = balance
	a.UpdatedAt = at
	return nil
}

type accountMovementRepo struct {
	s      *Store
	locked bool
}

var _ repository.AccountMovementRepository = (*accountMovementRepo)(nil)

func (r *accountMovementRepo) Create(movement *entity.AccountMovement) error {
	defer r.s.lock(r.locked)()
	r.s.d.accountSeq++
	movement.Seq = r.s.d.accountSeq
	cp := *movement
	r.s.d.accountMovements = append(r.s.d.accountMovements, &cp)
	return nil
}

func (r *accountMovementRepo) ListByAccount(accountID string) ([]*entity.AccountMovement, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.AccountMovement
	for _, m := range r.s.d.accountMovements {
		if m.AccountID == accountID {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Seq < list[j].Seq
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *accountMovementRepo) UpdateRunningBalance(id string, balance decimal.Decimal) error {
	defer r.s.lock(r.locked)()
	for _, m := range r.s.d.accountMovements {
		if m.ID == id {
			m.RunningBalance = balance
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *accountMovementRepo) DeleteByReference(accountID, reference, kind string) (int64, error) {
	defer r.s.lock(r.locked)()
	kept := r.s.d.accountMovements[:0]
	var deleted int64
	for _, m := range r.s.d.accountMovements {
		if m.AccountID == accountID && m.Reference == reference && m.Kind == kind {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.s.d.accountMovements = kept
	return deleted, nil
}
