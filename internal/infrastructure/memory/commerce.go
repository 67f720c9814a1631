package memory

import (
	"sort"

	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

type saleRepo struct {
	s      *Store
	locked bool
}

var _ repository.SaleRepository = (*saleRepo)(nil)

func (r *saleRepo) Create(sale *entity.Sale) error {
	defer r.s.lock(r.locked)()
	r.s.d.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	defer r.s.lock(r.locked)()
	s, ok := r.s.d.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r *saleRepo) Update(sale *entity.Sale) error {
	defer r.s.lock(r.locked)()
	if _, ok := r.s.d.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r *saleRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Sale, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.Sale
	for _, s := range r.s.d.sales {
		if s.PharmacyID == pharmacyID {
			list = append(list, cloneSale(s))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

type purchaseRepo struct {
	s      *Store
	locked bool
}

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

func (r *purchaseRepo) Create(purchase *entity.Purchase) error {
	defer r.s.lock(r.locked)()
	r.s.d.purchases[purchase.ID] = clonePurchase(purchase)
	return nil
}

func (r *purchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	defer r.s.lock(r.locked)()
	p, ok := r.s.d.purchases[id]
	if !ok {
		return nil, nil
	}
	return clonePurchase(p), nil
}

func (r *purchaseRepo) Update(purchase *entity.Purchase) error {
	defer r.s.lock(r.locked)()
	if _, ok := r.s.d.purchases[purchase.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.purchases[purchase.ID] = clonePurchase(purchase)
	return nil
}

func (r *purchaseRepo) ReplaceLines(purchaseID string, lines []entity.PurchaseLine) error {
	defer r.s.lock(r.locked)()
	p, ok := r.s.d.purchases[purchaseID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Lines = append([]entity.PurchaseLine(nil), lines...)
	return nil
}

func (r *purchaseRepo) Delete(id string) error {
	defer r.s.lock(r.locked)()
	delete(r.s.d.purchases, id)
	return nil
}

func (r *purchaseRepo) ListByPharmacy(pharmacyID string, limit, offset int) ([]*entity.Purchase, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.Purchase
	for _, p := range r.s.d.purchases {
		if p.PharmacyID == pharmacyID {
			list = append(list, clonePurchase(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

type transferRepo struct {
	s      *Store
	locked bool
}

var _ repository.TransferRepository = (*transferRepo)(nil)

func (r *transferRepo) Create(transfer *entity.Transfer) error {
	defer r.s.lock(r.locked)()
	r.s.d.transfers[transfer.ID] = cloneTransfer(transfer)
	return nil
}

func (r *transferRepo) GetByID(id string) (*entity.Transfer, error) {
	defer r.s.lock(r.locked)()
	t, ok := r.s.d.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

func (r *transferRepo) Update(transfer *entity.Transfer) error {
	defer r.s.lock(r.locked)()
	if _, ok := r.s.d.transfers[transfer.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.transfers[transfer.ID] = cloneTransfer(transfer)
	return nil
}

func (r *transferRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Transfer, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.Transfer
	for _, t := range r.s.d.transfers {
		if t.CompanyID == companyID {
			list = append(list, cloneTransfer(t))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}
