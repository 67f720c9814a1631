package memory

import (
	"sort"

	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/domain/repository"
)

type companyRepo struct {
	s      *Store
	locked bool
}

var _ repository.CompanyRepository = (*companyRepo)(nil)

func (r *companyRepo) Create(company *entity.Company) error {
	defer r.s.lock(r.locked)()
	cp := *company
	r.s.d.companies[company.ID] = &cp
	return nil
}

func (r *companyRepo) GetByID(id string) (*entity.Company, error) {
	defer r.s.lock(r.locked)()
	c, ok := r.s.d.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *companyRepo) List(limit, offset int) ([]*entity.Company, error) {
	defer r.s.lock(r.locked)()
	list := make([]*entity.Company, 0, len(r.s.d.companies))
	for _, c := range r.s.d.companies {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

type pharmacyRepo struct {
	s      *Store
	locked bool
}

var _ repository.PharmacyRepository = (*pharmacyRepo)(nil)

func (r *pharmacyRepo) Create(pharmacy *entity.Pharmacy) error {
	defer r.s.lock(r.locked)()
	cp := *pharmacy
	r.s.d.pharmacies[pharmacy.ID] = &cp
	return nil
}

func (r *pharmacyRepo) GetByID(id string) (*entity.Pharmacy, error) {
	defer r.s.lock(r.locked)()
	p, ok := r.s.d.pharmacies[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *pharmacyRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Pharmacy, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.Pharmacy
	for _, p := range r.s.d.pharmacies {
		if p.CompanyID == companyID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *pharmacyRepo) Update(pharmacy *entity.Pharmacy) error {
	defer r.s.lock(r.locked)()
	cp := *pharmacy
	r.s.d.pharmacies[pharmacy.ID] = &cp
	return nil
}

func (r *pharmacyRepo) Delete(id string) error {
	defer r.s.lock(r.locked)()
	delete(r.s.d.pharmacies, id)
	return nil
}

type medicineRepo struct {
	s      *Store
	locked bool
}

var _ repository.MedicineRepository = (*medicineRepo)(nil)

func (r *medicineRepo) Create(medicine *entity.Medicine) error {
	defer r.s.lock(r.locked)()
	cp := *medicine
	r.s.d.medicines[medicine.ID] = &cp
	return nil
}

func (r *medicineRepo) GetByID(id string) (*entity.Medicine, error) {
	defer r.s.lock(r.locked)()
	m, ok := r.s.d.medicines[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *medicineRepo) GetBySKU(companyID, sku string) (*entity.Medicine, error) {
	defer r.s.lock(r.locked)()
	for _, m := range r.s.d.medicines {
		if m.CompanyID == companyID && m.SKU == sku {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *medicineRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Medicine, error) {
	defer r.s.lock(r.locked)()
	var list []*entity.Medicine
	for _, m := range r.s.d.medicines {
		if m.CompanyID == companyID {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *medicineRepo) Update(medicine *entity.Medicine) error {
	defer r.s.lock(r.locked)()
	cp := *medicine
	r.s.d.medicines[medicine.ID] = &cp
	return nil
}

type userRepo struct {
	s      *Store
	locked bool
}

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(user *entity.User) error {
	defer r.s.lock(r.locked)()
	cp := *user
	r.s.d.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	defer r.s.lock(r.locked)()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	defer r.s.lock(r.locked)()
	for _, u := range r.s.d.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	defer r.s.lock(r.locked)()
	for _, u := range r.s.d.users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
