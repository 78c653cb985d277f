package mapper

import (
	"time"

	"github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
)

// Company is the HTTP representation of a supplier company.
type Company struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompanyForm is the multipart form posted when creating a company.
type CompanyForm struct {
	CompanyName string `form:"companyName"`
	PhoneNumber string `form:"phoneNumber"`
	Address     string `form:"address"`
}

func ToCompanyInput(form CompanyForm, image string) ports.CompanyInput {
	return ports.CompanyInput{
		CompanyName: form.CompanyName,
		PhoneNumber: form.PhoneNumber,
		Address:     form.Address,
		Image:       image,
	}
}

func FromCompany(p *ports.CompanyProjection) Company {
	if p == nil {
		return Company{}
	}
	return Company{
		ID:          p.Entity.ID,
		CompanyName: p.Entity.CompanyName,
		PhoneNumber: p.Entity.PhoneNumber,
		Address:     p.Entity.Address,
		Image:       p.Entity.Image,
		CreatedAt:   p.Metadata.CreatedAt,
	}
}

func FromCompanyList(list []*ports.CompanyProjection) []Company {
	out := make([]Company, 0, len(list))
	for _, p := range list {
		out = append(out, FromCompany(p))
	}
	return out
}
