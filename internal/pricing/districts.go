package pricing

import (
	"gravity_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Tarifs forfaitaires de livraison par district de Lima (en soles)
var districts = []models.District{
	{Slug: "miraflores", Name: "Miraflores", Rate: decimal.NewFromInt(10)},
	{Slug: "san_isidro", Name: "San Isidro", Rate: decimal.NewFromInt(10)},
	{Slug: "surquillo", Name: "Surquillo", Rate: decimal.NewFromInt(10)},
	{Slug: "lince", Name: "Lince", Rate: decimal.NewFromInt(10)},
	{Slug: "jesus_maria", Name: "Jesús María", Rate: decimal.NewFromInt(10)},
	{Slug: "barranco", Name: "Barranco", Rate: decimal.NewFromInt(12)},
	{Slug: "santiago_de_surco", Name: "Santiago de Surco", Rate: decimal.NewFromInt(12)},
	{Slug: "san_borja", Name: "San Borja", Rate: decimal.NewFromInt(12)},
	{Slug: "magdalena_del_mar", Name: "Magdalena del Mar", Rate: decimal.NewFromInt(12)},
	{Slug: "pueblo_libre", Name: "Pueblo Libre", Rate: decimal.NewFromInt(12)},
	{Slug: "san_miguel", Name: "San Miguel", Rate: decimal.NewFromInt(12)},
	{Slug: "la_molina", Name: "La Molina", Rate: decimal.NewFromInt(15)},
	{Slug: "chorrillos", Name: "Chorrillos", Rate: decimal.NewFromInt(15)},
	{Slug: "los_olivos", Name: "Los Olivos", Rate: decimal.NewFromInt(18)},
	{Slug: "san_juan_de_lurigancho", Name: "San Juan de Lurigancho", Rate: decimal.NewFromInt(18)},
	{Slug: "callao", Name: "Callao", Rate: decimal.NewFromInt(20)},
}

var districtIndex = func() map[string]models.District {
	idx := make(map[string]models.District, len(districts))
	for _, d := range districts {
		idx[d.Slug] = d
	}
	return idx
}()

// DistrictRate retourne le tarif d'un district ; false si inconnu
func DistrictRate(slug string) (decimal.Decimal, bool) {
	d, ok := districtIndex[slug]
	if !ok {
		return decimal.Zero, false
	}
	return d.Rate, true
}

// IsKnownDistrict indique si le district figure dans la grille tarifaire
func IsKnownDistrict(slug string) bool {
	_, ok := districtIndex[slug]
	return ok
}

// Districts retourne une copie de la grille, dans l'ordre des tarifs
func Districts() []models.District {
	out := make([]models.District, len(districts))
	copy(out, districts)
	return out
}

// DistrictName retourne le libellé d'affichage ; le slug brut s'il est inconnu
func DistrictName(slug string) string {
	if d, ok := districtIndex[slug]; ok {
		return d.Name
	}
	return slug
}
