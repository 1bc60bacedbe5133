package models

// Sector classifies companies and cooperatives. A cooperative only admits
// companies of its own sector.
type Sector string

const (
	SectorTecnologia   Sector = "tecnologia"
	SectorAgricultura  Sector = "agricultura"
	SectorManufactura  Sector = "manufactura"
	SectorServicios    Sector = "servicios"
	SectorComercio     Sector = "comercio"
	SectorConstruccion Sector = "construccion"
	SectorEducacion    Sector = "educacion"
	SectorSalud        Sector = "salud"
	SectorTransporte   Sector = "transporte"
	SectorTurismo      Sector = "turismo"
)

// Sectors returns the fixed set of valid sectors.
func Sectors() []Sector {
	return []Sector{
		SectorTecnologia,
		SectorAgricultura,
		SectorManufactura,
		SectorServicios,
		SectorComercio,
		SectorConstruccion,
		SectorEducacion,
		SectorSalud,
		SectorTransporte,
		SectorTurismo,
	}
}

// ValidSector reports whether s is one of the fixed sectors.
func ValidSector(s Sector) bool {
	for _, v := range Sectors() {
		if s == v {
			return true
		}
	}
	return false
}
