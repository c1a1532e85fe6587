package memhost

// Unit categories mirror the unit set of the CAD application this tool was
// built against. memhost treats units as annotations on a value; it does not
// convert between them.
var unitCategories = map[string][]string{
	"LENGTH":              {"mm", "cm", "m", "hm", "micron", "in", "ft", "yd", "mi", "nauticalMile", "mil"},
	"ANGLE":               {"rad", "deg", "grad"},
	"CURRENCY":            {"dol"},
	"CURRENT":             {"A"},
	"LUMINOSITY":          {"cd", "EV"},
	"MASS":                {"g", "kg", "slug", "lbmass", "ouncemass", "tonmass"},
	"PIECES":              {"pcs"},
	"SUBSTANCE":           {"mole"},
	"TEMPERATURE":         {"K", "C", "F", "R"},
	"TIME":                {"s", "min", "hr"},
	"SOLID_ANGLE":         {"sr"},
	"SPEED":               {"mps", "fps", "mph", "knots"},
	"AREA":                {"acre", "circular_mil"},
	"VOLUME":              {"l", "gal", "qt", "pt", "cup", "fl_oz"},
	"PRESSURE":            {"mPa", "Pa", "MPa", "psi", "psf", "ksi", "bar", "atm", "inH2O", "ftH2O", "mH2O", "mmHg", "inHg"},
	"FORCE":               {"N", "dyne", "lbforce", "ounceforce", "tonforce"},
	"POWER":               {"W", "hp"},
	"ENERGY":              {"J", "erg", "calorie", "Btu"},
	"ANGULAR_VELOCITY":    {"rpm"},
	"LUMINOUS_FLUX":       {"lm"},
	"ILLUMINANCE":         {"lx"},
	"ELECTROMOTIVE_FORCE": {"V"},
	"RESISTANCE":          {"ohm"},
	"CHARGE":              {"columb"},
	"CAPACITANCE":         {"farad"},
	"CONDUCTANCE":         {"S", "mho"},
	"MAGNETIC_FLUX":       {"Wb", "maxwell"},
	"MAGNETIC_FIELD":      {"T", "gamma", "gauss"},
	"INDUCTANCE":          {"H"},
	"MAGNETIZING_FIELD":   {"oersted"},
	"FREQUENCY":           {"Hz"},
	"VISCOSITY":           {"poise"},
	"FLOW_RATE":           {"CCS", "CIS", "CFM", "CMH", "GPH", "LPH"},
}

// validUnits is the flat lookup built from unitCategories.
var validUnits = func() map[string]bool {
	m := make(map[string]bool)
	for _, units := range unitCategories {
		for _, u := range units {
			m[u] = true
		}
	}
	return m
}()

// ValidUnit reports whether u is a known unit. The empty string is a valid
// "no units" marker.
func ValidUnit(u string) bool {
	return u == "" || validUnits[u]
}

// UnitCategory returns the category a unit belongs to, "NO_UNITS" for the
// empty string, or "UNKNOWN".
func UnitCategory(u string) string {
	if u == "" {
		return "NO_UNITS"
	}
	for category, units := range unitCategories {
		for _, candidate := range units {
			if candidate == u {
				return category
			}
		}
	}
	return "UNKNOWN"
}
