package domain

import "strings"

// GeoInfo is the normalized geography of a free-text location
type GeoInfo struct {
	CountryCode string `bson:"countryCode" json:"countryCode"`
	CountryName string `bson:"countryName" json:"countryName"`
	EUMember    bool   `bson:"euMember" json:"euMember"`
	SubRegion   string `bson:"subRegion,omitempty" json:"subRegion,omitempty"`
}

// GeoResolver normalizes city/country text into an ISO country code, canonical
// name, EU-membership flag and coarse sub-region. Resolution never fails:
// unresolvable input yields the default country so downstream clustering
// always produces a record.
type GeoResolver struct {
	defaultCode string
}

// NewGeoResolver creates a resolver defaulting to the organizing country
func NewGeoResolver(defaultCountryCode string) *GeoResolver {
	code := strings.ToUpper(strings.TrimSpace(defaultCountryCode))
	if len(code) != 2 {
		code = "FR"
	}
	return &GeoResolver{defaultCode: code}
}

var cityCodes = map[string]string{
	"paris": "FR", "lyon": "FR", "marseille": "FR", "bordeaux": "FR", "lille": "FR", "nice": "FR",
	"london": "GB", "manchester": "GB", "edinburgh": "GB",
	"new york": "US", "boston": "US", "washington": "US", "miami": "US", "philadelphia": "US",
	"los angeles": "US", "san francisco": "US", "seattle": "US",
	"chicago": "US", "houston": "US", "dallas": "US",
	"berlin": "DE", "munich": "DE", "frankfurt": "DE", "cologne": "DE", "hamburg": "DE",
	"madrid": "ES", "barcelona": "ES", "bilbao": "ES", "valencia": "ES",
	"rome": "IT", "milan": "IT", "venice": "IT", "florence": "IT", "turin": "IT", "naples": "IT",
	"amsterdam": "NL", "rotterdam": "NL", "the hague": "NL",
	"brussels": "BE", "antwerp": "BE", "ghent": "BE",
	"geneva": "CH", "zurich": "CH", "basel": "CH", "lausanne": "CH",
	"vienna": "AT", "salzburg": "AT",
	"lisbon": "PT", "porto": "PT",
	"dublin": "IE",
	"copenhagen": "DK", "stockholm": "SE", "oslo": "NO", "helsinki": "FI",
	"athens": "GR", "warsaw": "PL", "krakow": "PL", "prague": "CZ", "budapest": "HU",
	"tokyo": "JP", "osaka": "JP", "kyoto": "JP",
	"seoul": "KR", "busan": "KR",
	"beijing": "CN", "shanghai": "CN", "hong kong": "HK",
	"singapore": "SG", "taipei": "TW",
	"dubai": "AE", "abu dhabi": "AE", "doha": "QA", "riyadh": "SA",
	"moscow": "RU", "istanbul": "TR", "tel aviv": "IL",
	"montreal": "CA", "toronto": "CA", "ottawa": "CA", "vancouver": "CA",
	"mexico city": "MX", "sao paulo": "BR", "rio de janeiro": "BR", "buenos aires": "AR",
	"sydney": "AU", "melbourne": "AU", "auckland": "NZ",
	"cairo": "EG", "johannesburg": "ZA", "mumbai": "IN", "new delhi": "IN",
}

var countryCodes = map[string]string{
	"france": "FR", "germany": "DE", "italy": "IT", "spain": "ES", "portugal": "PT",
	"belgium": "BE", "netherlands": "NL", "holland": "NL", "luxembourg": "LU",
	"austria": "AT", "switzerland": "CH", "united kingdom": "GB", "great britain": "GB",
	"england": "GB", "scotland": "GB", "ireland": "IE",
	"denmark": "DK", "sweden": "SE", "norway": "NO", "finland": "FI", "iceland": "IS",
	"greece": "GR", "poland": "PL", "czech republic": "CZ", "czechia": "CZ",
	"hungary": "HU", "romania": "RO", "bulgaria": "BG", "croatia": "HR",
	"slovenia": "SI", "slovakia": "SK", "estonia": "EE", "latvia": "LV",
	"lithuania": "LT", "malta": "MT", "cyprus": "CY",
	"united states": "US", "usa": "US", "united states of america": "US",
	"canada": "CA", "mexico": "MX", "brazil": "BR", "argentina": "AR", "chile": "CL",
	"japan": "JP", "south korea": "KR", "korea": "KR", "china": "CN", "taiwan": "TW",
	"hong kong": "HK", "singapore": "SG", "india": "IN", "thailand": "TH",
	"united arab emirates": "AE", "qatar": "QA", "saudi arabia": "SA",
	"israel": "IL", "turkey": "TR", "russia": "RU", "egypt": "EG",
	"south africa": "ZA", "australia": "AU", "new zealand": "NZ",
}

var countryNames = map[string]string{
	"FR": "France", "DE": "Germany", "IT": "Italy", "ES": "Spain", "PT": "Portugal",
	"BE": "Belgium", "NL": "Netherlands", "LU": "Luxembourg", "AT": "Austria",
	"CH": "Switzerland", "GB": "United Kingdom", "IE": "Ireland",
	"DK": "Denmark", "SE": "Sweden", "NO": "Norway", "FI": "Finland", "IS": "Iceland",
	"GR": "Greece", "PL": "Poland", "CZ": "Czech Republic", "HU": "Hungary",
	"RO": "Romania", "BG": "Bulgaria", "HR": "Croatia", "SI": "Slovenia",
	"SK": "Slovakia", "EE": "Estonia", "LV": "Latvia", "LT": "Lithuania",
	"MT": "Malta", "CY": "Cyprus",
	"US": "United States", "CA": "Canada", "MX": "Mexico", "BR": "Brazil",
	"AR": "Argentina", "CL": "Chile",
	"JP": "Japan", "KR": "South Korea", "CN": "China", "TW": "Taiwan",
	"HK": "Hong Kong", "SG": "Singapore", "IN": "India", "TH": "Thailand",
	"AE": "United Arab Emirates", "QA": "Qatar", "SA": "Saudi Arabia",
	"IL": "Israel", "TR": "Turkey", "RU": "Russia", "EG": "Egypt",
	"ZA": "South Africa", "AU": "Australia", "NZ": "New Zealand",
}

var euMembers = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true, "CZ": true,
	"DK": true, "EE": true, "FI": true, "FR": true, "DE": true, "GR": true,
	"HU": true, "IE": true, "IT": true, "LV": true, "LT": true, "LU": true,
	"MT": true, "NL": true, "PL": true, "PT": true, "RO": true, "SK": true,
	"SI": true, "ES": true, "SE": true,
}

// US coastal sub-regions, used for air-freight hub selection
var usEastCoast = map[string]bool{
	"new york": true, "boston": true, "washington": true, "miami": true, "philadelphia": true,
}

var usWestCoast = map[string]bool{
	"los angeles": true, "san francisco": true, "seattle": true,
}

// Resolve normalizes a free-text city and/or country. Resolution order:
// city table, country table, bare 2-letter code, substring heuristics,
// default country.
func (r *GeoResolver) Resolve(city, country string) GeoInfo {
	cityKey := strings.ToLower(strings.TrimSpace(city))
	countryKey := strings.ToLower(strings.TrimSpace(country))

	code := ""
	if c, ok := cityCodes[cityKey]; ok {
		code = c
	} else if c, ok := countryCodes[countryKey]; ok {
		code = c
	} else if len(countryKey) == 2 && isAlpha(countryKey) {
		code = strings.ToUpper(countryKey)
	} else {
		code = heuristicCode(cityKey, countryKey)
	}

	if code == "" {
		code = r.defaultCode
	}

	info := GeoInfo{
		CountryCode: code,
		CountryName: countryNames[code],
		EUMember:    euMembers[code],
	}
	if info.CountryName == "" {
		info.CountryName = strings.ToUpper(code)
	}

	if code == "US" {
		switch {
		case usEastCoast[cityKey]:
			info.SubRegion = "east_coast"
		case usWestCoast[cityKey]:
			info.SubRegion = "west_coast"
		}
	}

	return info
}

// heuristicCode applies ordered substring fallbacks for common misspellings
// and long-form country labels
func heuristicCode(cityKey, countryKey string) string {
	combined := cityKey + " " + countryKey

	switch {
	case strings.Contains(combined, "korea"):
		return "KR"
	case strings.Contains(combined, "united states"), strings.Contains(combined, "u.s."):
		return "US"
	case strings.Contains(combined, "united kingdom"), strings.Contains(combined, "britain"):
		return "GB"
	case strings.Contains(combined, "emirates"):
		return "AE"
	case strings.Contains(combined, "china"):
		return "CN"
	case strings.Contains(combined, "japan"):
		return "JP"
	case strings.Contains(combined, "deutschland"):
		return "DE"
	case strings.Contains(combined, "espagne"), strings.Contains(combined, "españa"):
		return "ES"
	case strings.Contains(combined, "italia"):
		return "IT"
	case strings.Contains(combined, "suisse"), strings.Contains(combined, "schweiz"):
		return "CH"
	}
	return ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
