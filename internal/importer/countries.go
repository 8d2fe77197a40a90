package importer

// countryCodes maps lowercased country names, common abbreviations, and ISO
// 3166-1 codes to the canonical alpha-2 code. Keys use single spaces between
// words; the classifier generates underscore, hyphen, and collapsed variants
// at lookup time. Extend this table to teach the classifier new markets
// without touching parsing or orchestration code.
var countryCodes = map[string]string{
	// North America
	"us": "US", "usa": "US", "united states": "US", "united states of america": "US", "america": "US",
	"ca": "CA", "can": "CA", "canada": "CA",
	"mx": "MX", "mex": "MX", "mexico": "MX",

	// Europe
	"gb": "GB", "uk": "GB", "gbr": "GB", "united kingdom": "GB", "great britain": "GB", "england": "GB",
	"de": "DE", "deu": "DE", "ger": "DE", "germany": "DE", "deutschland": "DE",
	"fr": "FR", "fra": "FR", "france": "FR",
	"es": "ES", "esp": "ES", "spain": "ES", "espana": "ES",
	"it": "IT", "ita": "IT", "italy": "IT", "italia": "IT",
	"nl": "NL", "nld": "NL", "netherlands": "NL", "holland": "NL",
	"be": "BE", "bel": "BE", "belgium": "BE",
	"ch": "CH", "che": "CH", "switzerland": "CH",
	"at": "AT", "aut": "AT", "austria": "AT",
	"se": "SE", "swe": "SE", "sweden": "SE",
	"no": "NO", "nor": "NO", "norway": "NO",
	"dk": "DK", "dnk": "DK", "denmark": "DK",
	"fi": "FI", "fin": "FI", "finland": "FI",
	"ie": "IE", "irl": "IE", "ireland": "IE",
	"pt": "PT", "prt": "PT", "portugal": "PT",
	"pl": "PL", "pol": "PL", "poland": "PL",
	"cz": "CZ", "cze": "CZ", "czech republic": "CZ", "czechia": "CZ",
	"gr": "GR", "grc": "GR", "greece": "GR",
	"ro": "RO", "rou": "RO", "romania": "RO",
	"hu": "HU", "hun": "HU", "hungary": "HU",
	"ua": "UA", "ukr": "UA", "ukraine": "UA",
	"ru": "RU", "rus": "RU", "russia": "RU", "russian federation": "RU",
	"tr": "TR", "tur": "TR", "turkey": "TR", "turkiye": "TR",

	// Asia-Pacific
	"jp": "JP", "jpn": "JP", "japan": "JP",
	"cn": "CN", "chn": "CN", "china": "CN",
	"kr": "KR", "kor": "KR", "south korea": "KR", "korea": "KR",
	"in": "IN", "ind": "IN", "india": "IN",
	"id": "ID", "idn": "ID", "indonesia": "ID",
	"th": "TH", "tha": "TH", "thailand": "TH",
	"vn": "VN", "vnm": "VN", "vietnam": "VN",
	"my": "MY", "mys": "MY", "malaysia": "MY",
	"sg": "SG", "sgp": "SG", "singapore": "SG",
	"ph": "PH", "phl": "PH", "philippines": "PH",
	"hk": "HK", "hkg": "HK", "hong kong": "HK",
	"tw": "TW", "twn": "TW", "taiwan": "TW",
	"au": "AU", "aus": "AU", "australia": "AU",
	"nz": "NZ", "nzl": "NZ", "new zealand": "NZ",

	// Middle East & Africa
	"ae": "AE", "are": "AE", "united arab emirates": "AE", "uae": "AE",
	"sa": "SA", "sau": "SA", "saudi arabia": "SA",
	"il": "IL", "isr": "IL", "israel": "IL",
	"za": "ZA", "zaf": "ZA", "south africa": "ZA",
	"eg": "EG", "egy": "EG", "egypt": "EG",
	"ng": "NG", "nga": "NG", "nigeria": "NG",

	// South America
	"br": "BR", "bra": "BR", "brazil": "BR", "brasil": "BR",
	"ar": "AR", "arg": "AR", "argentina": "AR",
	"cl": "CL", "chl": "CL", "chile": "CL",
	"co": "CO", "col": "CO", "colombia": "CO",
	"pe": "PE", "per": "PE", "peru": "PE",
}
