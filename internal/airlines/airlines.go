// Package airlines resolves ICAO three-letter airline designators to
// display names. The table is static; codes not listed render as
// "Unknown (<code>)" so the dashboard still shows something useful.
package airlines

import (
	"fmt"
	"strings"
)

// Unknown is the display value for unresolvable airlines and callsigns.
const Unknown = "Unknown"

// byICAO maps ICAO airline designators to operator display names.
var byICAO = map[string]string{
	// Major US carriers
	"AAL": "American Airlines",
	"UAL": "United Airlines",
	"DAL": "Delta Air Lines",
	"SWA": "Southwest Airlines",
	"JBU": "JetBlue Airways",
	"ASA": "Alaska Airlines",
	"FFT": "Frontier Airlines",
	"NKS": "Spirit Airlines",

	// European carriers
	"BAW": "British Airways",
	"KLM": "KLM Royal Dutch Airlines",
	"AFR": "Air France",
	"DLH": "Lufthansa",
	"IBE": "Iberia",
	"VLG": "Vueling",
	"RYR": "Ryanair",
	"EZY": "easyJet",
	"SAS": "Scandinavian Airlines",
	"FIN": "Finnair",
	"AUA": "Austrian Airlines",
	"SWR": "Swiss International Air Lines",
	"AEA": "Air Europa",
	"ANE": "Europe Airpost",
	"BEL": "Brussels Airlines",
	"CTN": "Croatia Airlines",
	"CSA": "Czech Airlines",
	"DAT": "Danish Air Transport",
	"ELY": "El Al Israel Airlines",
	"EWG": "Eurowings",
	"ICE": "Icelandair",
	"IBS": "Iberia Express",
	"TAP": "TAP Air Portugal",
	"THY": "Turkish Airlines",
	"TVS": "Transavia",
	"WZZ": "Wizz Air",
	"NOZ": "Norwegian Air",
	"AZA": "Alitalia",
	"ITY": "ITA Airways",
	"MSR": "EgyptAir",
	"RAM": "Royal Air Maroc",
	"TUN": "Tunisair",
	"AHY": "Azerbaijan Airlines",
	"LOT": "LOT Polish Airlines",
	"ROT": "Tarom",
	"BUL": "Bulgaria Air",
	"TRA": "Transavia France",
	"VCE": "Volotea",
	"CFG": "Condor",
	"EWE": "Eurowings Europe",
	"GWI": "Germanwings",
	"TUI": "TUI Airways",
	"JKK": "Jet2.com",
	"EXS": "Jet2.com",
	"MON": "Monarch Airlines",
	"VIR": "Virgin Atlantic",
	"BMI": "BMI",
	"TCX": "Thomas Cook Airlines",
	"TOM": "TUI Airways",

	// Middle Eastern carriers
	"UAE": "Emirates",
	"QTR": "Qatar Airways",
	"ETD": "Etihad Airways",
	"SVA": "Saudi Arabian Airlines",

	// Asian carriers
	"ANA": "All Nippon Airways",
	"JAL": "Japan Airlines",
	"SIA": "Singapore Airlines",
	"CPA": "Cathay Pacific",
	"KAL": "Korean Air",
	"AAR": "Asiana Airlines",
	"THA": "Thai Airways",

	// Others
	"ACA": "Air Canada",
	"QFA": "Qantas",
	"TAM": "LATAM Airlines",
	"GOL": "GOL Linhas Aéreas",
}

// Lookup resolves an ICAO airline designator to a display name.
// Returns ("", false) when the code is not in the table.
func Lookup(code string) (string, bool) {
	name, ok := byICAO[strings.ToUpper(code)]
	return name, ok
}

// FromCallsign derives the airline display name from a callsign's
// three-letter prefix. Unresolved codes produce "Unknown (<code>)"; an
// empty or "Unknown" callsign yields "Unknown".
func FromCallsign(callsign string) string {
	if callsign == "" || callsign == Unknown {
		return Unknown
	}

	code := callsign
	if len(code) > 3 {
		code = code[:3]
	}
	code = strings.ToUpper(code)

	if name, ok := byICAO[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%s)", code)
}
