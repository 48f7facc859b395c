// Package consumption generates and manages the synthetic hourly electricity
// consumption series per region. Series follow a shared two-harmonic daily
// load shape with per-region offsets and noise, optionally rescaled to match
// known yearly totals.
package consumption

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Region is a geographic unit with its own consumption series. Coordinates
// are carried for the presentation layer's map view.
type Region struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Regions returns the default region set, the 81 Turkish provinces.
func Regions() []Region {
	regions := make([]Region, len(provinces))
	copy(regions, provinces)
	return regions
}

// RegionNames returns the names of the default region set in stable order.
func RegionNames() []string {
	names := make([]string, 0, len(provinces))
	for _, r := range provinces {
		names = append(names, r.Name)
	}
	return names
}

var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical lookup form of a region name: diacritics
// folded to ASCII, lowercased, whitespace stripped. Both sides of a yearly
// totals lookup go through this so "İstanbul" and "istanbul " match.
func Normalize(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}
	// drop whatever did not fold to ASCII, e.g. the Turkish dotless i
	folded = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), "")
}

var provinces = []Region{
	{Name: "Adana", Lat: 37.0000, Lon: 35.3213},
	{Name: "Adiyaman", Lat: 37.7648, Lon: 38.2769},
	{Name: "Afyonkarahisar", Lat: 38.7638, Lon: 30.5403},
	{Name: "Agri", Lat: 39.7191, Lon: 43.0519},
	{Name: "Amasya", Lat: 40.6499, Lon: 35.8353},
	{Name: "Ankara", Lat: 39.9334, Lon: 32.8597},
	{Name: "Antalya", Lat: 36.8969, Lon: 30.7133},
	{Name: "Artvin", Lat: 41.1828, Lon: 41.8194},
	{Name: "Aydin", Lat: 37.8400, Lon: 27.8447},
	{Name: "Balikesir", Lat: 39.6484, Lon: 27.8826},
	{Name: "Bilecik", Lat: 40.1500, Lon: 29.9833},
	{Name: "Bingol", Lat: 39.0626, Lon: 40.7696},
	{Name: "Bitlis", Lat: 38.3938, Lon: 42.1235},
	{Name: "Bolu", Lat: 40.7395, Lon: 31.6116},
	{Name: "Burdur", Lat: 37.7203, Lon: 30.2908},
	{Name: "Bursa", Lat: 40.1950, Lon: 29.0600},
	{Name: "Canakkale", Lat: 40.1467, Lon: 26.4100},
	{Name: "Cankiri", Lat: 40.6000, Lon: 33.6167},
	{Name: "Corum", Lat: 40.5506, Lon: 34.9556},
	{Name: "Denizli", Lat: 37.7833, Lon: 29.0937},
	{Name: "Diyarbakir", Lat: 37.9144, Lon: 40.2306},
	{Name: "Edirne", Lat: 41.6771, Lon: 26.5553},
	{Name: "Elazig", Lat: 38.6752, Lon: 39.2232},
	{Name: "Erzincan", Lat: 39.7520, Lon: 39.4928},
	{Name: "Erzurum", Lat: 39.9043, Lon: 41.2679},
	{Name: "Eskisehir", Lat: 39.7767, Lon: 30.5206},
	{Name: "Gaziantep", Lat: 37.0662, Lon: 37.3833},
	{Name: "Giresun", Lat: 40.9128, Lon: 38.3895},
	{Name: "Gumushane", Lat: 40.4603, Lon: 39.4814},
	{Name: "Hakkari", Lat: 37.5833, Lon: 43.7333},
	{Name: "Hatay", Lat: 36.2028, Lon: 36.1600},
	{Name: "Isparta", Lat: 37.7648, Lon: 30.5566},
	{Name: "Mersin", Lat: 36.8065, Lon: 34.6400},
	{Name: "Istanbul", Lat: 41.0082, Lon: 28.9784},
	{Name: "Izmir", Lat: 38.4237, Lon: 27.1428},
	{Name: "Kars", Lat: 40.6100, Lon: 43.0975},
	{Name: "Kastamonu", Lat: 41.3887, Lon: 33.7827},
	{Name: "Kayseri", Lat: 38.7225, Lon: 35.4875},
	{Name: "Kirklareli", Lat: 41.7351, Lon: 27.2249},
	{Name: "Kirsehir", Lat: 39.1480, Lon: 34.1685},
	{Name: "Kocaeli", Lat: 40.8533, Lon: 29.8815},
	{Name: "Konya", Lat: 37.8722, Lon: 32.4923},
	{Name: "Kutahya", Lat: 39.4242, Lon: 29.9833},
	{Name: "Malatya", Lat: 38.3552, Lon: 38.3095},
	{Name: "Manisa", Lat: 38.6191, Lon: 27.4289},
	{Name: "Kahramanmaras", Lat: 37.5858, Lon: 36.9371},
	{Name: "Mardin", Lat: 37.3128, Lon: 40.7339},
	{Name: "Mugla", Lat: 37.2153, Lon: 28.3636},
	{Name: "Mus", Lat: 38.9462, Lon: 41.7539},
	{Name: "Nevsehir", Lat: 38.6248, Lon: 34.7179},
	{Name: "Nigde", Lat: 37.9662, Lon: 34.6796},
	{Name: "Ordu", Lat: 40.9862, Lon: 37.8797},
	{Name: "Rize", Lat: 41.0201, Lon: 40.5234},
	{Name: "Sakarya", Lat: 40.7419, Lon: 30.3270},
	{Name: "Samsun", Lat: 41.2928, Lon: 36.3313},
	{Name: "Siirt", Lat: 37.9450, Lon: 41.9403},
	{Name: "Sinop", Lat: 42.0268, Lon: 35.1628},
	{Name: "Sivas", Lat: 39.7477, Lon: 37.0179},
	{Name: "Tekirdag", Lat: 40.9599, Lon: 27.5152},
	{Name: "Tokat", Lat: 40.3141, Lon: 36.5540},
	{Name: "Trabzon", Lat: 41.0030, Lon: 39.7168},
	{Name: "Tunceli", Lat: 39.1081, Lon: 39.5483},
	{Name: "Sanliurfa", Lat: 37.1671, Lon: 38.7955},
	{Name: "Usak", Lat: 38.6823, Lon: 29.4082},
	{Name: "Van", Lat: 38.5012, Lon: 43.3662},
	{Name: "Yozgat", Lat: 39.8209, Lon: 34.8085},
	{Name: "Zonguldak", Lat: 41.4564, Lon: 31.7987},
	{Name: "Aksaray", Lat: 38.3687, Lon: 34.0360},
	{Name: "Bayburt", Lat: 40.2583, Lon: 40.2279},
	{Name: "Karaman", Lat: 37.1811, Lon: 33.2150},
	{Name: "Kirikkale", Lat: 39.8468, Lon: 33.5153},
	{Name: "Batman", Lat: 37.8812, Lon: 41.1351},
	{Name: "Sirnak", Lat: 37.4187, Lon: 42.4918},
	{Name: "Bartin", Lat: 41.6350, Lon: 32.3370},
	{Name: "Ardahan", Lat: 41.1105, Lon: 42.7022},
	{Name: "Igdir", Lat: 39.9237, Lon: 44.0400},
	{Name: "Yalova", Lat: 40.6500, Lon: 29.2667},
	{Name: "Karabuk", Lat: 41.2061, Lon: 32.6204},
	{Name: "Kilis", Lat: 36.7184, Lon: 37.1150},
	{Name: "Osmaniye", Lat: 37.0742, Lon: 36.2475},
	{Name: "Duzce", Lat: 40.8438, Lon: 31.1565},
}
