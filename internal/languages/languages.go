// Package languages holds the fixed table of language codes offered to users
// and the mapping between internal codes and display labels.
package languages

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Auto is the source-language sentinel meaning "detect before dispatch".
const Auto = "auto"

// AutoLabel is the display label of the Auto sentinel.
const AutoLabel = "Auto Detect"

// Language is one entry of the table.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var table = []Language{
	{"af", "Afrikaans"},
	{"sq", "Albanian"},
	{"am", "Amharic"},
	{"ar", "Arabic"},
	{"hy", "Armenian"},
	{"az", "Azerbaijani"},
	{"eu", "Basque"},
	{"be", "Belarusian"},
	{"bn", "Bengali"},
	{"bs", "Bosnian"},
	{"bg", "Bulgarian"},
	{"ca", "Catalan"},
	{"ceb", "Cebuano"},
	{"ny", "Chichewa"},
	{"zh-CN", "Chinese (Simplified)"},
	{"zh-TW", "Chinese (Traditional)"},
	{"co", "Corsican"},
	{"hr", "Croatian"},
	{"cs", "Czech"},
	{"da", "Danish"},
	{"nl", "Dutch"},
	{"en", "English"},
	{"eo", "Esperanto"},
	{"et", "Estonian"},
	{"tl", "Filipino"},
	{"fi", "Finnish"},
	{"fr", "French"},
	{"fy", "Frisian"},
	{"gl", "Galician"},
	{"ka", "Georgian"},
	{"de", "German"},
	{"el", "Greek"},
	{"gu", "Gujarati"},
	{"ht", "Haitian Creole"},
	{"ha", "Hausa"},
	{"haw", "Hawaiian"},
	{"he", "Hebrew"},
	{"hi", "Hindi"},
	{"hmn", "Hmong"},
	{"hu", "Hungarian"},
	{"is", "Icelandic"},
	{"ig", "Igbo"},
	{"id", "Indonesian"},
	{"ga", "Irish"},
	{"it", "Italian"},
	{"ja", "Japanese"},
	{"jv", "Javanese"},
	{"kn", "Kannada"},
	{"kk", "Kazakh"},
	{"km", "Khmer"},
	{"rw", "Kinyarwanda"},
	{"ko", "Korean"},
	{"ku", "Kurdish (Kurmanji)"},
	{"ky", "Kyrgyz"},
	{"lo", "Lao"},
	{"la", "Latin"},
	{"lv", "Latvian"},
	{"lt", "Lithuanian"},
	{"lb", "Luxembourgish"},
	{"mk", "Macedonian"},
	{"mg", "Malagasy"},
	{"ms", "Malay"},
	{"ml", "Malayalam"},
	{"mt", "Maltese"},
	{"mi", "Maori"},
	{"mr", "Marathi"},
	{"mn", "Mongolian"},
	{"my", "Myanmar (Burmese)"},
	{"ne", "Nepali"},
	{"no", "Norwegian"},
	{"ps", "Pashto"},
	{"fa", "Persian"},
	{"pl", "Polish"},
	{"pt", "Portuguese"},
	{"pa", "Punjabi"},
	{"ro", "Romanian"},
	{"ru", "Russian"},
	{"sm", "Samoan"},
	{"gd", "Scots Gaelic"},
	{"sr", "Serbian"},
	{"st", "Sesotho"},
	{"sn", "Shona"},
	{"sd", "Sindhi"},
	{"si", "Sinhala"},
	{"sk", "Slovak"},
	{"sl", "Slovenian"},
	{"so", "Somali"},
	{"es", "Spanish"},
	{"su", "Sundanese"},
	{"sw", "Swahili"},
	{"sv", "Swedish"},
	{"tg", "Tajik"},
	{"ta", "Tamil"},
	{"te", "Telugu"},
	{"th", "Thai"},
	{"tr", "Turkish"},
	{"uk", "Ukrainian"},
	{"ur", "Urdu"},
	{"ug", "Uyghur"},
	{"uz", "Uzbek"},
	{"vi", "Vietnamese"},
	{"cy", "Welsh"},
	{"xh", "Xhosa"},
	{"yi", "Yiddish"},
	{"yo", "Yoruba"},
	{"zu", "Zulu"},
	{"or", "Odia"},
}

// aliases maps codes returned by detectors or typed by users onto table codes.
var aliases = map[string]string{
	"zh":      "zh-CN",
	"zh-hans": "zh-CN",
	"zh-hant": "zh-TW",
	"iw":      "he",
	"jw":      "jv",
	"fil":     "tl",
	"nb":      "no",
	"nn":      "no",
}

var byCode = func() map[string]Language {
	m := make(map[string]Language, len(table))
	for _, l := range table {
		m[strings.ToLower(l.Code)] = l
	}
	return m
}()

// All returns every selectable language sorted by label. The Auto sentinel is
// not included; see Sources.
func All() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Sources returns the source-language choices: Auto first, then All.
func Sources() []Language {
	return append([]Language{{Code: Auto, Label: AutoLabel}}, All()...)
}

// Targets returns the target-language choices. Auto is never a valid target.
func Targets() []Language {
	return All()
}

// Len reports the number of real languages in the table.
func Len() int {
	return len(table)
}

// Label returns the display label for code. Unknown codes are returned as-is
// so that history never loses information.
func Label(code string) string {
	if strings.EqualFold(code, Auto) {
		return AutoLabel
	}
	if c, ok := Normalize(code); ok {
		return byCode[strings.ToLower(c)].Label
	}
	return code
}

// Normalize maps user or detector input onto a table code. Lookups are
// case-insensitive; BCP 47 tags such as "pt-BR" fall back to their base
// language when the region variant is not in the table.
func Normalize(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	if strings.EqualFold(code, Auto) {
		return Auto, true
	}

	lower := strings.ToLower(strings.ReplaceAll(code, "_", "-"))
	if l, ok := byCode[lower]; ok {
		return l.Code, true
	}
	if a, ok := aliases[lower]; ok {
		return a, true
	}

	tag, err := language.Parse(lower)
	if err != nil {
		return "", false
	}
	if l, ok := byCode[strings.ToLower(tag.String())]; ok {
		return l.Code, true
	}
	base, _ := tag.Base()
	if a, ok := aliases[base.String()]; ok {
		return a, true
	}
	if l, ok := byCode[base.String()]; ok {
		return l.Code, true
	}
	return "", false
}

// FromISO639_1 maps a two-letter ISO 639-1 code (any case) to a table code.
func FromISO639_1(iso string) (string, bool) {
	if strings.EqualFold(iso, Auto) {
		return "", false
	}
	return Normalize(iso)
}

// SpeechCode returns the base language subtag used by speech services,
// for example "zh-CN" becomes "zh".
func SpeechCode(code string) string {
	if i := strings.IndexByte(code, '-'); i > 0 {
		return strings.ToLower(code[:i])
	}
	return strings.ToLower(code)
}
