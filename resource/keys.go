package resource

import "strings"

// NameSeparator splits composite logical names such as "index+Modifications".
const NameSeparator = "+"

var nameAliases = map[string]string{
	"index": "General",
}

// NormalizeName trims whitespace and resolves known legacy aliases.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if alias, ok := nameAliases[name]; ok {
		return alias
	}
	return name
}

// SplitNames splits a composite name and normalizes every part, dropping empties.
func SplitNames(composite string) []string {
	parts := strings.Split(composite, NameSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if normalized := NormalizeName(part); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// LangToLocale maps legacy language pack names to locale identifiers.
var LangToLocale = map[string]string{
	"albanian":             "sq_AL",
	"arabic":               "ar_001",
	"bulgarian":            "bg_BG",
	"cambodian":            "km_KH",
	"catalan":              "ca_ES",
	"chinese-simplified":   "zh_Hans",
	"chinese-traditional":  "zh_Hant",
	"croatian":             "hr_HR",
	"czech":                "cs_CZ",
	"czech_informal":       "cs",
	"danish":               "da_DK",
	"dutch":                "nl_NL",
	"english":              "en_US",
	"english_british":      "en_GB",
	"english_pirate":       "en_x_pirate",
	"esperanto":            "eo",
	"finnish":              "fi_FI",
	"french":               "fr_FR",
	"galician":             "gl_ES",
	"german":               "de_DE",
	"german_informal":      "de",
	"greek":                "el_GR",
	"hebrew":               "he_IL",
	"hungarian":            "hu_HU",
	"indonesian":           "id_ID",
	"italian":              "it_IT",
	"japanese":             "ja_JP",
	"lithuanian":           "lt_LT",
	"macedonian":           "mk_MK",
	"malay":                "ms_MY",
	"norwegian":            "nb_NO",
	"persian":              "fa_IR",
	"polish":               "pl_PL",
	"portuguese_brazilian": "pt_BR",
	"portuguese_pt":        "pt_PT",
	"romanian":             "ro_RO",
	"russian":              "ru_RU",
	"serbian_cyrillic":     "sr_Cyrl",
	"serbian_latin":        "sr_Latn",
	"slovak":               "sk_SK",
	"slovenian":            "sl_SI",
	"spanish_es":           "es_ES",
	"spanish_latin":        "es_419",
	"swedish":              "sv_SE",
	"thai":                 "th_TH",
	"turkish":              "tr_TR",
	"ukrainian":            "uk_UA",
	"urdu":                 "ur_PK",
	"vietnamese":           "vi_VN",
}

var localeToLang = invert(LangToLocale)

// LegacyNameFor maps a locale back to its legacy flat language name.
func LegacyNameFor(locale string) (string, bool) {
	name, ok := localeToLang[locale]
	return name, ok
}

// LocaleFromLanguageName maps a legacy language name to a locale.
// Names that already look like locales are returned unchanged.
func LocaleFromLanguageName(name string) (string, bool) {
	if len(name) == 2 || (len(name) > 2 && name[2] == '_') {
		return name, true
	}
	locale, ok := LangToLocale[name]
	return locale, ok
}

func invert(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[value] = key
	}
	return out
}
