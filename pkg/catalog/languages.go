package catalog

// Languages maps an ISO 639-1 code, optionally followed by an ISO 3166-1
// region ("en" or "en-US"), to a display name.
type Languages map[string]string

// DefaultLanguages covers the dictionaries published for the renderer.
var DefaultLanguages = Languages{
	"af":    "Afrikaans",
	"af-ZA": "Afrikaans (South Africa)",
	"bg":    "Bulgarian",
	"bg-BG": "Bulgarian (Bulgaria)",
	"ca":    "Catalan",
	"ca-ES": "Catalan (Spain)",
	"cs":    "Czech",
	"cs-CZ": "Czech (Czech Republic)",
	"cy":    "Welsh",
	"cy-GB": "Welsh (United Kingdom)",
	"da":    "Danish",
	"da-DK": "Danish (Denmark)",
	"de":    "German",
	"de-AT": "German (Austria)",
	"de-CH": "German (Switzerland)",
	"de-DE": "German (Germany)",
	"el":    "Greek",
	"el-GR": "Greek (Greece)",
	"en":    "English",
	"en-AU": "English (Australia)",
	"en-CA": "English (Canada)",
	"en-GB": "English (United Kingdom)",
	"en-US": "English (United States)",
	"es":    "Spanish",
	"es-AR": "Spanish (Argentina)",
	"es-ES": "Spanish (Spain)",
	"es-MX": "Spanish (Mexico)",
	"es-US": "Spanish (United States)",
	"et":    "Estonian",
	"et-EE": "Estonian (Estonia)",
	"fa":    "Persian",
	"fa-IR": "Persian (Iran)",
	"fo":    "Faroese",
	"fo-FO": "Faroese (Faroe Islands)",
	"fr":    "French",
	"fr-FR": "French (France)",
	"he":    "Hebrew",
	"he-IL": "Hebrew (Israel)",
	"hi":    "Hindi",
	"hi-IN": "Hindi (India)",
	"hr":    "Croatian",
	"hr-HR": "Croatian (Croatia)",
	"hu":    "Hungarian",
	"hu-HU": "Hungarian (Hungary)",
	"hy":    "Armenian",
	"id":    "Indonesian",
	"id-ID": "Indonesian (Indonesia)",
	"it":    "Italian",
	"it-IT": "Italian (Italy)",
	"ko":    "Korean",
	"lt":    "Lithuanian",
	"lt-LT": "Lithuanian (Lithuania)",
	"lv":    "Latvian",
	"lv-LV": "Latvian (Latvia)",
	"nb":    "Norwegian Bokmål",
	"nb-NO": "Norwegian Bokmål (Norway)",
	"nl":    "Dutch",
	"nl-NL": "Dutch (Netherlands)",
	"pl":    "Polish",
	"pl-PL": "Polish (Poland)",
	"pt":    "Portuguese",
	"pt-BR": "Portuguese (Brazil)",
	"pt-PT": "Portuguese (Portugal)",
	"ro":    "Romanian",
	"ro-RO": "Romanian (Romania)",
	"ru":    "Russian",
	"ru-RU": "Russian (Russia)",
	"sh":    "Serbo-Croatian",
	"sk":    "Slovak",
	"sk-SK": "Slovak (Slovakia)",
	"sl":    "Slovenian",
	"sl-SI": "Slovenian (Slovenia)",
	"sq":    "Albanian",
	"sr":    "Serbian",
	"sv":    "Swedish",
	"sv-SE": "Swedish (Sweden)",
	"ta":    "Tamil",
	"ta-IN": "Tamil (India)",
	"tg":    "Tajik",
	"tg-TG": "Tajik (Tajikistan)",
	"tr":    "Turkish",
	"tr-TR": "Turkish (Turkey)",
	"uk":    "Ukrainian",
	"uk-UA": "Ukrainian (Ukraine)",
	"vi":    "Vietnamese",
	"vi-VN": "Vietnamese (Vietnam)",
}
