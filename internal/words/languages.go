package words

// Languages lists every translation target the pipeline fans out to.
// The set mirrors the Google Translate language codes.
var Languages = []Language{
	{Name: "Abkhaz", Code: "ab"},
	{Name: "Acehnese", Code: "ace"},
	{Name: "Afrikaans", Code: "af"},
	{Name: "Albanian", Code: "sq"},
	{Name: "Amharic", Code: "am"},
	{Name: "Arabic", Code: "ar"},
	{Name: "Armenian", Code: "hy"},
	{Name: "Assamese", Code: "as"},
	{Name: "Aymara", Code: "ay"},
	{Name: "Azerbaijani", Code: "az"},
	{Name: "Bambara", Code: "bm"},
	{Name: "Basque", Code: "eu"},
	{Name: "Belarusian", Code: "be"},
	{Name: "Bengali", Code: "bn"},
	{Name: "Bhojpuri", Code: "bho"},
	{Name: "Bosnian", Code: "bs"},
	{Name: "Bulgarian", Code: "bg"},
	{Name: "Catalan", Code: "ca"},
	{Name: "Cebuano", Code: "ceb"},
	{Name: "Chinese (Simplified)", Code: "zh-CN"},
	{Name: "Chinese (Traditional)", Code: "zh-TW"},
	{Name: "Corsican", Code: "co"},
	{Name: "Croatian", Code: "hr"},
	{Name: "Czech", Code: "cs"},
	{Name: "Danish", Code: "da"},
	{Name: "Dutch", Code: "nl"},
	{Name: "English", Code: "en"},
	{Name: "Esperanto", Code: "eo"},
	{Name: "Estonian", Code: "et"},
	{Name: "Finnish", Code: "fi"},
	{Name: "French", Code: "fr"},
	{Name: "Frisian", Code: "fy"},
	{Name: "Galician", Code: "gl"},
	{Name: "Georgian", Code: "ka"},
	{Name: "German", Code: "de"},
	{Name: "Greek", Code: "el"},
	{Name: "Gujarati", Code: "gu"},
	{Name: "Haitian Creole", Code: "ht"},
	{Name: "Hausa", Code: "ha"},
	{Name: "Hawaiian", Code: "haw"},
	{Name: "Hebrew", Code: "iw"},
	{Name: "Hindi", Code: "hi"},
	{Name: "Hmong", Code: "hmn"},
	{Name: "Hungarian", Code: "hu"},
	{Name: "Icelandic", Code: "is"},
	{Name: "Igbo", Code: "ig"},
	{Name: "Indonesian", Code: "id"},
	{Name: "Irish", Code: "ga"},
	{Name: "Italian", Code: "it"},
	{Name: "Japanese", Code: "ja"},
	{Name: "Javanese", Code: "jw"},
	{Name: "Kannada", Code: "kn"},
	{Name: "Kazakh", Code: "kk"},
	{Name: "Khmer", Code: "km"},
	{Name: "Korean", Code: "ko"},
	{Name: "Kurdish", Code: "ku"},
	{Name: "Kyrgyz", Code: "ky"},
	{Name: "Lao", Code: "lo"},
	{Name: "Latin", Code: "la"},
	{Name: "Latvian", Code: "lv"},
	{Name: "Lithuanian", Code: "lt"},
	{Name: "Luxembourgish", Code: "lb"},
	{Name: "Macedonian", Code: "mk"},
	{Name: "Malagasy", Code: "mg"},
	{Name: "Malay", Code: "ms"},
	{Name: "Malayalam", Code: "ml"},
	{Name: "Maltese", Code: "mt"},
	{Name: "Maori", Code: "mi"},
	{Name: "Marathi", Code: "mr"},
	{Name: "Mongolian", Code: "mn"},
	{Name: "Myanmar (Burmese)", Code: "my"},
	{Name: "Nepali", Code: "ne"},
	{Name: "Norwegian", Code: "no"},
	{Name: "Odia (Oriya)", Code: "or"},
	{Name: "Pashto", Code: "ps"},
	{Name: "Persian", Code: "fa"},
	{Name: "Polish", Code: "pl"},
	{Name: "Portuguese", Code: "pt"},
	{Name: "Punjabi", Code: "pa"},
	{Name: "Romanian", Code: "ro"},
	{Name: "Russian", Code: "ru"},
	{Name: "Samoan", Code: "sm"},
	{Name: "Sanskrit", Code: "sa"},
	{Name: "Scots Gaelic", Code: "gd"},
	{Name: "Serbian", Code: "sr"},
	{Name: "Sesotho", Code: "st"},
	{Name: "Shona", Code: "sn"},
	{Name: "Sindhi", Code: "sd"},
	{Name: "Sinhala", Code: "si"},
	{Name: "Slovak", Code: "sk"},
	{Name: "Slovenian", Code: "sl"},
	{Name: "Somali", Code: "so"},
	{Name: "Spanish", Code: "es"},
	{Name: "Sundanese", Code: "su"},
	{Name: "Swahili", Code: "sw"},
	{Name: "Swedish", Code: "sv"},
	{Name: "Tajik", Code: "tg"},
	{Name: "Tamil", Code: "ta"},
	{Name: "Tatar", Code: "tt"},
	{Name: "Telugu", Code: "te"},
	{Name: "Thai", Code: "th"},
	{Name: "Turkish", Code: "tr"},
	{Name: "Turkmen", Code: "tk"},
	{Name: "Ukrainian", Code: "uk"},
	{Name: "Urdu", Code: "ur"},
	{Name: "Uyghur", Code: "ug"},
	{Name: "Uzbek", Code: "uz"},
	{Name: "Vietnamese", Code: "vi"},
	{Name: "Welsh", Code: "cy"},
	{Name: "Xhosa", Code: "xh"},
	{Name: "Yiddish", Code: "yi"},
	{Name: "Yoruba", Code: "yo"},
	{Name: "Zulu", Code: "zu"},
}
