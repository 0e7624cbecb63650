package refdata

// Known disposable / burner email domains.
var disposableDomains = map[string]struct{}{
	"tempmail.com": {}, "guerrillamail.com": {}, "10minutemail.com": {},
	"mailinator.com": {}, "throwaway.email": {}, "temp-mail.org": {},
	"fakeinbox.com": {}, "maildrop.cc": {}, "getnada.com": {},
	"trashmail.com": {}, "yopmail.com": {}, "sharklasers.com": {},
	"guerrillamailblock.com": {}, "grr.la": {}, "mintemail.com": {},
	"tempmail.net": {}, "dispostable.com": {}, "mailnesia.com": {},
	"spambox.us": {}, "mohmal.com": {}, "throwawaymail.com": {},
}

// TLDs with a disproportionate share of abuse registrations.
// Matched as domain suffixes.
var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq",
	".xyz", ".top", ".club", ".online", ".site",
	".buzz", ".icu", ".rest", ".monster",
}

// Educational domain suffixes used by the type classifier.
var educationalSuffixes = []string{
	".edu", ".edu.au", ".edu.in", ".edu.cn", ".edu.sg", ".edu.my",
	".ac.uk", ".ac.in", ".ac.nz", ".ac.jp", ".ac.za",
	".uni-muenchen.de", ".university",
}

// Major free/consumer mail providers.
var majorProviders = map[string]struct{}{
	"gmail.com": {}, "googlemail.com": {}, "yahoo.com": {}, "yahoo.co.uk": {},
	"hotmail.com": {}, "hotmail.co.uk": {}, "outlook.com": {}, "live.com": {},
	"msn.com": {}, "icloud.com": {}, "me.com": {}, "aol.com": {},
	"protonmail.com": {}, "proton.me": {}, "mail.com": {}, "zoho.com": {},
	"yandex.com": {}, "gmx.com": {}, "gmx.net": {}, "fastmail.com": {},
}

// Frequently mistyped domains and their corrections.
var typoCorrections = map[string]string{
	"gmial.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"gmil.com":    "gmail.com",
	"gamil.com":   "gmail.com",
	"gnail.com":   "gmail.com",
	"gmaill.com":  "gmail.com",
	"yaho.com":    "yahoo.com",
	"yahooo.com":  "yahoo.com",
	"yhoo.com":    "yahoo.com",
	"hotmial.com": "hotmail.com",
	"hotmal.com":  "hotmail.com",
	"hotmil.com":  "hotmail.com",
	"hotnail.com": "hotmail.com",
	"outlok.com":  "outlook.com",
	"outloo.com":  "outlook.com",
	"outlool.com": "outlook.com",
	"iclod.com":   "icloud.com",
	"icloud.co":   "icloud.com",
	"protonmai.com": "protonmail.com",
}

// Keywords in a local part that correlate with scam/throwaway accounts.
// Consulted by the username quality scorer.
var fraudKeywords = []string{
	"scam", "fraud", "phish", "hack", "spam",
	"fake", "lottery", "winner", "prize", "casino",
	"bitcoin", "crypto", "cash", "money", "free",
}

// Local-part tokens that indicate a role/work mailbox.
var workKeywords = map[string]struct{}{
	"info": {}, "contact": {}, "sales": {}, "support": {}, "admin": {},
	"office": {}, "hello": {}, "team": {}, "hr": {}, "careers": {},
	"billing": {}, "marketing": {}, "jobs": {}, "help": {}, "service": {},
}

// Keyboard walks and trivial sequences.
var keyboardSequences = []string{
	"qwerty", "qwert", "asdf", "zxcv", "qazwsx",
	"12345", "1234", "abcd", "abcde", "hjkl",
}

// Consonant clusters that occur in real names. A run of three consonants
// matching one of these is not penalized by the username scorer.
var nameClusters = map[string]struct{}{
	"nst": {}, "rst": {}, "sch": {}, "str": {},
	"tch": {}, "chr": {}, "phr": {}, "thr": {},
}
