package analyzer

import "regexp"

// highConfidencePhrases are literal compliance phrases with essentially no
// legitimate use in an elder's side of a phone call. Any substring match is
// an instant strong signal that bypasses the additive score.
var highConfidencePhrases = []string{
	// Reading gift card numbers/codes to the caller
	"read you the numbers on the back",
	"read you the numbers",
	"read the numbers on the back",
	"read you the code",
	"read the code to you",
	"call you back with the codes",
	"call back with the codes",
	"give you the numbers on the back",
	"scratch off the code",
	"scratch off the numbers",
	// Committing to buy cards for the caller
	"buy the gift cards",
	"buy a gift card and send",
	"buying the gift cards",
	// Secrecy
	"won't tell my family",
	"wont tell my family",
	"will not tell my family",
	"won't tell anyone",
	"wont tell anyone",
	"don't tell my family",
	"dont tell my family",
	"keep this between us",
	"promise not to tell",
	// Reciting an SSN
	"my social security number is",
	"give you my social security",
	"my ssn is",
	// Paying to avoid arrest
	"wire the money to avoid",
	"pay to clear the warrant",
	"pay the fine to avoid arrest",
	"how much to avoid arrest",
	"going to the bitcoin atm",
	"at the bitcoin atm",
	// Remote access
	"download that software for you",
	"installing the program you sent",
	"give you remote access",
	"downloading the software now",
	"teamviewer",
	"anydesk",
	"logmein",
}

// severity labels for regex categories.
const (
	SeverityCritical   = "critical"
	SeverityConcerning = "concerning"
)

type category struct {
	name     string
	severity string
	re       *regexp.Regexp
}

// regexCategories are labeled pattern families. Critical categories name
// payment rails scammers insist on; concerning categories name pressure and
// probing tactics that also occur in some legitimate calls.
var regexCategories = []category{
	{
		name:     "wire_transfer",
		severity: SeverityCritical,
		re: regexp.MustCompile(`(?i)\b(wire (the )?money|wire transfer|western union|moneygram|` +
			`bitcoin|crypto(currency)? atm|send (the )?money through)\b`),
	},
	{
		name:     "gift_card_payment",
		severity: SeverityCritical,
		re: regexp.MustCompile(`(?i)\b(gift ?cards?|itunes cards?|google play cards?|` +
			`redemption codes?|scratch (off )?the (code|numbers))\b`),
	},
	{
		name:     "government_threat",
		severity: SeverityConcerning,
		re: regexp.MustCompile(`(?i)\b(irs|social security administration|police|sheriff|` +
			`warrant|arrest(ed)?|jail|lawsuit|legal action)\b`),
	},
	{
		name:     "remote_access",
		severity: SeverityConcerning,
		re: regexp.MustCompile(`(?i)\b(remote access|teamviewer|anydesk|logmein|` +
			`download (that|the|this) software|install (the|that|this) (program|software))\b`),
	},
	{
		name:     "urgency_pressure",
		severity: SeverityConcerning,
		re: regexp.MustCompile(`(?i)\b(right now|immediately|right away|today only|` +
			`before it'?s too late|act now|urgent(ly)?|don'?t hang up)\b`),
	},
	{
		name:     "personal_info_request",
		severity: SeverityConcerning,
		re: regexp.MustCompile(`(?i)\b(social security number|ssn|bank account number|` +
			`routing number|verification code|date of birth|pin number|mother'?s maiden name)\b`),
	},
}

// benignPatterns mark contextual vocabulary of legitimate calls. When
// present they damp an already-weak keyword score to suppress false
// positives (gift card for a grandchild's birthday, a pharmacy calling).
var benignPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(doctor|physician|hospital|pharmacy|prescription|appointment|checkup)\b`),
	regexp.MustCompile(`(?i)\b(tax preparer|accountant|financial advisor|my banker)\b`),
	regexp.MustCompile(`(?i)\b(birthday|nephew|niece|grandchild.*visit|family dinner)\b`),
	regexp.MustCompile(`(?i)\b(gift card.*birthday|gift.*nephew|gift.*niece)\b`),
	regexp.MustCompile(`(?i)\b(just checking in|how are you|good to hear|catch up)\b`),
	regexp.MustCompile(`(?i)\b(lunch plans|dinner plans|coffee|visiting)\b`),
}

// scenario is one canonical scam-scenario description with its tactic
// category, used by the semantic extractor.
type scenario struct {
	text     string
	category string
}

var scamScenarios = []scenario{
	{"The elderly person agrees to purchase gift cards and read the redemption codes to the caller", "financial"},
	{"The victim is buying iTunes or Google Play cards and will read the codes over the phone", "financial"},
	{"Someone is instructing the elder to buy gift cards and scratch off the codes", "financial"},
	{"The person is at a store purchasing gift cards for someone on the phone", "financial"},
	{"The victim is being threatened with arrest if they don't pay immediately", "fear"},
	{"The caller claims there is a warrant and the person must pay to avoid jail", "authority"},
	{"Someone claiming to be from the IRS is demanding immediate payment", "authority"},
	{"The person is being told they will be arrested unless they wire money", "fear"},
	{"A grandchild or family member is urgently asking for bail money", "urgency"},
	{"Someone claiming to be a grandchild in jail needs money for a lawyer", "financial"},
	{"The victim is being asked to send money to help a family member in trouble", "financial"},
	{"The caller is requesting remote access to the victim's computer", "isolation"},
	{"Someone is guiding the victim to download software to fix their computer", "isolation"},
	{"The victim is being told their computer has a virus and needs remote access", "authority"},
	{"The person is being directed to install TeamViewer or AnyDesk", "isolation"},
	{"The victim is being told to keep this call secret from family members", "isolation"},
	{"The caller insists the victim must not tell anyone about this", "isolation"},
	{"The person is promising not to tell their family about the call", "isolation"},
	{"The victim is being directed to withdraw cash and deposit it at a cryptocurrency ATM", "financial"},
	{"Someone is instructing the elder to buy Bitcoin and send it", "financial"},
	{"The person is going to a Bitcoin ATM to send money", "financial"},
	{"The victim is being told to wire money through Western Union", "financial"},
	{"Someone is directing the elder to transfer money or send a wire", "financial"},
	{"The victim is providing their social security number to the caller", "authority"},
	{"The person is giving their bank account number to someone on the phone", "financial"},
	{"The elder is reading a verification code from their phone to the caller", "financial"},
	{"The victim is providing sensitive personal information to stop a supposed fraud", "authority"},
	{"Someone the victim met online is asking for money to get home", "financial"},
	{"A romantic interest online needs money for an emergency", "financial"},
	{"The person is sending money to someone they care about online", "financial"},
	{"The victim is being told their bank account has fraud and must verify", "authority"},
	{"Someone claims to be from the bank and needs account verification", "authority"},
	{"The elder is being directed to move money to protect it from fraud", "financial"},
	{"The victim won a prize but must pay fees to claim it", "financial"},
	{"Someone is telling the person they need to pay taxes on winnings", "authority"},
	{"The victim is picking up gift cards at a store and will provide the codes to the caller", "financial"},
	{"The person is getting cards from the store and will call back with the redemption codes", "financial"},
}
