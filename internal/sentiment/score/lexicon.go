package score

// LexiconVersion identifies the term tables below. Scores are
// deterministic for a given version.
const LexiconVersion = "2025.08"

// baseLexicon carries generic financial-news sentiment terms.
var baseLexicon = map[string]float64{
	// positive
	"good":         0.30,
	"great":        0.40,
	"excellent":    0.50,
	"strong":       0.35,
	"beat":         0.40,
	"beats":        0.40,
	"growth":       0.30,
	"profit":       0.35,
	"profitable":   0.40,
	"gain":         0.35,
	"gains":        0.35,
	"up":           0.20,
	"record":       0.30,
	"upgrade":      0.45,
	"upgraded":     0.45,
	"buy":          0.30,
	"win":          0.30,
	"positive":     0.30,
	"outperform":   0.45,
	"surge":        0.45,
	"surged":       0.45,
	"soar":         0.50,
	"soared":       0.50,
	"rally":        0.40,
	"rebound":      0.35,
	"momentum":     0.25,
	"optimistic":   0.35,

	// negative
	"bad":          -0.30,
	"poor":         -0.35,
	"weak":         -0.35,
	"miss":         -0.40,
	"missed":       -0.40,
	"loss":         -0.35,
	"losses":       -0.35,
	"down":         -0.20,
	"decline":      -0.30,
	"declined":     -0.30,
	"downgrade":    -0.45,
	"downgraded":   -0.45,
	"sell":         -0.30,
	"negative":     -0.30,
	"underperform": -0.45,
	"drop":         -0.30,
	"dropped":      -0.30,
	"fall":         -0.30,
	"fell":         -0.30,
	"plunge":       -0.50,
	"plunged":      -0.50,
	"fear":         -0.30,
	"risk":         -0.20,
	"lawsuit":      -0.40,
	"fraud":        -0.60,
	"bankruptcy":   -0.70,
	"recession":    -0.40,
	"layoffs":      -0.40,
	"warning":      -0.35,
	"overvalued":   -0.50,
	"undervalued":  0.50,
}

// boostLexicon carries trading slang weighted more heavily than the
// generic lexicon, the one domain-specific behavior of this scorer.
var boostLexicon = map[string]float64{
	"bullish":   0.60,
	"bearish":   -0.60,
	"moon":      0.50,
	"mooning":   0.60,
	"rocket":    0.45,
	"tendies":   0.50,
	"yolo":      0.30,
	"calls":     0.35,
	"puts":      -0.35,
	"long":      0.30,
	"short":     -0.30,
	"breakout":  0.50,
	"ath":       0.50,
	"pump":      0.35,
	"dump":      -0.55,
	"crash":     -0.65,
	"tank":      -0.50,
	"tanking":   -0.55,
	"bagholder": -0.50,
	"drilling":  -0.50,
	"rekt":      -0.55,
	"stonks":    0.35,
	"printing":  0.40,
	"🚀":         0.50,
	"💎":         0.40,
	"📈":         0.40,
	"📉":         -0.40,
	"🐂":         0.40,
	"🐻":         -0.40,
}

// phraseLexicon carries multi-word trading expressions. Phrases are
// matched before unigrams so "short squeeze" never decomposes into
// short + squeeze.
var phraseLexicon = []phrase{
	{words: []string{"dead", "cat", "bounce"}, weight: -0.50},
	{words: []string{"all", "time", "high"}, weight: 0.55},
	{words: []string{"all", "time", "low"}, weight: -0.55},
	{words: []string{"to", "the", "moon"}, weight: 0.80},
	{words: []string{"short", "squeeze"}, weight: 0.70},
	{words: []string{"diamond", "hands"}, weight: 0.55},
	{words: []string{"paper", "hands"}, weight: -0.45},
	{words: []string{"buy", "the", "dip"}, weight: 0.45},
	{words: []string{"rug", "pull"}, weight: -0.70},
	{words: []string{"bear", "market"}, weight: -0.50},
	{words: []string{"bull", "market"}, weight: 0.50},
	{words: []string{"price", "target", "raised"}, weight: 0.55},
	{words: []string{"price", "target", "cut"}, weight: -0.55},
}

type phrase struct {
	words  []string
	weight float64
}

// negators flip the sign of the following term at reduced magnitude.
var negators = map[string]struct{}{
	"not":     {},
	"no":      {},
	"never":   {},
	"without": {},
	"hardly":  {},
	"barely":  {},
	"isn't":   {},
	"isnt":    {},
	"wasn't":  {},
	"wasnt":   {},
	"don't":   {},
	"dont":    {},
	"doesn't": {},
	"doesnt":  {},
	"didn't":  {},
	"didnt":   {},
	"won't":   {},
	"wont":    {},
	"can't":   {},
	"cant":    {},
	"ain't":   {},
	"aint":    {},
}
