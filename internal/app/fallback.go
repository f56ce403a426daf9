package app

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

var reHyphens = regexp.MustCompile(`-+`)

// fillerTokens : tokens de remplissage retirés pour obtenir le slug alternatif.
var fillerTokens = map[string]struct{}{
	"season": {}, "s": {}, "part": {}, "p": {},
	"vol": {}, "volume": {}, "episode": {}, "ep": {},
}

// SlugifyTitle normalise un titre en slug URL : minuscules, accents retirés
// (NFD → retrait Mn → NFC), quotes supprimées, tout caractère hors
// [a-z0-9 -] écarté, espaces → tirets, tirets répétés fusionnés.
func SlugifyTitle(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	if s == "" {
		return ""
	}

	// Retrait des accents (NFD -> retrait Mn -> NFC).
	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(tr, s); err == nil {
		s = out
	}

	// Les quotes disparaissent sans laisser d'espace ("Hell's" -> "hells").
	s = strings.NewReplacer("'", "", "’", "", "\"", "", "“", "", "”", "").Replace(s)

	b := strings.Builder{}
	b.Grow(len(s))
	for _, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteRune(ch)
		case ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == ' ' || ch == '\t' || ch == '-':
			b.WriteRune(' ')
		default:
			// skip
		}
	}
	s = strings.Join(strings.Fields(b.String()), "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// searchSlug choisit entre le slug complet et sa variante sans tokens de
// remplissage ("Season 2", "Part 3"…). La variante n'est préférée que si le
// retrait a suffisamment raccourci le slug (heuristique 0.7).
func searchSlug(title string) string {
	slug := SlugifyTitle(title)
	if slug == "" {
		return "unknown"
	}

	kept := make([]string, 0, 8)
	for _, tok := range strings.Split(slug, "-") {
		if _, filler := fillerTokens[tok]; filler {
			continue
		}
		kept = append(kept, tok)
	}
	alt := strings.Join(kept, "-")
	if alt != "" && 10*len(alt) < 7*len(slug) {
		return alt
	}
	return slug
}

// GenerateFallbackLinks dérive des URLs de recherche tierces déterministes
// pour un titre. Pur, sans I/O, ne peut pas échouer : un titre vide dégrade
// en recherche "unknown".
func GenerateFallbackLinks(title string) map[string]string {
	query := strings.TrimSpace(title)
	if query == "" {
		query = "unknown"
	}
	q := url.QueryEscape(query)
	slug := searchSlug(title)

	return map[string]string{
		"HiAnime":    "https://hianime.to/search?keyword=" + q,
		"AnimeKai":   "https://animekai.to/browser?keyword=" + q,
		"AniWave":    "https://aniwave.to/filter?keyword=" + q,
		"Anime-Sama": "https://anime-sama.si/catalogue/" + slug + "/",
	}
}

// FallbackRecord construit le LinkRecord de repli pour un titre dont la
// résolution live est indisponible ou a échoué.
func FallbackRecord(externalID int64, title, errMsg string) domain.LinkRecord {
	return domain.LinkRecord{
		ExternalID:    externalID,
		Title:         title,
		FreeLinks:     GenerateFallbackLinks(title),
		OfficialLinks: []domain.OfficialLink{},
		Error:         errMsg,
	}
}
