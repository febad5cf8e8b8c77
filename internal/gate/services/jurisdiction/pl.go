package jurisdiction

import (
	"fmt"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

// plProfile implements Polish copyright law compliance
// (Ustawa o prawie autorskim i prawach pokrewnych).
type plProfile struct{}

// NewPLProfile returns the Polish copyright profile.
func NewPLProfile() Profile { return plProfile{} }

func (plProfile) CountryCode() string { return "PL" }
func (plProfile) LawName() string     { return "Ustawa o prawie autorskim i prawach pokrewnych" }
func (plProfile) LawReference() string {
	return "Dz.U. 1994 nr 24 poz. 83 z późn. zm."
}
func (plProfile) SLAHours() int { return 72 }

func (plProfile) RequiredFields() []string {
	return []string{
		"complainant_name",
		"contact_address",
		domain.FieldContactEmail,
		"contact_phone",
		"work_description",
		domain.FieldInfringingCID,
		"justification",
		"good_faith_statement",
		"signature",
	}
}

func (p plProfile) ValidateNotice(n domain.Notice) error {
	err := validateCommon(n, p.RequiredFields(), domain.FieldContactEmail, messages{
		missingField: func(f string) string { return fmt.Sprintf("Brak wymaganego pola: %s", f) },
		invalidCID:   "Nieprawidłowy format CID IPFS",
		invalidEmail: "Nieprawidłowy adres email",
	})
	if err != nil {
		return err
	}
	if n.Get("good_faith_statement") == "" {
		return &ValidationError{
			Field:   "good_faith_statement",
			Message: "Wymagane jest oświadczenie o działaniu w dobrej wierze",
		}
	}
	return nil
}

func (plProfile) NoticeTemplate() string {
	return `# Zgłoszenie naruszenia praw autorskich

## Ustawa o prawie autorskim i prawach pokrewnych (Polska)

### 1. Dane zgłaszającego
Imię i nazwisko lub nazwa podmiotu, adres, email, telefon; działam jako
twórca, podmiot praw pokrewnych lub pełnomocnik.

### 2. Opis utworu chronionego
Tytuł, rodzaj utworu, data powstania, szczegółowy opis.

### 3. Wskazanie naruszenia
- **CID IPFS:** ` + "`ipfs://...`" + `
- Opis naruszenia.

### 4. Podstawa prawna roszczenia
Prawa majątkowe (Art. 17 i nast.) lub prawa osobiste (Art. 16).

### 5. Uzasadnienie

### 6. Oświadczenie
*"Oświadczam, że podane informacje są prawdziwe i działam w dobrej wierze.
Jestem uprawniony do reprezentowania właściciela praw autorskich lub praw
pokrewnych."*

### 7. Świadomość odpowiedzialności karnej
Art. 233 § 1 Kodeksu karnego - do 3 lat pozbawienia wolności za fałszywe
oświadczenie.

### 8. Podpis, data i miejsce

**Ważne:** prawa osobiste twórcy są niezbywalne i nieograniczone w czasie
(Art. 16 ust. 2). Czas reakcji: 72 godziny robocze.
`
}

func (plProfile) CounterNoticeTemplate() string {
	return `# Sprzeciw wobec usunięcia treści

## Prawo autorskie i prawa pokrewne (Polska)

1. Twoje dane (imię i nazwisko, adres, email, telefon).
2. Treść, której dotyczy sprzeciw (CID, data usunięcia, numer referencyjny).
3. Uzasadnienie: użytek osobisty (Art. 23), prawo cytatu (Art. 29), cele
   dydaktyczne (Art. 27), parodia, własność praw, domena publiczna lub inna
   podstawa prawna.
4. Dowody, oświadczenie i podpis.

**Czas rozpatrzenia:** 7 dni roboczych.

**Dalsze kroki:** w przypadku negatywnej decyzji możesz skierować sprawę do
sądu powszechnego.
`
}

func (plProfile) FooterHTML() string {
	return `<div class="pl-copyright-badge">Zgodność z polskim prawem autorskim &mdash; <a href="/copyright/report">Zgłoś naruszenie praw autorskich</a> &mdash; <small>Ustawa o prawie autorskim i prawach pokrewnych (Dz.U. 1994 nr 24 poz. 83)</small></div>`
}

func (plProfile) TakedownReasons() map[string]string {
	return map[string]string{
		"naruszenie_praw_autorskich": "Naruszenie praw autorskich",
		"naruszenie_praw_osobistych": "Naruszenie praw osobistych twórcy",
		"naruszenie_praw_pokrewnych": "Naruszenie praw pokrewnych",
		"plagiat":                    "Plagiat",
	}
}

func (plProfile) BlockedPageText(reason, language string) domain.BlockedPage {
	// Default language for this profile is Polish.
	return domain.BlockedPage{
		Title:   "451 - Treść niedostępna z przyczyn prawnych",
		Message: "Ta treść została zablokowana z powodu naruszenia polskiego prawa autorskiego.",
		Reason:  reason,
		Law:     "Ustawa o prawie autorskim i prawach pokrewnych (Dz.U. 1994 nr 24 poz. 83)",
		Action:  "Jeśli uważasz, że usunięcie było nieuzasadnione, możesz złożyć sprzeciw.",
		Link:    "/copyright/counter-notice",
		Note:    "Prawa osobiste twórcy są niezbywalne i nieograniczone w czasie (Art. 16 ust. 2)",
	}
}
