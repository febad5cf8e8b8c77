package jurisdiction

import (
	"fmt"

	"github.com/haukened/cid-gate/internal/gate/domain"
)

// frProfile implements French droit d'auteur compliance. French law
// distinguishes moral rights (perpetual and inalienable, Article L121-1)
// from economic rights, so notices must attest to both separately.
type frProfile struct{}

// NewFRProfile returns the French copyright profile.
func NewFRProfile() Profile { return frProfile{} }

func (frProfile) CountryCode() string { return "FR" }
func (frProfile) LawName() string     { return "Droit d'auteur (CPI)" }
func (frProfile) LawReference() string {
	return "Code de la propriété intellectuelle (Articles L111-1 à L343-7)"
}
func (frProfile) SLAHours() int { return 72 }

func (frProfile) RequiredFields() []string {
	return []string{
		"author_name",
		domain.FieldContactEmail,
		"contact_address",
		domain.FieldInfringingCID,
		"work_description",
		"moral_rights_statement",
		"economic_rights_statement",
		"good_faith_statement",
		"signature",
	}
}

func (p frProfile) ValidateNotice(n domain.Notice) error {
	err := validateCommon(n, p.RequiredFields(), domain.FieldContactEmail, messages{
		missingField: func(f string) string { return fmt.Sprintf("Champ requis manquant: %s", f) },
		invalidCID:   "Format CID IPFS invalide",
		invalidEmail: "Adresse email invalide",
	})
	if err != nil {
		return err
	}
	if n.Get("moral_rights_statement") == "" {
		return &ValidationError{
			Field:   "moral_rights_statement",
			Message: "La déclaration sur les droits moraux est requise (spécificité du droit français)",
		}
	}
	if n.Get("economic_rights_statement") == "" {
		return &ValidationError{
			Field:   "economic_rights_statement",
			Message: "La déclaration sur les droits patrimoniaux est requise",
		}
	}
	return nil
}

func (frProfile) NoticeTemplate() string {
	return `# Notification de violation du droit d'auteur

## Code de la propriété intellectuelle (France)

### 1. Identification de l'auteur
Nom, qualité (auteur, ayant droit, mandataire), adresse, email, téléphone.

### 2. Description de l'œuvre protégée
Titre, nature, date de création, description détaillée.

### 3. Localisation du contenu contrefaisant
- **CID IPFS:** ` + "`ipfs://...`" + `
- Description de la contrefaçon.

### 4. Droits patrimoniaux (Article L111-1)
*"Je suis titulaire des droits patrimoniaux sur cette œuvre, notamment les
droits de reproduction et de représentation."*

### 5. Droits moraux (Article L121-1)
*"Je déclare que le contenu signalé porte atteinte à mes droits moraux sur
l'œuvre."*

### 6. Déclaration de bonne foi
*"J'atteste sur l'honneur que les informations fournies sont exactes et que
je suis bien titulaire des droits invoqués ou mandaté pour agir au nom du
titulaire."*

### 7. Signature, date et lieu

**Important:** le droit moral français est perpétuel, inaliénable et
imprescriptible (Article L121-1). La dénonciation calomnieuse est punissable
(Article 226-10 du Code pénal). Délai de traitement: 48-72 heures.
`
}

func (frProfile) CounterNoticeTemplate() string {
	return `# Contestation de retrait - Droit d'auteur français

1. Vos informations (nom, adresse, email, téléphone).
2. Contenu concerné (CID retiré, date du retrait, référence).
3. Motifs de contestation: courte citation, exception pédagogique, parodie,
   revue de presse (Article L122-5), qualité d'auteur ou d'ayant droit,
   domaine public, ou autre base légale.
4. Déclaration sur l'honneur et signature.

**Délai de traitement:** 7 jours ouvrés.

**Recours:** vous pouvez saisir le tribunal judiciaire compétent.
`
}

func (frProfile) FooterHTML() string {
	return `<div class="fr-copyright-badge">Conformité Droit d'auteur français &mdash; <a href="/copyright/report">Signaler une violation</a> &mdash; <small>Code de la propriété intellectuelle - Articles L111-1 à L343-7</small></div>`
}

func (frProfile) TakedownReasons() map[string]string {
	return map[string]string{
		"droit_auteur": "Violation du droit d'auteur",
		"droit_moral":  "Atteinte aux droits moraux",
		"contrefacon":  "Contrefaçon",
		"droit_voisin": "Violation des droits voisins",
	}
}

func (frProfile) BlockedPageText(reason, language string) domain.BlockedPage {
	// Default language for this profile is French; no other localization is offered.
	return domain.BlockedPage{
		Title:   "451 - Contenu indisponible pour des raisons légales",
		Message: "Ce contenu a été bloqué en raison d'une violation du droit d'auteur français.",
		Reason:  reason,
		Law:     "Code de la propriété intellectuelle",
		Action:  "Si vous pensez que ce retrait est erroné, vous pouvez contester la décision.",
		Link:    "/copyright/counter-notice",
		Note:    "Le droit moral français est perpétuel et inaliénable (Article L121-1 CPI)",
	}
}
