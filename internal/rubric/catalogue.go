package rubric

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// #region catalogue

// Catalogue holds the rubric definitions. Replace swaps the whole slice so an
// assessment always sees one complete version.
type Catalogue struct {
	defs atomic.Pointer[[]Definition]
}

// NewCatalogue builds a catalogue from defs. The slice is copied.
func NewCatalogue(defs []Definition) *Catalogue {
	c := &Catalogue{}
	c.Replace(defs)
	return c
}

// Snapshot returns the current definitions. Callers must not mutate it.
func (c *Catalogue) Snapshot() []Definition {
	return *c.defs.Load()
}

// Replace atomically installs a new set of definitions.
func (c *Catalogue) Replace(defs []Definition) {
	cp := make([]Definition, len(defs))
	copy(cp, defs)
	c.defs.Store(&cp)
}

// Lookup finds a definition by id.
func (c *Catalogue) Lookup(id string) (Definition, bool) {
	for _, d := range c.Snapshot() {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// #endregion

// #region load

// LoadYAML reads rubric definitions from a YAML file holding a top-level
// "rubrics" list, mirroring the "seeds" list of a seed file.
func LoadYAML(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubrics: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses rubric YAML from memory.
func ParseYAML(data []byte) ([]Definition, error) {
	var raw struct {
		Rubrics []Definition `yaml:"rubrics"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rubrics: %w", err)
	}
	for i, d := range raw.Rubrics {
		if d.ID == "" {
			return nil, fmt.Errorf("rubric %d: missing id", i)
		}
	}
	return raw.Rubrics, nil
}

// #endregion

// #region defaults

// DefaultDefinitions is the built-in bilingual (Dutch/English) catalogue.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			ID:       "suicide_risk",
			Name:     "Suïcidaliteit",
			Category: CategoryCrisis,
			RiskFactorPhrases: []string{
				"zelfmoord", "suicide", "dood willen", "niet meer leven",
				"end my life", "kill myself", "geen uitweg", "no way out",
			},
			ProtectiveFactorPhrases: []string{
				"hulp zoeken", "seek help", "reden om te leven", "reason to live",
			},
			Interventions: []string{
				"Verwijs naar 113 Zelfmoordpreventie (0800-0113)",
				"Bespreek een veiligheidsplan",
			},
			RiskWeight:       2.0,
			ProtectiveWeight: 1.0,
		},
		{
			ID:       "self_harm",
			Name:     "Zelfbeschadiging",
			Category: CategoryCrisis,
			RiskFactorPhrases: []string{
				"mezelf pijn doen", "hurt myself", "snijden", "cutting myself",
			},
			ProtectiveFactorPhrases: []string{
				"wil stoppen", "want to stop",
			},
			Interventions: []string{
				"Vraag naar directe veiligheid",
				"Verwijs naar de huisarts of crisisdienst",
			},
			RiskWeight:       2.0,
			ProtectiveWeight: 1.0,
		},
		{
			ID:       "emotional_overwhelm",
			Name:     "Emotionele overbelasting",
			Category: CategoryDistress,
			RiskFactorPhrases: []string{
				"overweldigende emoties", "overwhelming emotions", "paniek", "panic",
				"kan het niet aan", "can't cope", "hopeloos", "hopeless",
			},
			ProtectiveFactorPhrases: []string{
				"ademhaling", "breathing", "rustig worden", "calm down",
			},
			Interventions: []string{
				"Bied een ademhalingsoefening aan",
				"Normaliseer de emotie",
			},
			RiskWeight:       1.0,
			ProtectiveWeight: 1.0,
		},
		{
			ID:       "anxiety",
			Name:     "Angst en piekeren",
			Category: CategoryDistress,
			RiskFactorPhrases: []string{
				"angstig", "anxious", "piekeren", "worrying", "slapeloos", "sleepless",
			},
			ProtectiveFactorPhrases: []string{
				"ontspanning", "relaxation",
			},
			Interventions: []string{
				"Stel een piekerkwartier voor",
			},
			RiskWeight:       1.0,
			ProtectiveWeight: 1.0,
		},
		{
			ID:       "social_support",
			Name:     "Sociale steun",
			Category: CategorySupport,
			RiskFactorPhrases: []string{
				"alleen", "alone", "eenzaam", "lonely", "niemand", "nobody",
			},
			ProtectiveFactorPhrases: []string{
				"vrienden", "friends", "familie", "family", "partner",
				"praten met", "talk to",
			},
			Interventions: []string{
				"Verken wie er in het netwerk steun kan bieden",
			},
			RiskWeight:       1.0,
			ProtectiveWeight: 1.0,
		},
		{
			ID:       "coping_skills",
			Name:     "Coping",
			Category: CategoryCoping,
			RiskFactorPhrases: []string{
				"drinken", "drinking", "vermijden", "avoiding",
			},
			ProtectiveFactorPhrases: []string{
				"wandelen", "walking", "sporten", "exercise", "dagboek", "journal",
				"meditatie", "meditation", "therapie", "therapy",
			},
			Interventions: []string{
				"Versterk bestaande copingstrategieën",
			},
			RiskWeight:       1.0,
			ProtectiveWeight: 1.0,
		},
	}
}

// defaultSynonymGroups lists inflectional variants that count as the same word.
var defaultSynonymGroups = [][]string{
	{"overweldigend", "overweldigende"},
	{"emotie", "emoties"},
	{"emotion", "emotions"},
	{"hopeloos", "hopeloze"},
	{"angstig", "angstige"},
	{"eenzaam", "eenzame"},
	{"vriend", "vrienden"},
	{"friend", "friends"},
	{"piekeren", "pieker", "piekert"},
	{"worry", "worrying", "worried"},
	{"panic", "panicking"},
	{"anxious", "anxiety"},
}

// DefaultSynonyms expands the built-in groups into a symmetric lookup table.
func DefaultSynonyms() map[string][]string {
	return BuildSynonyms(defaultSynonymGroups)
}

// BuildSynonyms maps every word in a group to the other words of that group.
func BuildSynonyms(groups [][]string) map[string][]string {
	out := make(map[string][]string)
	for _, g := range groups {
		for _, w := range g {
			for _, v := range g {
				if v != w {
					out[w] = append(out[w], v)
				}
			}
		}
	}
	return out
}

// #endregion
