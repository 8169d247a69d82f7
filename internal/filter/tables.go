package filter

import (
	"fmt"
	"strings"
)

// Option is one entry of a filter drop-down.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Terms lists the academic terms offered as filters.
var Terms = []Option{
	{All, "All Terms"},
	{"2024-2025", "2024-2025 Academic Year"},
	{"fall2024", "Fall 2024"},
	{"spring2025", "Spring 2025"},
	{"spring2026", "Spring 2026"},
}

// Blocks lists the block filters.
var Blocks = []Option{
	{All, "All Blocks"},
	{"block1", "Block 1"},
	{"block2", "Block 2"},
	{"block3", "Block 3"},
	{"block4", "Block 4"},
	{"block5", "Block 5"},
	{"block6", "Block 6"},
	{"block7", "Block 7"},
	{"block8", "Block 8"},
	{"blockA", "Block A"},
	{"blockB", "Block B"},
	{"blockC", "Block C"},
	{"blockH", "Half Block"},
}

// Programs lists the academic programs as they appear in program-<Value>
// class names on the schedule page.
var Programs = []Option{
	{All, "All Programs"},
	{"Anthropology", "Anthropology"},
	{"Arabic", "Arabic"},
	{"ArtHistory", "Art History"},
	{"ArtStudio", "Art Studio"},
	{"AsianStudies", "Asian Studies"},
	{"BusinessEconomicsSociety", "Business, Economics, & Society"},
	{"ChemistryBiochemistry", "Chemistry & Biochemistry"},
	{"ChineseLanguage", "Chinese Language"},
	{"Classics", "Classics"},
	{"ComparativeLiterature", "Comparative Literature"},
	{"ComputerScience", "Computer Science"},
	{"DanceStudio", "Dance Studio"},
	{"DanceTheory", "Dance Theory"},
	{"Economics", "Economics"},
	{"Education", "Education"},
	{"English", "English"},
	{"EnvironmentalProgram", "Environmental Program"},
	{"FeministandGenderStudies", "Feminist and Gender Studies"},
	{"FilmStudies", "Film Studies"},
	{"FilmandMedia", "Film and Media"},
	{"FirstYearFoundations", "First Year Foundations"},
	{"French", "French"},
	{"GeneralStudies", "General Studies"},
	{"Geology", "Geology"},
	{"German", "German"},
	{"Hebrew", "Hebrew"},
	{"History", "History"},
	{"HumanBiologyandKinesiology", "Human Biology and Kinesiology"},
	{"Italian", "Italian"},
	{"Japanese", "Japanese"},
	{"Mathematics", "Mathematics"},
	{"MolecularBiology", "Molecular Biology"},
	{"MuseumStudies", "Museum Studies"},
	{"Music", "Music"},
	{"OrganismalBiologyEcology", "Organismal Biology & Ecology"},
	{"Philosophy", "Philosophy"},
	{"Physics", "Physics"},
	{"PoliticalScience", "Political Science"},
	{"Portuguese", "Portuguese"},
	{"Psychology", "Psychology"},
	{"RaceEthnicityandMigrationStudies", "Race, Ethnicity, and Migration Studies"},
	{"Religion", "Religion"},
	{"Russian", "Russian"},
	{"RussianandEurasianStudies", "Russian and Eurasian Studies"},
	{"Sociology", "Sociology"},
	{"SouthwestStudies", "Southwest Studies"},
	{"Spanish", "Spanish"},
	{"StudiesinHumanities", "Studies in Humanities"},
	{"StudiesinNaturalSciences", "Studies in Natural Sciences"},
	{"Theatre", "Theatre"},
}

// Label returns the display label for value, or value itself when unknown.
func Label(options []Option, value string) string {
	for _, o := range options {
		if strings.EqualFold(o.Value, value) {
			return o.Label
		}
	}
	return value
}

// Has reports whether value is one of options.
func Has(options []Option, value string) bool {
	for _, o := range options {
		if strings.EqualFold(o.Value, value) {
			return true
		}
	}
	return false
}

// allOf holds substrings that must all appear in the row text.
type allOf []string

// matcher is satisfied when any one of its allOf groups is.
type matcher []allOf

func (m matcher) match(text string) bool {
	for _, group := range m {
		ok := true
		for _, s := range group {
			if !strings.Contains(text, s) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// termMatchers maps lowercase term tags to their patterns.
var termMatchers = map[string]matcher{
	"2024-2025":  {{"2024"}, {"2025"}},
	"fall2024":   seasonMatcher("fall", 2024, 1, 4),
	"spring2025": seasonMatcher("spring", 2025, 5, 8),
	"spring2026": seasonMatcher("spring", 2026, 5, 8),
}

// seasonMatcher builds "<season> <year>" OR (<season> AND <year>) OR
// "block N <year>" for N in [firstBlock, lastBlock].
func seasonMatcher(season string, year, firstBlock, lastBlock int) matcher {
	y := fmt.Sprint(year)
	m := matcher{
		{season + " " + y},
		{season, y},
	}
	for n := firstBlock; n <= lastBlock; n++ {
		m = append(m, allOf{fmt.Sprintf("block %d %s", n, y)})
	}
	return m
}

// blockMatchers maps lowercase block tags to their spaced and unspaced forms.
var blockMatchers = func() map[string]matcher {
	m := make(map[string]matcher, len(Blocks)-1)
	for _, o := range Blocks {
		if o.Value == All {
			continue
		}
		token := strings.ToLower(strings.TrimPrefix(o.Value, "block"))
		m[strings.ToLower(o.Value)] = matcher{{"block " + token}, {"block" + token}}
	}
	return m
}()

// matchTerm expects lowercased text. Unknown tags match everything.
func matchTerm(text, term string) bool {
	if isAll(term) {
		return true
	}
	m, ok := termMatchers[strings.ToLower(strings.TrimSpace(term))]
	if !ok {
		return true
	}
	return m.match(text)
}

// matchBlock expects lowercased text. Unknown tags match everything.
func matchBlock(text, block string) bool {
	if isAll(block) {
		return true
	}
	m, ok := blockMatchers[strings.ToLower(strings.TrimSpace(block))]
	if !ok {
		return true
	}
	return m.match(text)
}
