package extraction

import (
	"regexp"
	"strings"
)

// CityAlias lists the caption spellings that resolve to a canonical city.
type CityAlias struct {
	City    string
	Region  string
	Aliases []string
}

// CuisineKeyword lists the caption words that resolve to a cuisine label.
type CuisineKeyword struct {
	Cuisine  string
	Keywords []string
}

// DefaultCityAliases is evaluated in order; the first entry with a matching
// alias wins.
var DefaultCityAliases = []CityAlias{
	{City: "New York", Region: "NY", Aliases: []string{
		"new york", "nyc", "brooklyn", "manhattan", "queens", "bronx", "harlem",
		"brighton beach", "williamsburg", "staten island", "flushing", "soho",
	}},
	{City: "Los Angeles", Region: "CA", Aliases: []string{
		"los angeles", "dtla", "hollywood", "koreatown", "santa monica", "silver lake",
	}},
	{City: "San Francisco", Region: "CA", Aliases: []string{"san francisco", "sf", "mission district", "oakland"}},
	{City: "San Diego", Region: "CA", Aliases: []string{"san diego"}},
	{City: "Chicago", Region: "IL", Aliases: []string{"chicago", "chi-town"}},
	{City: "Miami", Region: "FL", Aliases: []string{"miami", "wynwood", "little havana"}},
	{City: "Las Vegas", Region: "NV", Aliases: []string{"las vegas", "vegas"}},
	{City: "Austin", Region: "TX", Aliases: []string{"austin", "atx"}},
	{City: "Houston", Region: "TX", Aliases: []string{"houston", "htx"}},
	{City: "Dallas", Region: "TX", Aliases: []string{"dallas"}},
	{City: "New Orleans", Region: "LA", Aliases: []string{"new orleans", "nola"}},
	{City: "Nashville", Region: "TN", Aliases: []string{"nashville"}},
	{City: "Atlanta", Region: "GA", Aliases: []string{"atlanta", "atl"}},
	{City: "Philadelphia", Region: "PA", Aliases: []string{"philadelphia", "philly"}},
	{City: "Boston", Region: "MA", Aliases: []string{"boston"}},
	{City: "Washington", Region: "DC", Aliases: []string{"washington dc", "dc"}},
	{City: "Seattle", Region: "WA", Aliases: []string{"seattle"}},
	{City: "Portland", Region: "OR", Aliases: []string{"portland", "pdx"}},
	{City: "Denver", Region: "CO", Aliases: []string{"denver"}},
	{City: "Toronto", Region: "ON", Aliases: []string{"toronto"}},
	{City: "London", Region: "England", Aliases: []string{"london"}},
	{City: "Paris", Region: "Ile-de-France", Aliases: []string{"paris"}},
	{City: "Tokyo", Region: "Tokyo", Aliases: []string{"tokyo", "shibuya", "shinjuku"}},
	{City: "Mexico City", Region: "CDMX", Aliases: []string{"mexico city", "cdmx"}},
}

// DefaultCuisineKeywords is evaluated in order; the first entry with a
// matching keyword wins.
var DefaultCuisineKeywords = []CuisineKeyword{
	{Cuisine: "Pizza", Keywords: []string{"pizza", "pizzeria", "slice", "slices"}},
	{Cuisine: "Japanese", Keywords: []string{"sushi", "ramen", "omakase", "japanese", "izakaya", "udon", "tempura"}},
	{Cuisine: "Korean", Keywords: []string{"korean", "kbbq", "bibimbap", "bulgogi"}},
	{Cuisine: "Chinese", Keywords: []string{"dim sum", "dumplings", "dumpling", "chinese", "szechuan", "sichuan", "peking duck"}},
	{Cuisine: "Vietnamese", Keywords: []string{"pho", "banh mi", "vietnamese"}},
	{Cuisine: "Thai", Keywords: []string{"thai", "pad thai", "khao soi"}},
	{Cuisine: "Indian", Keywords: []string{"indian", "curry", "biryani", "masala", "tandoori"}},
	{Cuisine: "Mexican", Keywords: []string{"taco", "tacos", "taqueria", "mexican", "burrito", "birria", "quesadilla"}},
	{Cuisine: "Italian", Keywords: []string{"italian", "pasta", "trattoria", "carbonara", "lasagna", "gnocchi"}},
	{Cuisine: "Russian", Keywords: []string{"russian", "pelmeni", "borscht", "blini"}},
	{Cuisine: "Middle Eastern", Keywords: []string{"falafel", "shawarma", "hummus", "kebab", "middle eastern"}},
	{Cuisine: "Caribbean", Keywords: []string{"caribbean", "jamaican", "jerk chicken"}},
	{Cuisine: "Burgers", Keywords: []string{"burger", "burgers", "smashburger", "cheeseburger"}},
	{Cuisine: "BBQ", Keywords: []string{"bbq", "barbecue", "brisket", "ribs"}},
	{Cuisine: "Deli", Keywords: []string{"deli", "pastrami", "reuben"}},
	{Cuisine: "Steakhouse", Keywords: []string{"steakhouse", "steak", "wagyu"}},
	{Cuisine: "Seafood", Keywords: []string{"seafood", "oysters", "oyster", "lobster", "crab"}},
	{Cuisine: "Bakery", Keywords: []string{"bakery", "croissant", "croissants", "pastry", "bagel", "bagels"}},
	{Cuisine: "Dessert", Keywords: []string{"dessert", "ice cream", "gelato", "donut", "donuts", "cheesecake"}},
	{Cuisine: "Breakfast", Keywords: []string{"brunch", "breakfast", "pancakes"}},
}

type dictionaryEntry struct {
	label   string
	pattern *regexp.Regexp
}

type dictionary []dictionaryEntry

func compileDictionary(labels []string, terms [][]string) dictionary {
	dict := make(dictionary, 0, len(labels))
	for i, label := range labels {
		alternatives := make([]string, 0, len(terms[i]))
		for _, term := range terms[i] {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			words := strings.Fields(term)
			for j, word := range words {
				words[j] = regexp.QuoteMeta(word)
			}
			alternatives = append(alternatives, strings.Join(words, `\s+`))
		}
		if len(alternatives) == 0 {
			continue
		}
		dict = append(dict, dictionaryEntry{
			label:   label,
			pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`),
		})
	}
	return dict
}

func (d dictionary) match(text string) string {
	if text == "" {
		return ""
	}
	for _, entry := range d {
		if entry.pattern.MatchString(text) {
			return entry.label
		}
	}
	return ""
}

func compileCities(entries []CityAlias) (dictionary, map[string]string) {
	labels := make([]string, len(entries))
	terms := make([][]string, len(entries))
	regions := make(map[string]string, len(entries))
	for i, entry := range entries {
		labels[i] = entry.City
		terms[i] = entry.Aliases
		if _, seen := regions[strings.ToLower(entry.City)]; !seen {
			regions[strings.ToLower(entry.City)] = entry.Region
		}
	}
	return compileDictionary(labels, terms), regions
}

func compileCuisines(entries []CuisineKeyword) dictionary {
	labels := make([]string, len(entries))
	terms := make([][]string, len(entries))
	for i, entry := range entries {
		labels[i] = entry.Cuisine
		terms[i] = entry.Keywords
	}
	return compileDictionary(labels, terms)
}

var (
	defaultCities, defaultRegions = compileCities(DefaultCityAliases)
	defaultCuisines               = compileCuisines(DefaultCuisineKeywords)
)

// MatchCity returns the canonical city for the first alias found in text.
func MatchCity(text string) string {
	return defaultCities.match(text)
}

// MatchCuisine returns the cuisine for the first keyword found in text.
func MatchCuisine(text string) string {
	return defaultCuisines.match(text)
}

// RegionFor maps a canonical city to its state or region code. Unknown
// cities map to "".
func RegionFor(city string) string {
	return defaultRegions[strings.ToLower(strings.TrimSpace(city))]
}
