package dataset

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"foodreel/internal/catalog"
)

// QA is one question and answer pair for a page.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const captionExcerptLength = 140

// FAQ builds the ordered question list for an item page. Provider rating
// questions appear only when that provider has data.
func FAQ(r catalog.Restaurant, item catalog.Item) []QA {
	p := message.NewPrinter(language.English)
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = r.Slug
	}
	city := firstNonEmpty(r.City, item.City)
	cuisine := firstNonEmpty(r.Cuisine, item.Cuisine)

	faq := []QA{{
		Question: p.Sprintf("Where is %s located?", name),
		Answer:   locationAnswer(p, name, r.Address, city, r.Region),
	}}
	if cuisine != "" {
		faq = append(faq, QA{
			Question: p.Sprintf("What kind of food does %s serve?", name),
			Answer:   p.Sprintf("%s serves %s food.", name, cuisine),
		})
	}
	if r.Google.HasData() {
		faq = append(faq, QA{
			Question: p.Sprintf("What is %s's Google rating?", name),
			Answer:   ratingAnswer(p, name, "Google", r.Google),
		})
	}
	if r.Yelp.HasData() {
		faq = append(faq, QA{
			Question: p.Sprintf("What is %s's Yelp rating?", name),
			Answer:   ratingAnswer(p, name, "Yelp", r.Yelp),
		})
	}

	shows := p.Sprintf("This video features %s", name)
	if city != "" {
		shows += p.Sprintf(" in %s", city)
	}
	if excerpt := excerpt(item.Caption); excerpt != "" {
		shows += p.Sprintf(": %q", excerpt)
	} else {
		shows += "."
	}
	faq = append(faq, QA{Question: "What does this video show?", Answer: shows})

	videos := len(r.ItemIDs)
	if videos == 0 {
		videos = 1
	}
	faq = append(faq, QA{
		Question: p.Sprintf("How many videos feature %s?", name),
		Answer:   p.Sprintf("%d %s on this site %s %s.", videos, plural(videos, "video", "videos"), plural(videos, "features", "feature"), name),
	})
	return faq
}

func locationAnswer(p *message.Printer, name, address, city, region string) string {
	switch {
	case address != "":
		return p.Sprintf("%s is located at %s.", name, address)
	case city != "" && region != "" && region != city:
		return p.Sprintf("%s is located in %s, %s.", name, city, region)
	case city != "":
		return p.Sprintf("%s is located in %s.", name, city)
	default:
		return p.Sprintf("The exact location of %s is not known yet.", name)
	}
}

func ratingAnswer(p *message.Printer, name, provider string, record catalog.RatingRecord) string {
	return p.Sprintf("%s is rated %.1f out of 5 on %s based on %d %s.",
		name, record.Rating, provider, record.ReviewCount, plural(record.ReviewCount, "review", "reviews"))
}

func excerpt(caption string) string {
	caption = strings.Join(strings.Fields(caption), " ")
	if utf8.RuneCountInString(caption) <= captionExcerptLength {
		return caption
	}
	runes := []rune(caption)
	return strings.TrimSpace(string(runes[:captionExcerptLength])) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
