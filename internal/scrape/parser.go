package scrape

import (
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"roomhunt-engine/internal/domain"
	"roomhunt-engine/internal/textutil"
)

var coordsRE = regexp.MustCompile(`location:\s*{[^}]*latitude:\s*"([^"]+)",\s*longitude:\s*"([^"]+)"`)

// collectiveVocab is the vocabulary counted towards the "sounds like a
// household, not a dormitory" signal in the listing description.
var collectiveVocab = map[string]bool{
	"we": true, "us": true, "our": true, "ours": true,
	"together": true, "household": true, "home": true,
	"shared": true, "sharing": true,
}

var partWeekPhrases = []string{
	"Room available Monday to Friday only",
	"Room available weekends only",
}

// ParseListing extracts the raw field mapping and page-level attributes
// from one listing page.
func ParseListing(url, html string) (Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Listing{}, err
	}

	l := Listing{
		ID:               domain.IDFromURL(url),
		URL:              url,
		Fields:           map[string]string{},
		AvailableAllWeek: availableAllWeek(doc),
		PosterType:       textutil.CleanText(doc.Find(".advertiser-info em").First().Text()),
	}

	if title := textutil.CleanText(doc.Find("h1.ad_detail__heading").First().Text()); title != "" {
		l.Fields["title"] = title
	}
	if src, ok := doc.Find("img.photo-gallery__main-image").First().Attr("src"); ok {
		l.ImageURL = src
	}

	keyFeatures(doc, l.Fields)
	featureList(doc, l.Fields)

	l.Coords = coordinates(html)
	l.CollectiveWordCount = collectiveWordCount(doc)

	return l, nil
}

// keyFeatures reads the four positional entries of the key-features
// list; each position gets its own cleanup quirk.
func keyFeatures(doc *goquery.Document, fields map[string]string) {
	names := []string{"type", "area", "postcode", "nearest_station"}

	doc.Find("ul.key-features li").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= len(names) {
			return false
		}
		text := textutil.CleanText(sel.Text())
		switch i {
		case 1:
			// station distances are appended as "Area 0.3 miles"
			var words []string
			for _, w := range strings.Fields(text) {
				if !strings.ContainsAny(w, "0123456789") {
					words = append(words, w)
				}
			}
			text = strings.Join(words, " ")
		case 2:
			text, _, _ = strings.Cut(text, "Area")
		case 3:
			text, _, _ = strings.Cut(text, "Station")
		}
		fields[names[i]] = strings.TrimSpace(text)
		return true
	})
}

// featureList flattens every dt/dd pair of the detail tables into
// snake_case raw keys ("bills_included?", "total_#_rooms", "£900 pcm").
func featureList(doc *goquery.Document, fields map[string]string) {
	doc.Find("dl.feature-list").Each(func(_ int, dl *goquery.Selection) {
		dts := dl.Find("dt")
		dds := dl.Find("dd")
		n := dts.Length()
		if dds.Length() < n {
			n = dds.Length()
		}
		for i := 0; i < n; i++ {
			key := textutil.CleanText(dts.Eq(i).Text())
			key = strings.ToLower(strings.Join(strings.Fields(key), "_"))
			if key == "" {
				continue
			}
			fields[key] = textutil.CleanText(dds.Eq(i).Text())
		}
	})
}

func availableAllWeek(doc *goquery.Document) bool {
	all := true
	doc.Find("ul.feature-list li").Each(func(_ int, sel *goquery.Selection) {
		text := textutil.CleanText(sel.Text())
		for _, phrase := range partWeekPhrases {
			if text == phrase {
				all = false
			}
		}
	})
	return all
}

// coordinates digs the lat/lon pair out of the map bootstrap script.
func coordinates(html string) *domain.Coords {
	m := coordsRE.FindStringSubmatch(html)
	if m == nil {
		log.Printf("[scrape] location not found")
		return nil
	}
	lat, latErr := strconv.ParseFloat(m[1], 64)
	lon, lonErr := strconv.ParseFloat(m[2], 64)
	if latErr != nil || lonErr != nil {
		log.Printf("[scrape] unparseable coordinates %q,%q", m[1], m[2])
		return nil
	}
	return &domain.Coords{Lat: round6(lat), Lon: round6(lon)}
}

func collectiveWordCount(doc *goquery.Document) int {
	text := textutil.CleanText(doc.Find("p.detaildesc").First().Text())
	count := 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if collectiveVocab[strings.Trim(w, ".,!?;:'\"()")] {
			count++
		}
	}
	return count
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
