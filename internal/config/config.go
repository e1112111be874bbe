package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Calibration is the (min, max) interval a range attribute is normalized
// against. Values outside the interval are not clamped.
type Calibration struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type Config struct {
	App struct {
		DataDir   string `yaml:"data_dir"`
		OutputCSV string `yaml:"output_csv"`
		MapHTML   string `yaml:"map_html"`
	} `yaml:"app"`

	Search struct {
		Domain        string `yaml:"domain"`
		Area          string `yaml:"area"`
		MinRent       int    `yaml:"min_rent"`
		MaxRent       int    `yaml:"max_rent"`
		Pages         int    `yaml:"pages"`
		MinTermMonths int    `yaml:"min_term_months"`
		Headless      bool   `yaml:"headless"`
		CheckExpired  bool   `yaml:"check_expired"`
	} `yaml:"search"`

	// Station rosters with a direct line to the office. Membership is
	// compared case/width-insensitively.
	Stations struct {
		Jubilee   []string `yaml:"jubilee"`
		Elizabeth []string `yaml:"elizabeth"`
	} `yaml:"stations"`

	Scoring struct {
		Weights map[string]float64     `yaml:"weights"`
		Ranges  map[string]Calibration `yaml:"ranges"`
	} `yaml:"scoring"`

	// Status keywords accepted from the exported spreadsheet, lowercase.
	Statuses struct {
		IgnoreAny    []string `yaml:"ignore_any"`
		FavouriteAny []string `yaml:"favourite_any"`
		MessagedAny  []string `yaml:"messaged_any"`
	} `yaml:"statuses"`

	Map MapConfig `yaml:"map"`
}

type MapConfig struct {
	ShowFavourites  bool    `yaml:"show_favourites"`
	ShowNewListings bool    `yaml:"show_new_listings"`
	MinScore        float64 `yaml:"min_score"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default returns the built-in configuration; the shipped config.yml
// mirrors it. Kept in code so tests and fresh data dirs work without a
// config file.
func Default() Config {
	var cfg Config

	cfg.App.DataDir = "data"
	cfg.App.OutputCSV = "output/rooms.csv"
	cfg.App.MapHTML = "output/map.html"

	cfg.Search.Domain = "https://www.spareroom.co.uk"
	cfg.Search.Area = "London"
	cfg.Search.MinRent = 200
	cfg.Search.MaxRent = 1000
	cfg.Search.Pages = 1
	cfg.Search.MinTermMonths = 6
	cfg.Search.Headless = true

	cfg.Stations.Jubilee = []string{
		"Stanmore", "Canons Park", "Queensbury", "Kingsbury", "Wembley Park", "Neasden", "Dollis Hill",
		"Willesden Green", "Kilburn", "West Hampstead", "Finchley Road", "Swiss Cottage", "St. John's Wood",
		"Baker Street", "Bond Street", "Green Park", "Westminster", "Waterloo", "Southwark", "London Bridge",
		"Bermondsey", "Canada Water", "Canary Wharf", "North Greenwich", "Canning Town", "West Ham", "Stratford",
	}
	cfg.Stations.Elizabeth = []string{
		"Reading", "Twyford", "Maidenhead", "Taplow", "Burnham", "Slough", "Langley", "Iver", "West Drayton",
		"Hayes & Harlington", "Southall", "Hanwell", "West Ealing", "Ealing Broadway", "Acton Main Line",
		"Paddington", "Bond Street", "Tottenham Court Road", "Farringdon", "Liverpool Street", "Whitechapel",
		"Canary Wharf", "Custom House", "Woolwich", "Abbey Wood", "Stratford", "Maryland", "Forest Gate",
		"Manor Park", "Ilford", "Seven Kings", "Goodmayes", "Chadwell Heath", "Romford", "Gidea Park",
		"Harold Wood", "Brentwood", "Shenfield",
	}

	cfg.Scoring.Weights = map[string]float64{
		"direct_line_to_office":   1,
		"location_1":              5,
		"location_2":              4,
		"minimum_term":            1,
		"bills_included":          4,
		"broadband_included":      1,
		"garden_or_patio":         1,
		"living_room":             3,
		"balcony_or_roof_terrace": 1,
		"total_number_of_rooms":   2,
		"average_price":           5,
		"furnishings":             2,
		"collective_word_count":   1,
	}
	cfg.Scoring.Ranges = map[string]Calibration{
		"location_1":            {Min: 20, Max: 60},
		"location_2":            {Min: 20, Max: 60},
		"minimum_term":          {Min: 0, Max: 12},
		"total_number_of_rooms": {Min: 2, Max: 6},
		"average_price":         {Min: 700, Max: 1000},
		"collective_word_count": {Min: 0, Max: 7},
	}

	cfg.Statuses.IgnoreAny = []string{"ignore", "ignored", "hide"}
	cfg.Statuses.FavouriteAny = []string{"favourite", "favorite", "fav"}
	cfg.Statuses.MessagedAny = []string{"messaged", "contacted"}

	cfg.Map.ShowFavourites = true
	cfg.Map.ShowNewListings = true
	cfg.Map.MinScore = 15

	return cfg
}
