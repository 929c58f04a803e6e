package domain

import "strings"

type ArticleSource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content,omitempty"`
	URL         string        `json:"url"`
	Image       string        `json:"image"`
	PublishedAt string        `json:"publishedAt"`
	Source      ArticleSource `json:"source"`
}

// RegionParams is the language and script-native query used for a region.
type RegionParams struct {
	Lang string `json:"lang"`
	Q    string `json:"q"`
}

const (
	DefaultRegion = "maharashtra"
	TopStories    = "top stories"
)

var regions = map[string]RegionParams{
	"maharashtra":    {Lang: "mr", Q: "महाराष्ट्र"},
	"karnataka":      {Lang: "kn", Q: "ಕರ್ನಾಟಕ"},
	"tamil nadu":     {Lang: "ta", Q: "தமிழ்நாடு"},
	"telangana":      {Lang: "te", Q: "తెలంగాణ"},
	"andhra pradesh": {Lang: "te", Q: "ఆంధ్ర ప్రదేశ్"},
	"west bengal":    {Lang: "bn", Q: "পশ্চিমবঙ্গ"},
	"bihar":          {Lang: "hi", Q: "बिहार"},
	"uttar pradesh":  {Lang: "hi", Q: "उत्तर प्रदेश"},
	"madhya pradesh": {Lang: "hi", Q: "मध्य प्रदेश"},
	"rajasthan":      {Lang: "hi", Q: "राजस्थान"},
	"punjab":         {Lang: "pa", Q: "ਪੰਜਾਬ"},
	"haryana":        {Lang: "hi", Q: "हरियाणा"},
	"delhi":          {Lang: "hi", Q: "दिल्ली"},
	"kerala":         {Lang: "ml", Q: "കേരളം"},
	"goa":            {Lang: "mr", Q: "गोवा"},
	"dhaka":          {Lang: "bn", Q: "ঢাকা"},
}

// LookupRegion returns the params for a region name. Unknown names resolve to
// the default region; the bool reports whether the name was known.
func LookupRegion(name string) (RegionParams, bool) {
	if params, ok := regions[strings.ToLower(name)]; ok {
		return params, true
	}
	return regions[DefaultRegion], false
}

var topics = map[string]string{
	"business":      "business",
	"sports":        "sports",
	"entertainment": "entertainment",
	"technology":    "technology",
	"health":        "health",
	"world":         "world",
	"science":       "science",
}

// LookupTopic maps a user supplied topic to an upstream topic. An empty
// result means the caller should fall back to top headlines.
func LookupTopic(raw string) string {
	return topics[strings.ToLower(raw)]
}
