package domain

import "sort"

type EpaperDescriptor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Language string `json:"language"`
	Image    string `json:"image"`
}

// Catalogue is the static, read-only set of newspapers keyed by id.
type Catalogue map[string]EpaperDescriptor

// Lookup returns the descriptor for id or ErrEpaperNotFound.
func (c Catalogue) Lookup(id string) (EpaperDescriptor, error) {
	paper, ok := c[id]
	if !ok {
		return EpaperDescriptor{}, ErrEpaperNotFound
	}
	return paper, nil
}

// IDs returns the catalogue ids in sorted order.
func (c Catalogue) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultCatalogue returns a fresh copy of the built-in newspaper list.
func DefaultCatalogue() Catalogue {
	papers := []EpaperDescriptor{
		{ID: "times-of-india", Name: "Times of India", URL: "https://timesofindia.indiatimes.com/epaper", Language: "english", Image: "/images/Hindustan%20times.png"},
		{ID: "maharashtra-times", Name: "Maharashtra Times", URL: "https://epaper.maharashtratimes.com/", Language: "marathi", Image: "/images/divya%20marathi.png"},
		{ID: "dainik-bhaskar", Name: "Dainik Bhaskar", URL: "https://www.bhaskar.com/epaper/", Language: "hindi", Image: "/images/dainik%20bhaskar.png"},
		{ID: "hindu", Name: "The Hindu", URL: "https://www.thehindu.com/epaper/", Language: "english", Image: "/images/The%20hindu.jpg"},
		{ID: "deccan-chronicle", Name: "Deccan Chronicle", URL: "https://www.deccanchronicle.com/epaper/", Language: "english", Image: "/images/deccan.png"},
		{ID: "navbharat-times", Name: "Navbharat Times", URL: "https://epaper.navbharattimes.com/", Language: "hindi", Image: "/images/navbharat.png"},
		{ID: "lokmat", Name: "Lokmat", URL: "https://www.lokmat.com/epaper/", Language: "marathi", Image: "/images/lokmat.png"},
		{ID: "pudhari", Name: "Pudhari", URL: "https://www.pudhari.news/", Language: "marathi", Image: "/images/pudhari.png"},
	}

	catalogue := make(Catalogue, len(papers))
	for _, p := range papers {
		catalogue[p.ID] = p
	}
	return catalogue
}
