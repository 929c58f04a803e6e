package service

import (
	"time"

	"github.com/dom/newsly/internal/domain"
)

func sampleHeadlines(now time.Time) []domain.Article {
	ts := now.UTC().Format(time.RFC3339)
	return []domain.Article{
		{
			Title:       "India at a glance: key stories today",
			Description: "Top developments across business, tech, politics, and sports to keep you informed quickly.",
			URL:         "https://newsly.example.com/today",
			Image:       "https://images.unsplash.com/photo-1457369804613-52c61a468e7d?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Brief"},
		},
		{
			Title:       "Markets and startups: what moved",
			Description: "A concise wrap of market moves, funding rounds, and startup launches across India.",
			URL:         "https://newsly.example.com/markets",
			Image:       "https://images.unsplash.com/photo-1520607162513-77705c0f0d4a?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Markets"},
		},
		{
			Title:       "Tech and science roundup",
			Description: "Product launches, research highlights, and policy shifts shaping the tech landscape.",
			URL:         "https://newsly.example.com/tech",
			Image:       "https://images.unsplash.com/photo-1515879218367-8466d910aaa4?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Tech"},
		},
		{
			Title:       "Sports highlights: matches and medals",
			Description: "Quick recap of major games, scores, and standout performances.",
			URL:         "https://newsly.example.com/sports",
			Image:       "https://images.unsplash.com/photo-1505842679547-4976cbaed83f?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Sports"},
		},
		{
			Title:       "Civics and policy watch",
			Description: "New bills, civic updates, and policy moves that affect daily life.",
			URL:         "https://newsly.example.com/civics",
			Image:       "https://images.unsplash.com/photo-1469474968028-56623f02e42e?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Policy"},
		},
		{
			Title:       "Culture and lifestyle picks",
			Description: "Films, music, food, and travel ideas trending this week.",
			URL:         "https://newsly.example.com/culture",
			Image:       "https://images.unsplash.com/photo-1440404653325-ab127d49abc1?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Culture"},
		},
	}
}

func sampleRegional(now time.Time) []domain.Article {
	ts := now.UTC().Format(time.RFC3339)
	return []domain.Article{
		{
			Title:       "प्रादेशिक शीर्ष बातम्या",
			Description: "आपल्या प्रदेशातील महत्वाच्या घडामोडींचा जलद आढावा.",
			URL:         "https://newsly.example.com/regional/1",
			Image:       "https://images.unsplash.com/photo-1504711434969-e33886168f5c?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Regional"},
		},
		{
			Title:       "ಸ್ಥಳೀಯ ಸುದ್ದಿಗಳ ಸಂಗ್ರಹ",
			Description: "ನಿಮ್ಮ ರಾಜ್ಯದ ಪ್ರಮುಖ ಸುದ್ದಿಗಳ ತುಂಟುರು ಓದು.",
			URL:         "https://newsly.example.com/regional/2",
			Image:       "https://images.unsplash.com/photo-1495020689067-958852a7765e?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Regional"},
		},
		{
			Title:       "தமிழ் முக்கிய செய்திகள்",
			Description: "உங்கள் மாநிலத்தில் நடந்த முக்கிய செய்திகள் துல்லியமாக.",
			URL:         "https://newsly.example.com/regional/3",
			Image:       "https://images.unsplash.com/photo-1520975922192-4baf2abd98c5?auto=format&fit=crop&w=900&q=80",
			PublishedAt: ts,
			Source:      domain.ArticleSource{Name: "Newsly Regional"},
		},
	}
}
