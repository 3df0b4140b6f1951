package activity

import "time"

type sample struct {
	title       string
	description string
	image       string
	daysAgo     int
}

var samples = []sample{
	{
		title:       "JKUAT, UoN Lead Kenyan Institutions in AI Research",
		description: "The future of AI is here, and we are excited to be at the forefront of this transformative journey.",
		image:       "./assets/images/interview-1.jpeg",
		daysAgo:     0,
	},
	{
		title:       "Agent-Based Modeling Training at University of Nairobi",
		description: "Facilitating a training session on Agent-Based Modeling at the University of Nairobi (UoN).",
		image:       "./assets/images/interview-2.jpeg",
		daysAgo:     30,
	},
	{
		title:       "AI-Powered Innovation in Healthcare",
		description: "Exploring how artificial intelligence is revolutionizing healthcare delivery in Africa.",
		image:       "./assets/images/interview-3.jpeg",
		daysAgo:     60,
	},
}

// Fallback returns the static sample entries dated relative to now.
func Fallback(now time.Time) []Entry {
	out := make([]Entry, 0, len(samples))
	for _, s := range samples {
		out = append(out, Entry{
			Date:        DaysAgo(now, s.daysAgo),
			Title:       s.title,
			Description: s.description,
			Link:        DefaultProfileURL,
			Image:       s.image,
			Type:        DefaultType,
		})
	}
	return out
}
