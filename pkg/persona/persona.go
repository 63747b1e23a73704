// Package persona holds the static catalog of assistant personas. Each
// persona is a named system-instruction string that conditions the
// model's tone and role for a turn. The catalog is built once at
// process start and never mutated.
package persona

import "sort"

// Persona is one entry in the catalog.
type Persona struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction"`

	// ImageGeneration marks personas whose turns are routed to the
	// image endpoint instead of the text model. Image turns pass the
	// raw prompt straight through: no history, no file folding.
	ImageGeneration bool `json:"image_generation"`
}

// Catalog is an immutable name → persona mapping.
type Catalog struct {
	byName map[string]Persona
	names  []string
}

// NewCatalog builds a catalog from the given personas.
func NewCatalog(personas ...Persona) *Catalog {
	c := &Catalog{byName: make(map[string]Persona, len(personas))}
	for _, p := range personas {
		if _, dup := c.byName[p.Name]; !dup {
			c.names = append(c.names, p.Name)
		}
		c.byName[p.Name] = p
	}
	sort.Strings(c.names)
	return c
}

// Get looks up a persona by name.
func (c *Catalog) Get(name string) (Persona, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Names returns all persona names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// All returns every persona, ordered by name.
func (c *Catalog) All() []Persona {
	out := make([]Persona, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.byName[name])
	}
	return out
}

// DefaultCatalog returns the built-in marketing persona set.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Persona{
			Name:        "General Assistant",
			Instruction: "You are an expert helpful digital marketing assistant who loves to explain in detail.",
		},
		Persona{
			Name:            "Image Generator",
			Instruction:     "You are an AI image generation assistant. The user will provide a prompt describing an image they want to create.",
			ImageGeneration: true,
		},
		Persona{
			Name:        "Ad Copy Generator",
			Instruction: "You are an expert copywriter. Your task is to create compelling ad copy based on the user's request. Focus on headlines, body text, and calls-to-action.",
		},
		Persona{
			Name:        "Social Media Post Generator",
			Instruction: "You are a social media manager. Create engaging posts for the specified platform, including relevant hashtags and a suitable tone.",
		},
		Persona{
			Name:        "Email Campaign Writer",
			Instruction: "You are an email marketing specialist. Write effective marketing emails with strong subject lines and clear calls-to-action.",
		},
		Persona{
			Name:        "Blog Generator",
			Instruction: "You are a professional blog writer. Your task is to generate a well-structured, SEO-friendly blog post based on the user's topic and keywords.",
		},
		Persona{
			Name:        "SEO Analyst",
			Instruction: "You are an SEO expert. Generate relevant short-tail and long-tail keywords, analyze competitor strategies, and provide on-page SEO suggestions.",
		},
		Persona{
			Name:        "Content Improver",
			Instruction: "You are an expert content editor. Rewrite and improve the user's text based on their stated goal (e.g., make it more persuasive, simplify it).",
		},
		Persona{
			Name:        "AI to Human Text Converter",
			Instruction: "You are a skilled novel writer. Your task is to rewrite AI-generated text to sound more natural, engaging, and human-like. Focus on varying sentence structure, using more natural language, and adding a human touch.",
		},
		Persona{
			Name:        "Digital Marketing Analyst",
			Instruction: "You are a digital marketing analyst. Your role is to analyze data, summarize reports, and provide actionable insights.",
		},
		Persona{
			Name:        "AI Image Generator",
			Instruction: "You are an expert image creator and a social media expert, and know everything about instagram posts, facebook posts, stories, social media marketing, youtube marketing, and other social media platforms where pictures are uploaded. Your task is to generate images as per the user's request",
		},
	)
}
