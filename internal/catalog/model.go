// Package catalog browses the remote creature catalog.
package catalog

// Item is one entry of a catalog page.
type Item struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Page is one page of the catalog listing.
type Page struct {
	// Cursor is the cursor this page was fetched with.
	Cursor   string `json:"cursor" yaml:"cursor"`
	Count    int    `json:"count" yaml:"count"`
	Next     string `json:"next,omitempty" yaml:"next,omitempty"`
	Previous string `json:"previous,omitempty" yaml:"previous,omitempty"`
	Items    []Item `json:"items" yaml:"items"`
}

// HasNext reports whether another page follows this one.
func (p *Page) HasNext() bool {
	return p.Next != ""
}

// Detail is the per-item record shown next to a catalog item.
type Detail struct {
	ID        int      `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Types     []string `json:"types" yaml:"types"`
	Abilities []string `json:"abilities" yaml:"abilities"`
	SpriteURL string   `json:"spriteUrl" yaml:"sprite_url"`
}

type listResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Item  `json:"results"`
}

type detailResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
	} `json:"sprites"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
}

func (r *listResponse) toPage(cursor string) *Page {
	page := &Page{
		Cursor: cursor,
		Count:  r.Count,
		Items:  r.Results,
	}
	if r.Next != nil {
		page.Next = *r.Next
	}
	if r.Previous != nil {
		page.Previous = *r.Previous
	}
	if page.Items == nil {
		page.Items = []Item{}
	}
	return page
}

func (r *detailResponse) toDetail() *Detail {
	detail := &Detail{
		ID:        r.ID,
		Name:      r.Name,
		Types:     make([]string, 0, len(r.Types)),
		Abilities: make([]string, 0, len(r.Abilities)),
	}
	if r.Sprites.FrontDefault != nil {
		detail.SpriteURL = *r.Sprites.FrontDefault
	}
	for _, t := range r.Types {
		detail.Types = append(detail.Types, t.Type.Name)
	}
	for _, a := range r.Abilities {
		detail.Abilities = append(detail.Abilities, a.Ability.Name)
	}
	return detail
}
