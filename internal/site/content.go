// Package site serves the static copy behind the TerraPulse views: navigation,
// home, about, marketplace and the wallet picker.
package site

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var embeddedContent []byte

type Brand struct {
	Name      string `yaml:"name" json:"name"`
	Tagline   string `yaml:"tagline" json:"tagline"`
	Copyright string `yaml:"copyright" json:"copyright"`
}

type NavItem struct {
	Label  string `yaml:"label" json:"label"`
	Path   string `yaml:"path" json:"path"`
	Icon   string `yaml:"icon" json:"icon"`
	Action string `yaml:"action,omitempty" json:"action,omitempty"`
}

type Link struct {
	Label string `yaml:"label" json:"label"`
	Path  string `yaml:"path" json:"path"`
}

type Footer struct {
	QuickLinks []Link `yaml:"quick_links" json:"quick_links"`
	Legal      []Link `yaml:"legal" json:"legal"`
}

type Feature struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
	Icon  string `yaml:"icon" json:"icon"`
}

// CTA is the closing call to action on the home page.
type CTA struct {
	Title        string    `yaml:"title" json:"title"`
	Text         string    `yaml:"text" json:"text"`
	Actions      []NavItem `yaml:"actions" json:"actions"`
	MemberPrompt string    `yaml:"member_prompt,omitempty" json:"member_prompt,omitempty"`
}

type Home struct {
	Headline    string    `yaml:"headline" json:"headline"`
	Subheadline string    `yaml:"subheadline" json:"subheadline"`
	Actions     []NavItem `yaml:"actions" json:"actions"`
	Features    []Feature `yaml:"features" json:"features"`
	CTA         CTA       `yaml:"cta" json:"cta"`
}

type Stat struct {
	Label    string `yaml:"label" json:"label"`
	Value    string `yaml:"value" json:"value"`
	Change   string `yaml:"change,omitempty" json:"change,omitempty"`
	Positive bool   `yaml:"positive,omitempty" json:"positive,omitempty"`
	Icon     string `yaml:"icon" json:"icon"`
}

type TeamMember struct {
	Name        string `yaml:"name" json:"name"`
	Role        string `yaml:"role" json:"role"`
	Image       string `yaml:"image" json:"image"`
	Description string `yaml:"description" json:"description"`
}

type Value struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type About struct {
	Mission string       `yaml:"mission" json:"mission"`
	Stats   []Stat       `yaml:"stats" json:"stats"`
	Team    []TeamMember `yaml:"team" json:"team"`
	Values  []Value      `yaml:"values" json:"values"`
}

type ChartPoint struct {
	Name  string `yaml:"name" json:"name"`
	Value int    `yaml:"value" json:"value"`
}

type Trade struct {
	NFT   string `yaml:"nft" json:"nft"`
	Price string `yaml:"price" json:"price"`
	From  string `yaml:"from" json:"from"`
	To    string `yaml:"to" json:"to"`
	Time  string `yaml:"time" json:"time"`
}

type Marketplace struct {
	Title            string       `yaml:"title" json:"title"`
	Subtitle         string       `yaml:"subtitle" json:"subtitle"`
	Timeframes       []string     `yaml:"timeframes" json:"timeframes"`
	DefaultTimeframe string       `yaml:"default_timeframe" json:"-"`
	Stats            []Stat       `yaml:"stats" json:"stats"`
	Chart            []ChartPoint `yaml:"chart" json:"chart"`
	Trades           []Trade      `yaml:"trades" json:"trades"`
}

type Wallet struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

// Content is the full site copy. It is loaded once and never mutated.
type Content struct {
	Brand       Brand       `yaml:"brand"`
	Navigation  []NavItem   `yaml:"navigation"`
	Footer      Footer      `yaml:"footer"`
	Home        Home        `yaml:"home"`
	About       About       `yaml:"about"`
	Marketplace Marketplace `yaml:"marketplace"`
	Wallets     []Wallet    `yaml:"wallets"`
}

func LoadEmbedded() (*Content, error) {
	return Parse(embeddedContent)
}

// Parse decodes and checks a content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("site: parse content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	if len(c.Navigation) == 0 {
		return errors.New("site: navigation is empty")
	}
	for _, item := range c.Navigation {
		if item.Action != "" {
			continue
		}
		if _, ok := Resolve(item.Path); !ok {
			return fmt.Errorf("site: navigation item %q points to unknown path %q", item.Label, item.Path)
		}
	}
	for _, item := range append(append([]NavItem{}, c.Home.Actions...), c.Home.CTA.Actions...) {
		if item.Action != "" {
			continue
		}
		if _, ok := Resolve(item.Path); !ok {
			return fmt.Errorf("site: home action %q points to unknown path %q", item.Label, item.Path)
		}
	}
	for _, link := range c.Footer.QuickLinks {
		if _, ok := Resolve(link.Path); !ok {
			return fmt.Errorf("site: footer link %q points to unknown path %q", link.Label, link.Path)
		}
	}
	if len(c.Marketplace.Timeframes) == 0 {
		return errors.New("site: marketplace has no timeframes")
	}
	if !c.Marketplace.hasTimeframe(c.Marketplace.DefaultTimeframe) {
		return fmt.Errorf("site: default timeframe %q is not offered", c.Marketplace.DefaultTimeframe)
	}
	if len(c.Wallets) == 0 {
		return errors.New("site: no wallet options")
	}
	return nil
}
