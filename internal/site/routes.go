package site

import "strings"

type View string

const (
	ViewHome        View = "home"
	ViewNFTTokens   View = "nft-tokens"
	ViewMarketplace View = "marketplace"
	ViewAbout       View = "about"
	ViewContact     View = "contact"
)

var routes = map[string]View{
	"/":            ViewHome,
	"/nft-tokens":  ViewNFTTokens,
	"/marketplace": ViewMarketplace,
	"/about":       ViewAbout,
	"/contact":     ViewContact,
}

// Resolve maps a site path to its view. Only the five site paths resolve; a single
// trailing slash is tolerated.
func Resolve(path string) (View, bool) {
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	v, ok := routes[path]
	return v, ok
}
