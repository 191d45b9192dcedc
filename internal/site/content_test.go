package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, "TerraPulse", c.Brand.Name)
	require.Len(t, c.Navigation, 6)
	assert.Equal(t, "connect-wallet", c.Navigation[5].Action)
	assert.Equal(t, []string{"24h", "7d", "30d", "All"}, c.Marketplace.Timeframes)
	assert.Len(t, c.Wallets, 2)
	assert.Equal(t, "Join the Conservation Revolution", c.Home.CTA.Title)
	require.Len(t, c.Home.CTA.Actions, 2)
	assert.Equal(t, "connect-wallet", c.Home.CTA.Actions[0].Action)
	assert.Equal(t, "/nft-tokens", c.Home.CTA.Actions[1].Path)
	for _, link := range c.Footer.QuickLinks {
		_, ok := Resolve(link.Path)
		assert.True(t, ok, "footer link %s", link.Path)
	}
}

func TestParseRejectsBrokenContent(t *testing.T) {
	_, err := Parse([]byte("navigation: [{label: Home, path: /home}]"))
	assert.ErrorContains(t, err, "unknown path")

	_, err = Parse([]byte(`
navigation: [{label: Home, path: /}]
marketplace: {timeframes: [24h], default_timeframe: 1y}
wallets: [{name: Plug Wallet}]
`))
	assert.ErrorContains(t, err, "default timeframe")

	_, err = Parse([]byte(`
navigation: [{label: Home, path: /}]
home: {cta: {actions: [{label: Dashboard, path: /dashboard}]}}
`))
	assert.ErrorContains(t, err, "home action")

	_, err = Parse([]byte("navigation: ["))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	cases := map[string]struct {
		view View
		ok   bool
	}{
		"/":             {ViewHome, true},
		"/nft-tokens":   {ViewNFTTokens, true},
		"/marketplace/": {ViewMarketplace, true},
		"/about":        {ViewAbout, true},
		"/contact":      {ViewContact, true},
		"/about-us":     {"", false},
		"/Contact":      {"", false},
		"":              {"", false},
	}
	for path, want := range cases {
		view, ok := Resolve(path)
		assert.Equal(t, want.ok, ok, path)
		assert.Equal(t, want.view, view, path)
	}
}

func TestMarketplaceFor(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	view, err := c.MarketplaceFor("")
	require.NoError(t, err)
	assert.Equal(t, "24h", view.Timeframe)

	view, err = c.MarketplaceFor("all")
	require.NoError(t, err)
	assert.Equal(t, "All", view.Timeframe)

	_, err = c.MarketplaceFor("1y")
	assert.ErrorIs(t, err, ErrUnknownTimeframe)
}

func TestConnectWallet(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	assert.ErrorIs(t, c.ConnectWallet("plug wallet"), ErrWalletNotImplemented)
	assert.ErrorIs(t, c.ConnectWallet("MetaMask"), ErrUnknownWallet)
}
