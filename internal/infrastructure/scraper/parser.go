// Package scraper reads outlets out of the McDonald's Malaysia store-locator page.
package scraper

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/mcdlocator/backend/internal/domain"
)

const (
	outletBoxClass   = "addressBox"
	featureSpanClass = "ed-tooltiptext"
	jsonLDType       = "application/ld+json"

	hours24      = "24 Hours"
	regularHours = "6am - 2am"
)

// jsonLD is the schema.org blob embedded in each outlet box
type jsonLD struct {
	Name    string          `json:"name"`
	Address json.RawMessage `json:"address"`
	Geo     struct {
		Latitude  flexFloat `json:"latitude"`
		Longitude flexFloat `json:"longitude"`
	} `json:"geo"`
}

// flexFloat accepts a JSON number or a numeric string
type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// unparseable coordinates are treated as absent
		return nil
	}
	f.value = &v
	return nil
}

// ParseLocatorPage returns one outlet per addressBox element in r.
// Boxes without a parseable JSON-LD script are skipped.
func ParseLocatorPage(r io.Reader) ([]domain.Outlet, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing locator page: %w", err)
	}

	outlets := []domain.Outlet{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, outletBoxClass) {
			if outlet, ok := parseOutletBox(n); ok {
				outlets = append(outlets, outlet)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return outlets, nil
}

func parseOutletBox(box *html.Node) (domain.Outlet, bool) {
	var (
		data     *jsonLD
		features []domain.FeatureLabel
	)

	forEachElement(box, func(n *html.Node) {
		switch {
		case n.Data == "script" && attr(n, "type") == jsonLDType && data == nil:
			var parsed jsonLD
			if err := json.Unmarshal([]byte(textContent(n)), &parsed); err == nil {
				data = &parsed
			}
		case n.Data == "span" && hasClass(n, featureSpanClass):
			if text := strings.TrimSpace(textContent(n)); text != "" {
				features = append(features, domain.FeatureLabel(text))
			}
		}
	})

	if data == nil {
		return domain.Outlet{}, false
	}

	outlet := domain.Outlet{
		Name:           strings.TrimSpace(data.Name),
		Address:        decodeAddress(data.Address),
		OperatingHours: operatingHours(features),
		Latitude:       data.Geo.Latitude.value,
		Longitude:      data.Geo.Longitude.value,
		Features:       features,
	}
	if outlet.Features == nil {
		outlet.Features = []domain.FeatureLabel{}
	}
	if outlet.HasCoordinates() {
		outlet.WazeLink = domain.WazeLink(*outlet.Latitude, *outlet.Longitude)
	}
	return outlet, true
}

// decodeAddress accepts a plain string or a schema.org PostalAddress
func decodeAddress(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var postal struct {
		StreetAddress   string `json:"streetAddress"`
		AddressLocality string `json:"addressLocality"`
		PostalCode      string `json:"postalCode"`
		AddressRegion   string `json:"addressRegion"`
	}
	if err := json.Unmarshal(raw, &postal); err != nil {
		return ""
	}

	var parts []string
	for _, p := range []string{postal.StreetAddress, postal.PostalCode, postal.AddressLocality, postal.AddressRegion} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func operatingHours(features []domain.FeatureLabel) string {
	for _, f := range features {
		if strings.Contains(strings.ToLower(string(f)), "24 hour") {
			return hours24
		}
	}
	return regularHours
}

func forEachElement(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		forEachElement(c, fn)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
