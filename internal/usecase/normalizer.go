package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopsense/backend/internal/domain"
	"github.com/shopsense/backend/internal/infrastructure/shopify"
)

// Package-level compiled regex patterns for performance
var (
	scriptBlockRegex = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	styleBlockRegex  = regexp.MustCompile(`(?is)<style.*?>.*?</style>`)
	htmlTagRegex     = regexp.MustCompile(`(?s)<.*?>`)
)

// maxDescriptionLen caps persisted descriptions; listing bodies can run to
// tens of kilobytes of markup.
const maxDescriptionLen = 1000

// htmlEntities is the small fixed set of entities seen in listing bodies.
var htmlEntities = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// cleanHTML strips markup from a listing field: script and style blocks
// first, then remaining tags, then entity decoding, then whitespace collapse.
func cleanHTML(raw string) string {
	if raw == "" {
		return ""
	}

	text := scriptBlockRegex.ReplaceAllString(raw, "")
	text = styleBlockRegex.ReplaceAllString(text, "")
	text = htmlTagRegex.ReplaceAllString(text, "")
	text = htmlEntities.Replace(text)

	return strings.Join(strings.Fields(text), " ")
}

// normalizePrice coerces the first variant's price to a decimal string with
// no trailing ".0" when the value is integral. Returns an error when no
// variant carries a parseable non-zero price: such items are not purchasable
// and are excluded from the catalog.
func normalizePrice(variants []shopify.RawVariant) (string, error) {
	if len(variants) == 0 {
		return "", fmt.Errorf("%w: no variants", domain.ErrSourceParse)
	}

	raw := strings.TrimSpace(variants[0].Price)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", fmt.Errorf("%w: unparseable price %q", domain.ErrSourceParse, raw)
	}
	if value == 0 {
		return "", fmt.Errorf("%w: zero price", domain.ErrSourceParse)
	}

	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10), nil
	}
	return strconv.FormatFloat(value, 'f', -1, 64), nil
}

// normalizeProduct turns one raw listing item into a catalog draft.
func normalizeProduct(raw shopify.RawProduct, site SiteConfig) (domain.ProductDraft, error) {
	if raw.Handle == "" {
		return domain.ProductDraft{}, fmt.Errorf("%w: missing handle", domain.ErrSourceParse)
	}

	price, err := normalizePrice(raw.Variants)
	if err != nil {
		return domain.ProductDraft{}, err
	}

	images := make([]string, 0, len(raw.Images))
	for _, img := range raw.Images {
		if img.Src != "" {
			images = append(images, img.Src)
		}
	}

	category := raw.ProductType
	if category == "" {
		category = site.DefaultCategory
	}

	description := cleanHTML(raw.BodyHTML)
	if runes := []rune(description); len(runes) > maxDescriptionLen {
		description = string(runes[:maxDescriptionLen])
	}

	return domain.ProductDraft{
		URL:         shopify.ProductURL(site.BaseURL, raw.Handle),
		Title:       cleanHTML(raw.Title),
		Price:       price,
		Description: description,
		Features:    strings.Join(raw.Tags, ", "),
		Images:      strings.Join(images, ", "),
		Category:    category,
		Source:      site.Name,
	}, nil
}
