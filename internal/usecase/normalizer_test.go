package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopsense/backend/internal/domain"
	"github.com/shopsense/backend/internal/infrastructure/shopify"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty input", "", ""},
		{"plain text untouched", "Herbal hair oil", "Herbal hair oil"},
		{"strips tags", "<p>Cold-pressed <b>coconut</b> oil</p>", "Cold-pressed coconut oil"},
		{
			"removes script blocks including content",
			`before<script type="text/javascript">alert("x")</script>after`,
			"beforeafter",
		},
		{
			"removes style blocks including content",
			"<style>.price { color: red }</style>Pure cotton",
			"Pure cotton",
		},
		{
			"decodes entities",
			"Salt &amp; pepper&nbsp;mix &lt;limited&gt;",
			"Salt & pepper mix <limited>",
		},
		{"collapses whitespace", "a  b\n\t c", "a b c"},
		{
			"multiline tags",
			"<div\nclass=\"x\">wrapped</div>",
			"wrapped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanHTML(tt.in); got != tt.want {
				t.Errorf("cleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	t.Run("strips trailing .0 from integral prices", func(t *testing.T) {
		price, err := normalizePrice([]shopify.RawVariant{{Price: "499.0"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != "499" {
			t.Errorf("price = %q, want \"499\"", price)
		}
	})

	t.Run("keeps fractional prices", func(t *testing.T) {
		price, err := normalizePrice([]shopify.RawVariant{{Price: "499.50"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != "499.5" {
			t.Errorf("price = %q, want \"499.5\"", price)
		}
	})

	t.Run("uses the first variant only", func(t *testing.T) {
		price, err := normalizePrice([]shopify.RawVariant{{Price: "100"}, {Price: "200"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != "100" {
			t.Errorf("price = %q, want \"100\"", price)
		}
	})

	t.Run("rejects zero price", func(t *testing.T) {
		_, err := normalizePrice([]shopify.RawVariant{{Price: "0"}})
		if !errors.Is(err, domain.ErrSourceParse) {
			t.Errorf("error = %v, want ErrSourceParse", err)
		}
	})

	t.Run("rejects zero price with decimals", func(t *testing.T) {
		_, err := normalizePrice([]shopify.RawVariant{{Price: "0.00"}})
		if !errors.Is(err, domain.ErrSourceParse) {
			t.Errorf("error = %v, want ErrSourceParse", err)
		}
	})

	t.Run("rejects unparseable price", func(t *testing.T) {
		_, err := normalizePrice([]shopify.RawVariant{{Price: "free"}})
		if !errors.Is(err, domain.ErrSourceParse) {
			t.Errorf("error = %v, want ErrSourceParse", err)
		}
	})

	t.Run("rejects missing variants", func(t *testing.T) {
		_, err := normalizePrice(nil)
		if !errors.Is(err, domain.ErrSourceParse) {
			t.Errorf("error = %v, want ErrSourceParse", err)
		}
	})
}

func TestNormalizeProduct(t *testing.T) {
	site := SiteConfig{
		Name:            "Traya",
		BaseURL:         "https://traya.health",
		DefaultCategory: "Hair & Wellness",
	}

	raw := shopify.RawProduct{
		Title:       "Hair Vitamin <b>Gummies</b>",
		Handle:      "hair-vitamin-gummies",
		BodyHTML:    "<p>Biotin rich</p><script>track()</script>",
		ProductType: "",
		Tags:        []string{"hair", "vitamins"},
		Images: []shopify.RawImage{
			{Src: "https://cdn.example/1.jpg"},
			{Src: "https://cdn.example/2.jpg"},
		},
		Variants: []shopify.RawVariant{{Price: "699.0"}},
	}

	t.Run("builds a complete draft", func(t *testing.T) {
		draft, err := normalizeProduct(raw, site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if draft.URL != "https://traya.health/products/hair-vitamin-gummies" {
			t.Errorf("URL = %q", draft.URL)
		}
		if draft.Title != "Hair Vitamin Gummies" {
			t.Errorf("Title = %q", draft.Title)
		}
		if draft.Price != "699" {
			t.Errorf("Price = %q, want \"699\"", draft.Price)
		}
		if draft.Description != "Biotin rich" {
			t.Errorf("Description = %q", draft.Description)
		}
		if draft.Features != "hair, vitamins" {
			t.Errorf("Features = %q", draft.Features)
		}
		if draft.Images != "https://cdn.example/1.jpg, https://cdn.example/2.jpg" {
			t.Errorf("Images = %q", draft.Images)
		}
		if draft.Source != "Traya" {
			t.Errorf("Source = %q", draft.Source)
		}
	})

	t.Run("falls back to the site default category", func(t *testing.T) {
		draft, err := normalizeProduct(raw, site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if draft.Category != "Hair & Wellness" {
			t.Errorf("Category = %q, want site default", draft.Category)
		}
	})

	t.Run("prefers the explicit product type", func(t *testing.T) {
		typed := raw
		typed.ProductType = "Supplements"
		draft, err := normalizeProduct(typed, site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if draft.Category != "Supplements" {
			t.Errorf("Category = %q, want \"Supplements\"", draft.Category)
		}
	})

	t.Run("truncates long descriptions", func(t *testing.T) {
		long := raw
		long.BodyHTML = strings.Repeat("very long description ", 200)
		draft, err := normalizeProduct(long, site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := len([]rune(draft.Description)); got != maxDescriptionLen {
			t.Errorf("description length = %d, want %d", got, maxDescriptionLen)
		}
	})

	t.Run("rejects items without a handle", func(t *testing.T) {
		broken := raw
		broken.Handle = ""
		if _, err := normalizeProduct(broken, site); !errors.Is(err, domain.ErrSourceParse) {
			t.Errorf("error = %v, want ErrSourceParse", err)
		}
	})

	t.Run("rejects zero-priced items", func(t *testing.T) {
		free := raw
		free.Variants = []shopify.RawVariant{{Price: "0"}}
		if _, err := normalizeProduct(free, site); !errors.Is(err, domain.ErrSourceParse) {
			t.Errorf("error = %v, want ErrSourceParse", err)
		}
	})
}
