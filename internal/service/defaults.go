package service

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"cafepos/backend/internal/domain"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

var defaultCatalog = mustParseCatalog(defaultCatalogYAML)

type seedProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	ImageURL    string `yaml:"image_url"`
	Category    string `yaml:"category"`
	IsAvailable *bool  `yaml:"is_available"`
}

// DefaultCatalog returns a fresh copy of the built-in café menu.
func DefaultCatalog() []domain.Product {
	return cloneProducts(defaultCatalog)
}

// ParseCatalogYAML decodes a seed catalog in the default_catalog.yaml layout.
// Prices are quoted decimals; is_available defaults to true.
func ParseCatalogYAML(data []byte) ([]domain.Product, error) {
	var seeds []seedProduct
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}

	products := make([]domain.Product, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, seed := range seeds {
		if seed.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if _, dup := seen[seed.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %s", i, seed.ID)
		}
		seen[seed.ID] = struct{}{}

		price, err := decimal.NewFromString(seed.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %s: price %q: %w", seed.ID, seed.Price, err)
		}
		available := true
		if seed.IsAvailable != nil {
			available = *seed.IsAvailable
		}
		products = append(products, domain.Product{
			ID:          seed.ID,
			Name:        seed.Name,
			Price:       price,
			ImageURL:    seed.ImageURL,
			Category:    seed.Category,
			IsAvailable: available,
		})
	}
	return products, nil
}

func mustParseCatalog(data []byte) []domain.Product {
	products, err := ParseCatalogYAML(data)
	if err != nil {
		panic(err)
	}
	return products
}

func cloneProducts(src []domain.Product) []domain.Product {
	out := make([]domain.Product, len(src))
	copy(out, src)
	return out
}
